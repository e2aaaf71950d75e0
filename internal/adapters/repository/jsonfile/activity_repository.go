package jsonfile

import (
	"context"
	"time"

	"github.com/ogurasousui/hr-records/internal/core/activity"
)

type activityRecord struct {
	At          time.Time `json:"at"`
	Description string    `json:"description"`
}

// ActivityRepository は activity.json を利用した操作履歴の実装です。
type ActivityRepository struct {
	store *Store
}

// NewActivityRepository は ActivityRepository を生成します。
func NewActivityRepository(store *Store) *ActivityRepository {
	return &ActivityRepository{store: store}
}

// Append は操作履歴を末尾に追加します。
func (r *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
	return r.store.locked(ctx, func(context.Context) error {
		records, err := r.load()
		if err != nil {
			return err
		}
		records = append(records, activityRecord{At: entry.At, Description: entry.Description})
		return r.store.writeJSON(activityFile, records)
	})
}

// List は記録順に全件を返します。
func (r *ActivityRepository) List(ctx context.Context) ([]*activity.Entry, error) {
	var entries []*activity.Entry
	err := r.store.locked(ctx, func(context.Context) error {
		records, err := r.load()
		if err != nil {
			return err
		}
		entries = make([]*activity.Entry, 0, len(records))
		for _, rec := range records {
			entries = append(entries, &activity.Entry{At: rec.At, Description: rec.Description})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ActivityRepository) load() ([]activityRecord, error) {
	var records []activityRecord
	if _, err := r.store.readJSON(activityFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}
