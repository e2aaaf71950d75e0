package postgres

import (
	"context"
	"errors"

	"github.com/ogurasousui/hr-records/internal/core/activity"
	pgdb "github.com/ogurasousui/hr-records/internal/platform/db/postgres"
)

var errActivityEntryNotFound = errors.New("postgres: activity entry not found")

// ActivityRepository は activity_entries テーブルを利用した操作履歴の実装です。
type ActivityRepository struct {
	pool pgdb.Queryer
}

// NewActivityRepository は ActivityRepository を生成します。
func NewActivityRepository(pool pgdb.Queryer) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Append は操作履歴を 1 行追加します。
func (r *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `INSERT INTO activity_entries (at, description) VALUES ($1, $2)`, entry.At, entry.Description); err != nil {
		return translatePgError(err, errActivityEntryNotFound)
	}
	return nil
}

// List は記録順に全件を返します。
func (r *ActivityRepository) List(ctx context.Context) ([]*activity.Entry, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT at, description FROM activity_entries ORDER BY id`)
	if err != nil {
		return nil, translatePgError(err, errActivityEntryNotFound)
	}
	defer rows.Close()

	entries := make([]*activity.Entry, 0)
	for rows.Next() {
		var e activity.Entry
		if err := rows.Scan(&e.At, &e.Description); err != nil {
			return nil, translatePgError(err, errActivityEntryNotFound)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePgError(err, errActivityEntryNotFound)
	}
	return entries, nil
}
