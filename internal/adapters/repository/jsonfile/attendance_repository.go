package jsonfile

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ogurasousui/hr-records/internal/core/attendance"
)

type attendanceRecord struct {
	Name     string   `json:"name"`
	CheckIns []string `json:"check_ins"`
}

// AttendanceRepository は attendance.json を利用した出勤台帳の実装です。
// ファイルは社員 ID から出勤記録へのオブジェクトで、時刻は RFC 3339 文字列です。
type AttendanceRepository struct {
	store *Store
}

// NewAttendanceRepository は AttendanceRepository を生成します。
func NewAttendanceRepository(store *Store) *AttendanceRepository {
	return &AttendanceRepository{store: store}
}

// FindByEmployeeID は社員の出勤記録を返します。
func (r *AttendanceRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*attendance.Log, error) {
	var found *attendance.Log
	err := r.store.locked(ctx, func(context.Context) error {
		ledger, err := r.load()
		if err != nil {
			return err
		}

		rec, ok := ledger[employeeID]
		if !ok {
			return attendance.ErrLogNotFound
		}
		found, err = rec.toEntity(employeeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// List は社員 ID 順に全出勤記録を返します。
func (r *AttendanceRepository) List(ctx context.Context) ([]*attendance.Log, error) {
	var logs []*attendance.Log
	err := r.store.locked(ctx, func(context.Context) error {
		ledger, err := r.load()
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(ledger))
		for id := range ledger {
			ids = append(ids, id)
		}
		slices.Sort(ids)

		logs = make([]*attendance.Log, 0, len(ids))
		for _, id := range ids {
			log, err := ledger[id].toEntity(id)
			if err != nil {
				return err
			}
			logs = append(logs, log)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// AppendCheckIns は出勤記録を追記してファイルを 1 回だけ書き直します。
func (r *AttendanceRepository) AppendCheckIns(ctx context.Context, checkIns []attendance.CheckIn) error {
	if len(checkIns) == 0 {
		return nil
	}

	return r.store.locked(ctx, func(context.Context) error {
		ledger, err := r.load()
		if err != nil {
			return err
		}

		for _, c := range checkIns {
			rec := ledger[c.EmployeeID]
			if name := strings.TrimSpace(c.EmployeeName); name != "" {
				rec.Name = name
			}
			rec.CheckIns = append(rec.CheckIns, c.At.Format(time.RFC3339))
			ledger[c.EmployeeID] = rec
		}

		return r.store.writeJSON(attendanceFile, ledger)
	})
}

// DeleteByEmployeeID は社員の出勤記録をすべて削除します。
func (r *AttendanceRepository) DeleteByEmployeeID(ctx context.Context, employeeID string) error {
	return r.store.locked(ctx, func(context.Context) error {
		ledger, err := r.load()
		if err != nil {
			return err
		}

		if _, ok := ledger[employeeID]; !ok {
			return nil
		}
		delete(ledger, employeeID)
		return r.store.writeJSON(attendanceFile, ledger)
	})
}

func (r *AttendanceRepository) load() (map[string]attendanceRecord, error) {
	ledger := make(map[string]attendanceRecord)
	if _, err := r.store.readJSON(attendanceFile, &ledger); err != nil {
		return nil, err
	}
	if ledger == nil {
		ledger = make(map[string]attendanceRecord)
	}
	return ledger, nil
}

func (rec attendanceRecord) toEntity(employeeID string) (*attendance.Log, error) {
	checkIns := make([]time.Time, 0, len(rec.CheckIns))
	for _, raw := range rec.CheckIns {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("jsonfile: attendance %s check-in %q: %w", employeeID, raw, err)
		}
		checkIns = append(checkIns, t)
	}
	return &attendance.Log{
		EmployeeID:   employeeID,
		EmployeeName: rec.Name,
		CheckIns:     checkIns,
	}, nil
}
