package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

// realClock はローカル時刻を返します。同日判定は設定されたタイムゾーンのカレンダー日で行います。
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// ActivityRecorder は操作履歴への記録を抽象化します。
type ActivityRecorder interface {
	Record(ctx context.Context, text string) error
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, string) error { return nil }

// UseCase は出勤台帳ユースケースの公開インターフェースです。
type UseCase interface {
	MarkAttendance(ctx context.Context, in MarkAttendanceInput) ([]MarkResult, error)
	DeleteHistory(ctx context.Context, in DeleteHistoryInput) error
	History(ctx context.Context, employeeID string) ([]time.Time, error)
	HasHistory(ctx context.Context, employeeID string) (bool, error)
	ListLogs(ctx context.Context) ([]*Log, error)
}

// Service は出勤台帳に関するユースケースをまとめます。
// 「同じ日」の判定は loc のカレンダー日付で行います。
type Service struct {
	repo     Repository
	clock    Clock
	tx       TransactionManager
	activity ActivityRecorder
	loc      *time.Location
}

// NewService は Service を生成します。loc が nil の場合は time.Local を使います。
func NewService(repo Repository, clock Clock, tx TransactionManager, activity ActivityRecorder, loc *time.Location) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if activity == nil {
		activity = noopRecorder{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, clock: clock, tx: tx, activity: activity, loc: loc}
}

// MarkAttendanceInput は出勤登録の入力です。
type MarkAttendanceInput struct {
	Employees []EmployeeRef
}

// DeleteHistoryInput は出勤履歴削除の入力です。
type DeleteHistoryInput struct {
	EmployeeID string
}

// MarkAttendance は対象社員の出勤を記録します。
//
// 最新の記録が今日と同じ日付の社員は ResultAlreadyMarked となり、残りの社員の処理は続行します。
// 1 人でも記録した場合に限り、一括で保存し操作履歴を 1 行だけ追記します。
func (s *Service) MarkAttendance(ctx context.Context, in MarkAttendanceInput) ([]MarkResult, error) {
	if len(in.Employees) == 0 {
		return nil, ErrNoEmployees
	}

	refs := make([]EmployeeRef, 0, len(in.Employees))
	for _, ref := range in.Employees {
		id := strings.TrimSpace(ref.ID)
		if id == "" {
			return nil, ErrInvalidEmployeeID
		}
		refs = append(refs, EmployeeRef{ID: id, Name: strings.TrimSpace(ref.Name)})
	}

	var results []MarkResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now().Truncate(time.Second)
		markedToday := make(map[string]bool, len(refs))
		results = make([]MarkResult, 0, len(refs))

		var (
			checkIns []CheckIn
			names    []string
		)

		for _, ref := range refs {
			already := markedToday[ref.ID]
			if !already {
				latest, err := s.latestCheckIn(txCtx, ref.ID)
				if err != nil {
					return err
				}
				already = !latest.IsZero() && sameDay(latest, now, s.loc)
			}

			if already {
				results = append(results, MarkResult{EmployeeID: ref.ID, EmployeeName: ref.Name, Result: ResultAlreadyMarked})
				continue
			}

			markedToday[ref.ID] = true
			checkIns = append(checkIns, CheckIn{EmployeeID: ref.ID, EmployeeName: ref.Name, At: now})
			names = append(names, displayName(ref))
			results = append(results, MarkResult{EmployeeID: ref.ID, EmployeeName: ref.Name, Result: ResultMarked, CheckedInAt: now})
		}

		if len(checkIns) == 0 {
			return nil
		}

		if err := s.repo.AppendCheckIns(txCtx, checkIns); err != nil {
			return err
		}

		if err := s.activity.Record(txCtx, "Marked attendance for: "+strings.Join(names, ", ")); err != nil {
			return fmt.Errorf("attendance: record activity: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return results, nil
}

// DeleteHistory は社員の出勤履歴をすべて削除します。履歴がなくてもエラーにはなりません。
func (s *Service) DeleteHistory(ctx context.Context, in DeleteHistoryInput) error {
	id := strings.TrimSpace(in.EmployeeID)
	if id == "" {
		return ErrInvalidEmployeeID
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.repo.DeleteByEmployeeID(txCtx, id); err != nil {
			return err
		}
		if err := s.activity.Record(txCtx, "Deleted attendance history for employee: "+id); err != nil {
			return fmt.Errorf("attendance: record activity: %w", err)
		}
		return nil
	})
}

// History は社員の出勤時刻を古い順に返します。履歴がない場合は空のスライスを返します。
func (s *Service) History(ctx context.Context, employeeID string) ([]time.Time, error) {
	id := strings.TrimSpace(employeeID)
	if id == "" {
		return nil, ErrInvalidEmployeeID
	}

	history := []time.Time{}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		log, err := s.repo.FindByEmployeeID(txCtx, id)
		if errors.Is(err, ErrLogNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		history = append(history, log.CheckIns...)
		return nil
	}); err != nil {
		return nil, err
	}
	return history, nil
}

// HasHistory は台帳に社員の記録が存在するかを返します。
func (s *Service) HasHistory(ctx context.Context, employeeID string) (bool, error) {
	id := strings.TrimSpace(employeeID)
	if id == "" {
		return false, ErrInvalidEmployeeID
	}

	var exists bool
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		_, err := s.repo.FindByEmployeeID(txCtx, id)
		switch {
		case errors.Is(err, ErrLogNotFound):
			return nil
		case err != nil:
			return err
		}
		exists = true
		return nil
	}); err != nil {
		return false, err
	}
	return exists, nil
}

// ListLogs は全社員分の出勤記録を返します。
func (s *Service) ListLogs(ctx context.Context) ([]*Log, error) {
	var logs []*Log
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		logs = result
		return nil
	}); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Service) latestCheckIn(ctx context.Context, employeeID string) (time.Time, error) {
	log, err := s.repo.FindByEmployeeID(ctx, employeeID)
	if errors.Is(err, ErrLogNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	latest, _ := log.Latest()
	return latest, nil
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func displayName(ref EmployeeRef) string {
	if ref.Name != "" {
		return ref.Name
	}
	return ref.ID
}
