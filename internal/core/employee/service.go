package employee

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateOfBirthLayout は入力される生年月日の書式 (dd/mm/yyyy) です。
const DateOfBirthLayout = "02/01/2006"

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
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

// Service は社員名簿に関するユースケースをまとめます。
type Service struct {
	repo     Repository
	clock    Clock
	tx       TransactionManager
	activity ActivityRecorder
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	AddEmployee(ctx context.Context, in AddEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
	SearchEmployee(ctx context.Context, in SearchEmployeeInput) (*Employee, error)
	SortEmployees(ctx context.Context, in SortEmployeesInput) ([]*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager, activity ActivityRecorder) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if activity == nil {
		activity = noopRecorder{}
	}
	return &Service{repo: repo, clock: clock, tx: tx, activity: activity}
}

// AddEmployeeInput は社員追加時の入力です。DateOfBirth は dd/mm/yyyy 形式の文字列です。
type AddEmployeeInput struct {
	Code         string
	DepartmentID string
	SalaryRef    string
	Name         string
	DateOfBirth  string
	Gender       string
	Ethnicity    string
	NationalID   string
	IDIssuePlace string
	JobTitle     string
	HiredAt      *time.Time
}

// UpdateEmployeeInput は社員更新時の入力です。nil のフィールドは変更しません。
type UpdateEmployeeInput struct {
	ID           string
	Code         *string
	DepartmentID *string
	SalaryRef    *string
	Name         *string
	DateOfBirth  *string
	Gender       *string
	Ethnicity    *string
	NationalID   *string
	IDIssuePlace *string
	JobTitle     *string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID string
}

// SearchEmployeeInput は社員番号検索の入力です。
type SearchEmployeeInput struct {
	Code string
}

// SortEmployeesInput は並び替えの入力です。
type SortEmployeesInput struct {
	Key SortKey
}

// AddEmployee は社員を名簿の末尾に追加します。
func (s *Service) AddEmployee(ctx context.Context, in AddEmployeeInput) (*Employee, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	dob, err := ParseDateOfBirth(in.DateOfBirth)
	if err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		hiredAt := now
		if in.HiredAt != nil {
			hiredAt = *in.HiredAt
		}

		result, err := s.repo.Create(txCtx, &Employee{
			Code:         strings.TrimSpace(in.Code),
			DepartmentID: strings.TrimSpace(in.DepartmentID),
			SalaryRef:    strings.TrimSpace(in.SalaryRef),
			Name:         name,
			DateOfBirth:  dob,
			Gender:       strings.TrimSpace(in.Gender),
			Ethnicity:    strings.TrimSpace(in.Ethnicity),
			NationalID:   strings.TrimSpace(in.NationalID),
			IDIssuePlace: strings.TrimSpace(in.IDIssuePlace),
			JobTitle:     strings.TrimSpace(in.JobTitle),
			HiredAt:      hiredAt.Truncate(time.Second),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}

		if err := s.activity.Record(txCtx, "Added employee: "+result.Name); err != nil {
			return fmt.Errorf("employee: record activity: %w", err)
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は社員情報を更新します。
// すべての入力を検証してから反映するため、検証に失敗した場合は何も変更されません。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var name string
	if in.Name != nil {
		if name, err = normalizeName(*in.Name); err != nil {
			return nil, err
		}
	}

	var dob time.Time
	if in.DateOfBirth != nil {
		if dob, err = ParseDateOfBirth(*in.DateOfBirth); err != nil {
			return nil, err
		}
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			existing.Name = name
		}
		if in.DateOfBirth != nil {
			existing.DateOfBirth = dob
		}
		applyText(&existing.Code, in.Code)
		applyText(&existing.DepartmentID, in.DepartmentID)
		applyText(&existing.SalaryRef, in.SalaryRef)
		applyText(&existing.Gender, in.Gender)
		applyText(&existing.Ethnicity, in.Ethnicity)
		applyText(&existing.NationalID, in.NationalID)
		applyText(&existing.IDIssuePlace, in.IDIssuePlace)
		applyText(&existing.JobTitle, in.JobTitle)
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		if err := s.activity.Record(txCtx, "Updated employee: "+result.Name); err != nil {
			return fmt.Errorf("employee: record activity: %w", err)
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEmployee は社員を削除します。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	id, err := normalizeID(in.ID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}

		if err := s.activity.Record(txCtx, "Deleted employee: "+existing.Name); err != nil {
			return fmt.Errorf("employee: record activity: %w", err)
		}
		return nil
	})
}

// GetEmployee は ID で社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// SearchEmployee は社員番号の完全一致で社員を検索します。
func (s *Service) SearchEmployee(ctx context.Context, in SearchEmployeeInput) (*Employee, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, ErrInvalidCode
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByCode(txCtx, code)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// SortEmployees は指定キーで安定ソートし、その並びを表示順として保存します。
// ID による参照は並び替えの影響を受けません。
func (s *Service) SortEmployees(ctx context.Context, in SortEmployeesInput) ([]*Employee, error) {
	compare, err := comparatorFor(in.Key)
	if err != nil {
		return nil, err
	}

	var sorted []*Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		employees, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}

		slices.SortStableFunc(employees, compare)

		ids := make([]string, 0, len(employees))
		for i, emp := range employees {
			emp.Position = i + 1
			ids = append(ids, emp.ID)
		}

		if err := s.repo.Reorder(txCtx, ids); err != nil {
			return err
		}

		if err := s.activity.Record(txCtx, fmt.Sprintf("Sorted employees by %s", in.Key)); err != nil {
			return fmt.Errorf("employee: record activity: %w", err)
		}

		sorted = employees
		return nil
	}); err != nil {
		return nil, err
	}

	return sorted, nil
}

// ListEmployees は表示順で全社員を返します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		employees = result
		return nil
	}); err != nil {
		return nil, err
	}
	return employees, nil
}

// ParseDateOfBirth は dd/mm/yyyy 形式の生年月日を解釈します。
func ParseDateOfBirth(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateOfBirthLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDateOfBirth
	}
	return t, nil
}

func comparatorFor(key SortKey) (func(a, b *Employee) int, error) {
	switch key {
	case SortByName:
		return func(a, b *Employee) int { return strings.Compare(a.Name, b.Name) }, nil
	case SortByCode:
		return func(a, b *Employee) int { return strings.Compare(a.Code, b.Code) }, nil
	case SortByDepartment:
		return func(a, b *Employee) int { return strings.Compare(a.DepartmentID, b.DepartmentID) }, nil
	case SortBySalary:
		return compareSalary, nil
	case SortByDateOfBirth:
		return func(a, b *Employee) int { return a.DateOfBirth.Compare(b.DateOfBirth) }, nil
	default:
		return nil, ErrInvalidSortKey
	}
}

// compareSalary は数値として解釈できる場合は数値で、できない場合は文字列で比較します。
func compareSalary(a, b *Employee) int {
	da, errA := decimal.NewFromString(a.SalaryRef)
	db, errB := decimal.NewFromString(b.SalaryRef)
	switch {
	case errA == nil && errB == nil:
		return da.Cmp(db)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a.SalaryRef, b.SalaryRef)
	}
}

func normalizeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return trimmed, nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func applyText(dst *string, value *string) {
	if value == nil {
		return
	}
	*dst = strings.TrimSpace(*value)
}
