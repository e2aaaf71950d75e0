package project

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DateLayout はプロジェクトの開始日・終了日の書式です。
const DateLayout = "2006-01-02"

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

// Service はプロジェクト台帳に関するユースケースをまとめます。
type Service struct {
	repo     Repository
	clock    Clock
	tx       TransactionManager
	activity ActivityRecorder
}

// UseCase はプロジェクトユースケースの公開インターフェースです。
type UseCase interface {
	AddProject(ctx context.Context, in AddProjectInput) (*Project, error)
	GetProject(ctx context.Context, in GetProjectInput) (*Project, error)
	UpdateProject(ctx context.Context, in UpdateProjectInput) (*Project, error)
	DeleteProject(ctx context.Context, in DeleteProjectInput) error
	AssignEmployees(ctx context.Context, in AssignEmployeesInput) (*Project, error)
	SetStatus(ctx context.Context, in SetStatusInput) (*Project, error)
	SearchProjects(ctx context.Context, in SearchProjectsInput) ([]*Project, error)
	SortProjects(ctx context.Context, in SortProjectsInput) ([]*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
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

// AddProjectInput はプロジェクト追加時の入力です。日付は yyyy-mm-dd 形式です。
type AddProjectInput struct {
	Name        string
	StartDate   string
	EndDate     string
	Description string
}

// UpdateProjectInput はプロジェクト更新時の入力です。追加時と同じ検証を行います。
type UpdateProjectInput struct {
	ID          int64
	Name        string
	StartDate   string
	EndDate     string
	Description string
}

// GetProjectInput はプロジェクト取得時の入力です。
type GetProjectInput struct {
	ID int64
}

// DeleteProjectInput はプロジェクト削除時の入力です。
type DeleteProjectInput struct {
	ID int64
}

// AssignEmployeesInput は社員割り当ての入力です。
type AssignEmployeesInput struct {
	ID          int64
	EmployeeIDs []string
}

// SetStatusInput はステータス更新の入力です。
type SetStatusInput struct {
	ID     int64
	Status string
}

// SearchProjectsInput は名前検索の入力です。
type SearchProjectsInput struct {
	Name string
}

// SortProjectsInput は並び替えの入力です。
type SortProjectsInput struct {
	Key SortKey
}

type projectFields struct {
	name        string
	start       time.Time
	end         time.Time
	description string
}

// AddProject は新しいプロジェクトを追加します。
func (s *Service) AddProject(ctx context.Context, in AddProjectInput) (*Project, error) {
	fields, err := validateFields(in.Name, in.StartDate, in.EndDate, in.Description)
	if err != nil {
		return nil, err
	}

	var created *Project
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Project{
			Name:              fields.name,
			StartDate:         fields.start,
			EndDate:           fields.end,
			Description:       fields.description,
			AssignedEmployees: []string{},
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if err != nil {
			return err
		}

		if err := s.activity.Record(txCtx, "Added project: "+result.Name); err != nil {
			return fmt.Errorf("project: record activity: %w", err)
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateProject はプロジェクトの名前・期間・説明を更新します。
func (s *Service) UpdateProject(ctx context.Context, in UpdateProjectInput) (*Project, error) {
	if err := validateID(in.ID); err != nil {
		return nil, err
	}

	fields, err := validateFields(in.Name, in.StartDate, in.EndDate, in.Description)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, in.ID, func(p *Project) string {
		p.Name = fields.name
		p.StartDate = fields.start
		p.EndDate = fields.end
		p.Description = fields.description
		return "Updated project: " + p.Name
	})
}

// DeleteProject はプロジェクトを削除します。残りのプロジェクトの ID は変わりません。
func (s *Service) DeleteProject(ctx context.Context, in DeleteProjectInput) error {
	if err := validateID(in.ID); err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		if err := s.repo.Delete(txCtx, in.ID); err != nil {
			return err
		}

		if err := s.activity.Record(txCtx, "Deleted project: "+existing.Name); err != nil {
			return fmt.Errorf("project: record activity: %w", err)
		}
		return nil
	})
}

// AssignEmployees は社員 ID をプロジェクトの割り当て一覧の末尾に追加します。
func (s *Service) AssignEmployees(ctx context.Context, in AssignEmployeesInput) (*Project, error) {
	if err := validateID(in.ID); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(in.EmployeeIDs))
	for _, raw := range in.EmployeeIDs {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	if len(ids) == 0 {
		return nil, ErrInvalidAssignment
	}

	return s.mutate(ctx, in.ID, func(p *Project) string {
		p.AssignedEmployees = append(p.AssignedEmployees, ids...)
		return fmt.Sprintf("Assigned employees %s to project: %s", strings.Join(ids, ", "), p.Name)
	})
}

// SetStatus はプロジェクトのステータス (自由記述) を更新します。
func (s *Service) SetStatus(ctx context.Context, in SetStatusInput) (*Project, error) {
	if err := validateID(in.ID); err != nil {
		return nil, err
	}

	status := strings.TrimSpace(in.Status)
	return s.mutate(ctx, in.ID, func(p *Project) string {
		p.Status = status
		return fmt.Sprintf("Set status of project %s to: %s", p.Name, status)
	})
}

// GetProject は ID でプロジェクトを取得します。
func (s *Service) GetProject(ctx context.Context, in GetProjectInput) (*Project, error) {
	if err := validateID(in.ID); err != nil {
		return nil, err
	}

	var result *Project
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
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

// SearchProjects は名前の完全一致 (大文字小文字は区別しない) で検索します。部分一致は行いません。
func (s *Service) SearchProjects(ctx context.Context, in SearchProjectsInput) ([]*Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	var result []*Project
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByName(txCtx, name)
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

// SortProjects は指定キーで安定ソートし、その並びを表示順として保存します。
func (s *Service) SortProjects(ctx context.Context, in SortProjectsInput) ([]*Project, error) {
	compare, err := comparatorFor(in.Key)
	if err != nil {
		return nil, err
	}

	var sorted []*Project
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		projects, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}

		slices.SortStableFunc(projects, compare)

		ids := make([]int64, 0, len(projects))
		for i, p := range projects {
			p.Position = i + 1
			ids = append(ids, p.ID)
		}

		if err := s.repo.Reorder(txCtx, ids); err != nil {
			return err
		}

		if err := s.activity.Record(txCtx, fmt.Sprintf("Sorted projects by %s", in.Key)); err != nil {
			return fmt.Errorf("project: record activity: %w", err)
		}

		sorted = projects
		return nil
	}); err != nil {
		return nil, err
	}
	return sorted, nil
}

// ListProjects は表示順で全プロジェクトを返します。
func (s *Service) ListProjects(ctx context.Context) ([]*Project, error) {
	var projects []*Project
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		projects = result
		return nil
	}); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Service) mutate(ctx context.Context, id int64, apply func(*Project) string) (*Project, error) {
	var updated *Project
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		message := apply(existing)
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		if err := s.activity.Record(txCtx, message); err != nil {
			return fmt.Errorf("project: record activity: %w", err)
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

// ParseID は文字列表現のプロジェクト ID を解釈します。
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}
	return nil
}

func validateFields(name, start, end, description string) (projectFields, error) {
	var f projectFields

	f.name = strings.TrimSpace(name)
	if f.name == "" {
		return f, ErrInvalidName
	}

	f.description = strings.TrimSpace(description)
	if f.description == "" {
		return f, ErrInvalidDescription
	}

	var err error
	if f.start, err = parseDate(start); err != nil {
		return f, fmt.Errorf("start_date: %w", err)
	}
	if f.end, err = parseDate(end); err != nil {
		return f, fmt.Errorf("end_date: %w", err)
	}

	return f, nil
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func comparatorFor(key SortKey) (func(a, b *Project) int, error) {
	switch key {
	case SortByName:
		return func(a, b *Project) int { return strings.Compare(a.Name, b.Name) }, nil
	case SortByStartDate:
		return func(a, b *Project) int { return a.StartDate.Compare(b.StartDate) }, nil
	case SortByEndDate:
		return func(a, b *Project) int { return a.EndDate.Compare(b.EndDate) }, nil
	default:
		return nil, ErrInvalidSortKey
	}
}
