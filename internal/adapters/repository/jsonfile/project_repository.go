package jsonfile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/hr-records/internal/core/project"
)

type projectFile struct {
	NextID   int64           `json:"next_id"`
	Projects []projectRecord `json:"projects"`
}

type projectRecord struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	AssignedEmployees []string `json:"assigned_employees"`
	Position          int      `json:"position"`
	CreatedAt         string   `json:"created_at,omitempty"`
	UpdatedAt         string   `json:"updated_at,omitempty"`
}

// ProjectRepository は projects.json を利用したプロジェクト永続化の実装です。
// 採番カウンタをファイル内に保持し、削除済みの ID を再利用しません。
type ProjectRepository struct {
	store *Store
}

// NewProjectRepository は ProjectRepository を生成します。
func NewProjectRepository(store *Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

// Create は次の ID を採番して末尾に追加します。
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	var created *project.Project
	err := r.store.locked(ctx, func(context.Context) error {
		file, err := r.load()
		if err != nil {
			return err
		}

		rec := toProjectRecord(p)
		rec.ID = file.NextID
		file.NextID++

		last := 0
		for _, existing := range file.Projects {
			last = max(last, existing.Position)
		}
		rec.Position = last + 1
		file.Projects = append(file.Projects, rec)

		if err := r.store.writeJSON(projectsFile, file); err != nil {
			return err
		}
		created, err = rec.toEntity()
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update はプロジェクトを上書きします。表示順と作成日時は維持します。
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) (*project.Project, error) {
	var updated *project.Project
	err := r.store.locked(ctx, func(context.Context) error {
		file, err := r.load()
		if err != nil {
			return err
		}

		idx := indexOfProject(file.Projects, p.ID)
		if idx < 0 {
			return project.ErrProjectNotFound
		}

		rec := toProjectRecord(p)
		rec.Position = file.Projects[idx].Position
		rec.CreatedAt = file.Projects[idx].CreatedAt
		file.Projects[idx] = rec

		if err := r.store.writeJSON(projectsFile, file); err != nil {
			return err
		}
		updated, err = rec.toEntity()
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete はプロジェクトを削除します。採番カウンタは戻しません。
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	return r.store.locked(ctx, func(context.Context) error {
		file, err := r.load()
		if err != nil {
			return err
		}

		idx := indexOfProject(file.Projects, id)
		if idx < 0 {
			return project.ErrProjectNotFound
		}

		file.Projects = append(file.Projects[:idx], file.Projects[idx+1:]...)
		return r.store.writeJSON(projectsFile, file)
	})
}

// FindByID は ID でプロジェクトを取得します。
func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*project.Project, error) {
	var found *project.Project
	err := r.store.locked(ctx, func(context.Context) error {
		file, err := r.load()
		if err != nil {
			return err
		}

		idx := indexOfProject(file.Projects, id)
		if idx < 0 {
			return project.ErrProjectNotFound
		}
		found, err = file.Projects[idx].toEntity()
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// FindByName は大文字小文字を区別せずに名前が一致するプロジェクトを表示順で返します。
func (r *ProjectRepository) FindByName(ctx context.Context, name string) ([]*project.Project, error) {
	return r.collect(ctx, func(rec projectRecord) bool {
		return strings.EqualFold(rec.Name, name)
	})
}

// List は表示順で全プロジェクトを返します。
func (r *ProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	return r.collect(ctx, func(projectRecord) bool { return true })
}

// Reorder は ids の並びを新しい表示順として保存します。
func (r *ProjectRepository) Reorder(ctx context.Context, ids []int64) error {
	return r.store.locked(ctx, func(context.Context) error {
		file, err := r.load()
		if err != nil {
			return err
		}

		byID := make(map[int64]projectRecord, len(file.Projects))
		for _, rec := range file.Projects {
			byID[rec.ID] = rec
		}

		ordered := make([]projectRecord, 0, len(file.Projects))
		for _, id := range ids {
			if rec, ok := byID[id]; ok {
				ordered = append(ordered, rec)
				delete(byID, id)
			}
		}
		for _, rec := range file.Projects {
			if _, ok := byID[rec.ID]; ok {
				ordered = append(ordered, rec)
			}
		}
		for i := range ordered {
			ordered[i].Position = i + 1
		}

		file.Projects = ordered
		return r.store.writeJSON(projectsFile, file)
	})
}

func (r *ProjectRepository) collect(ctx context.Context, match func(projectRecord) bool) ([]*project.Project, error) {
	var projects []*project.Project
	err := r.store.locked(ctx, func(context.Context) error {
		file, err := r.load()
		if err != nil {
			return err
		}

		projects = make([]*project.Project, 0, len(file.Projects))
		for _, rec := range file.Projects {
			if !match(rec) {
				continue
			}
			p, err := rec.toEntity()
			if err != nil {
				return err
			}
			projects = append(projects, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) load() (*projectFile, error) {
	file := &projectFile{}
	if _, err := r.store.readJSON(projectsFile, file); err != nil {
		return nil, err
	}

	// next_id を持たない古いファイルは既存の最大 ID から再開する
	for _, rec := range file.Projects {
		if rec.ID >= file.NextID {
			file.NextID = rec.ID + 1
		}
	}
	if file.NextID < 1 {
		file.NextID = 1
	}
	return file, nil
}

func indexOfProject(records []projectRecord, id int64) int {
	for i, rec := range records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func toProjectRecord(p *project.Project) projectRecord {
	assigned := append([]string{}, p.AssignedEmployees...)
	return projectRecord{
		ID:                p.ID,
		Name:              p.Name,
		StartDate:         formatDate(p.StartDate),
		EndDate:           formatDate(p.EndDate),
		Description:       p.Description,
		Status:            p.Status,
		AssignedEmployees: assigned,
		Position:          p.Position,
		CreatedAt:         formatTimestamp(p.CreatedAt),
		UpdatedAt:         formatTimestamp(p.UpdatedAt),
	}
}

func (rec projectRecord) toEntity() (*project.Project, error) {
	start, err := parseDate(rec.StartDate)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: project %d start_date: %w", rec.ID, err)
	}
	end, err := parseDate(rec.EndDate)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: project %d end_date: %w", rec.ID, err)
	}
	createdAt, err := parseTimestamp(rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: project %d created_at: %w", rec.ID, err)
	}
	updatedAt, err := parseTimestamp(rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: project %d updated_at: %w", rec.ID, err)
	}

	assigned := rec.AssignedEmployees
	if assigned == nil {
		assigned = []string{}
	}

	return &project.Project{
		ID:                rec.ID,
		Name:              rec.Name,
		StartDate:         start,
		EndDate:           end,
		Description:       rec.Description,
		Status:            rec.Status,
		AssignedEmployees: assigned,
		Position:          rec.Position,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(project.DateLayout)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(project.DateLayout, raw, time.UTC)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
