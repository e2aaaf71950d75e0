package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/hr-records/internal/core/project"
	pgdb "github.com/ogurasousui/hr-records/internal/platform/db/postgres"
)

const projectColumns = `id, name, start_date, end_date, description, status, assigned_employees, position, created_at, updated_at`

// ProjectRepository は PostgreSQL を利用したプロジェクト永続化の実装です。
// ID は BIGSERIAL で採番されるため、削除済みの ID は再利用されません。
type ProjectRepository struct {
	pool pgdb.Queryer
}

// NewProjectRepository は ProjectRepository を生成します。
func NewProjectRepository(pool pgdb.Queryer) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// Create はプロジェクトを表示順の末尾に追加します。
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO projects (name, start_date, end_date, description, status, assigned_employees, position, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, (SELECT COALESCE(MAX(position), 0) + 1 FROM projects), $7, $8)
        RETURNING `+projectColumns,
		p.Name,
		dateOnly(p.StartDate),
		dateOnly(p.EndDate),
		p.Description,
		p.Status,
		assignedOrEmpty(p.AssignedEmployees),
		p.CreatedAt,
		p.UpdatedAt,
	)

	created, err := scanProject(row)
	if err != nil {
		return nil, translatePgError(err, project.ErrProjectNotFound)
	}
	return created, nil
}

// Update はプロジェクトを更新します。
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE projects
           SET name = $1,
               start_date = $2,
               end_date = $3,
               description = $4,
               status = $5,
               assigned_employees = $6,
               updated_at = $7
         WHERE id = $8
        RETURNING `+projectColumns,
		p.Name,
		dateOnly(p.StartDate),
		dateOnly(p.EndDate),
		p.Description,
		p.Status,
		assignedOrEmpty(p.AssignedEmployees),
		p.UpdatedAt,
		p.ID,
	)

	updated, err := scanProject(row)
	if err != nil {
		return nil, translatePgError(err, project.ErrProjectNotFound)
	}
	return updated, nil
}

// Delete はプロジェクトを削除します。
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return translatePgError(err, project.ErrProjectNotFound)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

// FindByID は ID でプロジェクトを取得します。
func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+projectColumns+`
          FROM projects
         WHERE id = $1
    `, id)

	found, err := scanProject(row)
	if err != nil {
		return nil, translatePgError(err, project.ErrProjectNotFound)
	}
	return found, nil
}

// FindByName は大文字小文字を区別しない完全一致で検索します。
func (r *ProjectRepository) FindByName(ctx context.Context, name string) ([]*project.Project, error) {
	return r.query(ctx, `
        SELECT `+projectColumns+`
          FROM projects
         WHERE lower(name) = lower($1)
         ORDER BY position, id
    `, name)
}

// List は表示順で全プロジェクトを返します。
func (r *ProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	return r.query(ctx, `
        SELECT `+projectColumns+`
          FROM projects
         ORDER BY position, id
    `)
}

// Reorder は ids の並び順で position を振り直します。
func (r *ProjectRepository) Reorder(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        UPDATE projects AS p
           SET position = o.ord
          FROM unnest($1::bigint[]) WITH ORDINALITY AS o(id, ord)
         WHERE p.id = o.id
    `, ids); err != nil {
		return translatePgError(err, project.ErrProjectNotFound)
	}
	return nil
}

func (r *ProjectRepository) query(ctx context.Context, sql string, args ...any) ([]*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, translatePgError(err, project.ErrProjectNotFound)
	}
	defer rows.Close()

	projects := make([]*project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, translatePgError(err, project.ErrProjectNotFound)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePgError(err, project.ErrProjectNotFound)
	}
	return projects, nil
}

func scanProject(row pgx.Row) (*project.Project, error) {
	var p project.Project
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.StartDate,
		&p.EndDate,
		&p.Description,
		&p.Status,
		&p.AssignedEmployees,
		&p.Position,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		return nil, err
	}

	p.StartDate = dateOnly(p.StartDate)
	p.EndDate = dateOnly(p.EndDate)
	p.AssignedEmployees = assignedOrEmpty(p.AssignedEmployees)
	return &p, nil
}

func assignedOrEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
