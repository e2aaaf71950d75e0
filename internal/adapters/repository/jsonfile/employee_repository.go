package jsonfile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/hr-records/internal/core/employee"
)

// EmployeeTimeLayout は社員ファイル内の日時の書式です。
const EmployeeTimeLayout = "2006-01-02 15:04:05"

type employeeRecord struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	DepartmentID string `json:"department_id"`
	SalaryRef    string `json:"salary"`
	Name         string `json:"name"`
	DateOfBirth  string `json:"date_of_birth"`
	Gender       string `json:"gender"`
	Ethnicity    string `json:"ethnicity"`
	NationalID   string `json:"national_id"`
	IDIssuePlace string `json:"id_issue_place"`
	JobTitle     string `json:"job_title"`
	HiredAt      string `json:"hired_at"`
	Position     int    `json:"position"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// EmployeeRepository は employees.json を利用した社員永続化の実装です。
type EmployeeRepository struct {
	store *Store
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(store *Store) *EmployeeRepository {
	return &EmployeeRepository{store: store}
}

// Create は UUID を採番して名簿の末尾に追加します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	var created *employee.Employee
	err := r.store.locked(ctx, func(context.Context) error {
		records, err := r.load()
		if err != nil {
			return err
		}

		rec := toEmployeeRecord(e)
		rec.ID = uuid.NewString()
		rec.Position = nextPosition(records)
		records = append(records, rec)

		if err := r.store.writeJSON(employeesFile, records); err != nil {
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

// Update は社員情報を上書きします。表示順は変更しません。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	var updated *employee.Employee
	err := r.store.locked(ctx, func(context.Context) error {
		records, err := r.load()
		if err != nil {
			return err
		}

		idx := indexOfEmployee(records, e.ID)
		if idx < 0 {
			return employee.ErrEmployeeNotFound
		}

		rec := toEmployeeRecord(e)
		rec.Position = records[idx].Position
		rec.CreatedAt = records[idx].CreatedAt
		records[idx] = rec

		if err := r.store.writeJSON(employeesFile, records); err != nil {
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

// Delete は社員を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	return r.store.locked(ctx, func(context.Context) error {
		records, err := r.load()
		if err != nil {
			return err
		}

		idx := indexOfEmployee(records, id)
		if idx < 0 {
			return employee.ErrEmployeeNotFound
		}

		records = append(records[:idx], records[idx+1:]...)
		return r.store.writeJSON(employeesFile, records)
	})
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return r.findFirst(ctx, func(rec employeeRecord) bool { return rec.ID == id })
}

// FindByCode は表示順で最初に社員番号が一致した社員を返します。
func (r *EmployeeRepository) FindByCode(ctx context.Context, code string) (*employee.Employee, error) {
	return r.findFirst(ctx, func(rec employeeRecord) bool { return rec.Code == code })
}

// List は表示順で全社員を返します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	var employees []*employee.Employee
	err := r.store.locked(ctx, func(context.Context) error {
		records, err := r.load()
		if err != nil {
			return err
		}

		employees = make([]*employee.Employee, 0, len(records))
		for _, rec := range records {
			emp, err := rec.toEntity()
			if err != nil {
				return err
			}
			employees = append(employees, emp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// Reorder は ids の並びでファイルを書き直し、表示順を 1 から振り直します。
// ids に含まれない社員は元の相対順のまま末尾に残ります。
func (r *EmployeeRepository) Reorder(ctx context.Context, ids []string) error {
	return r.store.locked(ctx, func(context.Context) error {
		records, err := r.load()
		if err != nil {
			return err
		}

		byID := make(map[string]employeeRecord, len(records))
		for _, rec := range records {
			byID[rec.ID] = rec
		}

		ordered := make([]employeeRecord, 0, len(records))
		for _, id := range ids {
			rec, ok := byID[id]
			if !ok {
				continue
			}
			ordered = append(ordered, rec)
			delete(byID, id)
		}
		for _, rec := range records {
			if _, ok := byID[rec.ID]; ok {
				ordered = append(ordered, rec)
			}
		}
		for i := range ordered {
			ordered[i].Position = i + 1
		}

		return r.store.writeJSON(employeesFile, ordered)
	})
}

func (r *EmployeeRepository) findFirst(ctx context.Context, match func(employeeRecord) bool) (*employee.Employee, error) {
	var found *employee.Employee
	err := r.store.locked(ctx, func(context.Context) error {
		records, err := r.load()
		if err != nil {
			return err
		}
		for _, rec := range records {
			if match(rec) {
				found, err = rec.toEntity()
				return err
			}
		}
		return employee.ErrEmployeeNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *EmployeeRepository) load() ([]employeeRecord, error) {
	var records []employeeRecord
	if _, err := r.store.readJSON(employeesFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func indexOfEmployee(records []employeeRecord, id string) int {
	for i, rec := range records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func nextPosition(records []employeeRecord) int {
	last := 0
	for _, rec := range records {
		if rec.Position > last {
			last = rec.Position
		}
	}
	return last + 1
}

func toEmployeeRecord(e *employee.Employee) employeeRecord {
	return employeeRecord{
		ID:           e.ID,
		Code:         e.Code,
		DepartmentID: e.DepartmentID,
		SalaryRef:    e.SalaryRef,
		Name:         e.Name,
		DateOfBirth:  formatEmployeeTime(e.DateOfBirth),
		Gender:       e.Gender,
		Ethnicity:    e.Ethnicity,
		NationalID:   e.NationalID,
		IDIssuePlace: e.IDIssuePlace,
		JobTitle:     e.JobTitle,
		HiredAt:      formatEmployeeTime(e.HiredAt),
		Position:     e.Position,
		CreatedAt:    formatEmployeeTime(e.CreatedAt),
		UpdatedAt:    formatEmployeeTime(e.UpdatedAt),
	}
}

func (rec employeeRecord) toEntity() (*employee.Employee, error) {
	dob, err := parseEmployeeTime(rec.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: employee %s date_of_birth: %w", rec.ID, err)
	}
	hiredAt, err := parseEmployeeTime(rec.HiredAt)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: employee %s hired_at: %w", rec.ID, err)
	}
	createdAt, err := parseEmployeeTime(rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: employee %s created_at: %w", rec.ID, err)
	}
	updatedAt, err := parseEmployeeTime(rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: employee %s updated_at: %w", rec.ID, err)
	}

	return &employee.Employee{
		ID:           rec.ID,
		Code:         rec.Code,
		DepartmentID: rec.DepartmentID,
		SalaryRef:    rec.SalaryRef,
		Name:         rec.Name,
		DateOfBirth:  dob,
		Gender:       rec.Gender,
		Ethnicity:    rec.Ethnicity,
		NationalID:   rec.NationalID,
		IDIssuePlace: rec.IDIssuePlace,
		JobTitle:     rec.JobTitle,
		HiredAt:      hiredAt,
		Position:     rec.Position,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func formatEmployeeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(EmployeeTimeLayout)
}

func parseEmployeeTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(EmployeeTimeLayout, raw, time.UTC)
}
