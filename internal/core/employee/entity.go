package employee

import "time"

// SortKey は社員一覧の並び替えキーです。
type SortKey string

const (
	SortByName        SortKey = "name"
	SortByCode        SortKey = "code"
	SortByDepartment  SortKey = "department"
	SortBySalary      SortKey = "salary"
	SortByDateOfBirth SortKey = "date_of_birth"
)

// Employee は社員エンティティです。
//
// ID は作成時に採番される不変の代理キーで、検索や更新は必ず ID を経由します。
// Code は外部から付与される社員番号で、一意性は検証しません。
type Employee struct {
	ID           string
	Code         string
	DepartmentID string
	SalaryRef    string
	Name         string
	DateOfBirth  time.Time
	Gender       string
	Ethnicity    string
	NationalID   string
	IDIssuePlace string
	JobTitle     string
	HiredAt      time.Time
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
