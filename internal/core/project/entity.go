package project

import "time"

// SortKey はプロジェクト一覧の並び替えキーです。
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByStartDate SortKey = "start_date"
	SortByEndDate   SortKey = "end_date"
)

// Project はプロジェクトエンティティです。
//
// ID は単調増加の採番で、削除された ID が再利用されることはありません。
// AssignedEmployees は社員 ID の弱参照で、存在確認や重複排除は行いません。
type Project struct {
	ID                int64
	Name              string
	StartDate         time.Time
	EndDate           time.Time
	Description       string
	Status            string
	AssignedEmployees []string
	Position          int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
