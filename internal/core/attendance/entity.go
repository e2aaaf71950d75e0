package attendance

import "time"

// Log は社員 1 人分の出勤記録です。社員 ID をキーとし、名前は表示用に保持します。
type Log struct {
	EmployeeID   string
	EmployeeName string
	CheckIns     []time.Time
}

// Latest は最新の出勤時刻を返します。
func (l *Log) Latest() (time.Time, bool) {
	if l == nil || len(l.CheckIns) == 0 {
		return time.Time{}, false
	}
	return l.CheckIns[len(l.CheckIns)-1], true
}

// CheckIn は追記する 1 件の出勤記録です。
type CheckIn struct {
	EmployeeID   string
	EmployeeName string
	At           time.Time
}

// EmployeeRef は出勤登録の対象社員を表します。
type EmployeeRef struct {
	ID   string
	Name string
}

// Result は 1 人分の出勤登録の結果です。
type Result string

const (
	// ResultMarked は新たに出勤を記録したことを表します。
	ResultMarked Result = "marked"
	// ResultAlreadyMarked は同じ日に記録済みのため何もしなかったことを表します。
	ResultAlreadyMarked Result = "already_marked"
)

// MarkResult は社員ごとの出勤登録結果です。
type MarkResult struct {
	EmployeeID   string
	EmployeeName string
	Result       Result
	CheckedInAt  time.Time
}
