package activity

import "time"

// LineTimestampLayout は操作履歴の行頭に付与する時刻の書式です。
const LineTimestampLayout = "2006-01-02 15:04:05"

// Entry は操作履歴の 1 件を表します。
type Entry struct {
	At          time.Time
	Description string
}

// Line は "yyyy-mm-dd HH:MM:SS 内容" 形式の 1 行を返します。
func (e Entry) Line() string {
	return e.At.Format(LineTimestampLayout) + " " + e.Description
}
