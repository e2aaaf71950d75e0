package activity

import "context"

// Repository は操作履歴の永続化を行うインターフェースです。
// 追記のみを許可し、既存の履歴は書き換えません。
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context) ([]*Entry, error)
}
