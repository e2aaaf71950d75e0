package attendance

import "context"

// Repository は出勤台帳の永続化を行うインターフェースです。
type Repository interface {
	// FindByEmployeeID は記録が存在しない場合 ErrLogNotFound を返します。
	FindByEmployeeID(ctx context.Context, employeeID string) (*Log, error)
	List(ctx context.Context) ([]*Log, error)
	// AppendCheckIns は一括で出勤記録を追記し、表示名を更新します。
	AppendCheckIns(ctx context.Context, checkIns []CheckIn) error
	// DeleteByEmployeeID は記録がなくてもエラーにしません。
	DeleteByEmployeeID(ctx context.Context, employeeID string) error
}
