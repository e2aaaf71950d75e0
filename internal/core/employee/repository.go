package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	// Create は ID と表示順を採番して末尾に追加します。
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	// FindByCode は表示順で最初に一致した社員を返します。
	FindByCode(ctx context.Context, code string) (*Employee, error)
	// List は表示順で全社員を返します。
	List(ctx context.Context) ([]*Employee, error)
	// Reorder は ids の並びを新しい表示順として保存します。
	Reorder(ctx context.Context, ids []string) error
}
