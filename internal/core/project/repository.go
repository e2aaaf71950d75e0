package project

import "context"

// Repository はプロジェクトの永続化を行うインターフェースです。
type Repository interface {
	// Create は再利用されない ID と末尾の表示順を採番して保存します。
	Create(ctx context.Context, project *Project) (*Project, error)
	Update(ctx context.Context, project *Project) (*Project, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Project, error)
	// FindByName は大文字小文字を区別しない完全一致で検索します。
	FindByName(ctx context.Context, name string) ([]*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Reorder(ctx context.Context, ids []int64) error
}
