package activity

import (
	"context"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

// realClock はローカル時刻を返します。履歴は実行環境の壁時計どおりに記録します。
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// UseCase は操作履歴ユースケースの公開インターフェースです。
type UseCase interface {
	Record(ctx context.Context, text string) error
	ListEntries(ctx context.Context) ([]*Entry, error)
}

// Service は操作履歴の記録と参照をまとめます。
// 件数の上限やローテーションは持たず、履歴はプロセスの稼働期間中増え続けます。
type Service struct {
	repo  Repository
	clock Clock
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// Record は現在時刻付きで操作内容を追記します。
func (s *Service) Record(ctx context.Context, text string) error {
	description := strings.TrimSpace(text)
	if description == "" {
		return ErrInvalidDescription
	}

	entry := &Entry{
		At:          s.clock.Now().Truncate(time.Second),
		Description: description,
	}
	return s.repo.Append(ctx, entry)
}

// ListEntries は記録済みの操作履歴を古い順に返します。
func (s *Service) ListEntries(ctx context.Context) ([]*Entry, error) {
	return s.repo.List(ctx)
}
