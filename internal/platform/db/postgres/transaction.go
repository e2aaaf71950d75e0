package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type txKey struct{}

// Queryer は pgx.Tx と pgxpool.Pool の双方が満たすクエリ実行インターフェースです。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Beginner はトランザクションを開始できる接続です。pgxpool.Pool と pgxmock が満たします。
type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionManager はユースケース単位のトランザクションを pgx で制御します。
// 開始したトランザクションは context に格納され、リポジトリは QueryerFromContext で取り出します。
type TransactionManager struct {
	db Beginner
}

// NewTransactionManager は TransactionManager を生成します。db が nil の場合は nil を返します。
func NewTransactionManager(db Beginner) *TransactionManager {
	if db == nil {
		return nil
	}
	return &TransactionManager{db: db}
}

// WithinReadOnly は読み取り専用トランザクション内で fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return m.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

// WithinReadWrite は読み書きトランザクション内で fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return m.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts pgx.TxOptions, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("postgres: transaction function is required")
	}
	if m == nil {
		return fn(ctx)
	}

	// 既にトランザクション内であればそのまま参加する
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return errors.Join(err, rollback(ctx, tx))
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(fmt.Errorf("postgres: commit: %w", err), rollback(ctx, tx))
	}
	return nil
}

// rollback は既に閉じたトランザクションの場合 nil を返します。
func rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("postgres: rollback: %w", err)
	}
	return nil
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// QueryerFromContext は context 内のトランザクションを返します。存在しなければ fallback を返します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback
}
