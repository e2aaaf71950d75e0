package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode           = "23505"
	invalidTextRepresentationCode = "22P02"
	numericValueOutOfRangeCode    = "22003"
)

// translatePgError は pgx のエラーをドメインのエラーへ変換します。
// 行が存在しない場合は notFound を返し、それ以外の PostgreSQL エラーには SQLSTATE を付与します。
func translatePgError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("postgres: unique violation on %s: %w", pgErr.ConstraintName, err)
		case invalidTextRepresentationCode, numericValueOutOfRangeCode:
			return fmt.Errorf("postgres: invalid value (%s): %w", pgErr.Code, err)
		}
	}
	return err
}
