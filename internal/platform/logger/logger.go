package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ogurasousui/hr-records/internal/platform/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New は設定に従って zerolog.Logger を生成します。
// log.file が指定されていれば out と追記モードのファイルの両方へ出力し、返却される io.Closer でファイルを閉じます。
func New(cfg config.LogConfig, out io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("logger: parse level %q: %w", cfg.Level, err)
	}
	if cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if out == nil {
		out = os.Stdout
	}
	writers := []io.Writer{out}
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("logger: open %s: %w", cfg.File, err)
		}
		writers = append(writers, file)
		closer = file
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return l, closer, nil
}

// Init は New で生成したロガーを zerolog/log のグローバルロガーに設定します。
func Init(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	zerolog.TimeFieldFormat = time.RFC3339

	l, closer, err := New(cfg, os.Stdout)
	if err != nil {
		return l, nil, err
	}
	log.Logger = l
	return l, closer, nil
}

// WithContext は ctx にロガーを格納します。
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// FromContext は ctx に格納されたロガーを返し、なければグローバルロガーを返します。
func FromContext(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return l
}
