package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	employeesFile  = "employees.json"
	projectsFile   = "projects.json"
	attendanceFile = "attendance.json"
	payrollFile    = "payroll.jsonl"
	activityFile   = "activity.json"
)

type lockContextKey struct{}

var heldLockKey = lockContextKey{}

// Store はデータディレクトリ配下の JSON ファイル群を管理します。
// 全リポジトリで 1 つのロックを共有し、読み込みから書き込みまでを直列化します。
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore はデータディレクトリを作成し Store を返します。
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("jsonfile: data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir はデータディレクトリを返します。
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// locked はロックを保持した状態で fn を実行します。ctx が既にロックを保持していれば再取得しません。
func (s *Store) locked(ctx context.Context, fn func(context.Context) error) error {
	if held, _ := ctx.Value(heldLockKey).(*Store); held == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, heldLockKey, s))
}

// readJSON は name のファイルを v に読み込みます。ファイルが存在しなければ false を返します。
func (s *Store) readJSON(name string, v any) (bool, error) {
	b, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("jsonfile: read %s: %w", name, err)
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("jsonfile: decode %s: %w", name, err)
	}
	return true, nil
}

// writeJSON は一時ファイルに書き出してから rename で置き換えます。
func (s *Store) writeJSON(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonfile: write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonfile: sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile: close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		return fmt.Errorf("jsonfile: replace %s: %w", name, err)
	}
	return nil
}

// TransactionManager は Store のロックでユースケース単位の排他を提供します。
// ロールバックは行わないため、途中で失敗した場合はそれまでの書き込みが残ります。
type TransactionManager struct {
	store *Store
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(store *Store) *TransactionManager {
	return &TransactionManager{store: store}
}

// WithinReadOnly はロックを取得して fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return m.within(ctx, fn)
}

// WithinReadWrite はロックを取得して fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return m.within(ctx, fn)
}

func (m *TransactionManager) within(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("jsonfile: transaction function is required")
	}
	return m.store.locked(ctx, fn)
}
