package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	// DriverJSONFile はデータディレクトリ配下の JSON ファイルに保存するバックエンドです。
	DriverJSONFile = "jsonfile"
	// DriverPostgres は PostgreSQL に保存するバックエンドです。
	DriverPostgres = "postgres"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Attendance AttendanceConfig `yaml:"attendance"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// StorageConfig は永続化バックエンドの選択です。
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Dir    string `yaml:"dir"`
}

// LogConfig はログ出力の設定です。File が空の場合は標準出力のみに出力します。
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// AttendanceConfig は出勤台帳の設定です。Timezone は「同じ日」の判定に使います。
type AttendanceConfig struct {
	Timezone string         `yaml:"timezone"`
	Location *time.Location `yaml:"-"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// DefaultPath は設定ファイルの既定の場所です。
const DefaultPath = "assets/local.yaml"

// ResolvePath はフラグ、CONFIG_PATH 環境変数、既定値の順で設定ファイルの場所を決めます。
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return DefaultPath
}

// Load は指定されたパスから設定ファイルを読み込み、環境変数で上書きします。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv は環境変数が設定されている項目だけを上書きします。
func (c *Config) applyEnv(getenv func(string) string) error {
	overrideString(&c.Server.ListenAddr, getenv("LISTEN_ADDR"))
	overrideString(&c.Storage.Driver, getenv("STORAGE_DRIVER"))
	overrideString(&c.Storage.Dir, getenv("STORAGE_DIR"))
	overrideString(&c.Database.Host, getenv("DATABASE_HOST"))
	overrideString(&c.Database.User, getenv("DATABASE_USER"))
	overrideString(&c.Database.Password, getenv("DATABASE_PASSWORD"))
	overrideString(&c.Database.Name, getenv("DATABASE_NAME"))
	overrideString(&c.Log.Level, getenv("LOG_LEVEL"))
	overrideString(&c.Attendance.Timezone, getenv("ATTENDANCE_TIMEZONE"))

	if raw := getenv("DATABASE_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: DATABASE_PORT: %w", err)
		}
		c.Database.Port = port
	}
	return nil
}

func overrideString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Storage.validateAndNormalize(); err != nil {
		return err
	}

	if c.Storage.Driver == DriverPostgres {
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	}

	if err := c.Log.validateAndNormalize(); err != nil {
		return err
	}

	return c.Attendance.validateAndNormalize()
}

func (s *StorageConfig) validateAndNormalize() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	if s.Driver == "" {
		s.Driver = DriverJSONFile
	}

	switch s.Driver {
	case DriverJSONFile:
		if s.Dir == "" {
			s.Dir = "data"
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("config: storage.driver %q is not supported", s.Driver)
	}
	return nil
}

func (l *LogConfig) validateAndNormalize() error {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	switch l.Level {
	case "":
		l.Level = "info"
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("config: log.level %q is not supported", l.Level)
	}
	return nil
}

func (a *AttendanceConfig) validateAndNormalize() error {
	if a.Timezone == "" {
		a.Location = time.Local
		return nil
	}

	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return fmt.Errorf("config: attendance.timezone: %w", err)
	}
	a.Location = loc
	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

// DSN は pgx と golang-migrate 用の接続文字列を返します。認証情報は URL エスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}
