package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldcrm/internal/report"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "CRM"

	EnvAppEnv        = "CRM_APP_ENV"
	EnvServerPort    = "CRM_SERVER_PORT"
	EnvSessionSecret = "CRM_SESSION_SECRET"
	EnvStoreBackend  = "CRM_STORE_BACKEND"
	EnvStoreDir      = "CRM_STORE_DIR"
	EnvDBDSN         = "CRM_DB_DSN"
	EnvRedisURL      = "CRM_REDIS_URL"
	EnvTimezone      = "CRM_TIMEZONE"
	EnvReportRange   = "CRM_ATTENDANCE_REPORT_RANGE"
	EnvLateAfter     = "CRM_LATE_CHECKIN_AFTER"
	EnvEarlyBefore   = "CRM_EARLY_CHECKOUT_BEFORE"

	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	App        AppConfig
	Store      StoreConfig
	DB         DBConfig
	Redis      RedisConfig
	Attendance AttendanceConfig
}

type AppConfig struct {
	Env             string        `envconfig:"CRM_APP_ENV" default:"dev"`
	ServerPort      string        `envconfig:"CRM_SERVER_PORT" default:"8080"`
	SessionSecret   string        `envconfig:"CRM_SESSION_SECRET" required:"true"`
	LogLevel        string        `envconfig:"CRM_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"CRM_LOG_FORMAT" default:"json"`
	Timezone        string        `envconfig:"CRM_TIMEZONE" default:"Local"`
	SeedUsers       bool          `envconfig:"CRM_SEED_USERS" default:"true"`
	MaxUploadBytes  int64         `envconfig:"CRM_MAX_UPLOAD_BYTES" default:"5242880"`
	GeoTimeout      time.Duration `envconfig:"CRM_GEOLOCATION_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"CRM_SHUTDOWN_TIMEOUT" default:"20s"`
}

// Location resolves the configured timezone used for calendar days and
// check-in/check-out thresholds.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	return loc, nil
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, "prod") || strings.EqualFold(a.Env, "production")
}

type StoreConfig struct {
	Backend string `envconfig:"CRM_STORE_BACKEND" default:"file"`
	Dir     string `envconfig:"CRM_STORE_DIR" default:"./data"`
}

type DBConfig struct {
	DSN             string        `envconfig:"CRM_DB_DSN"`
	ConnectAttempts int           `envconfig:"CRM_DB_CONNECT_ATTEMPTS" default:"10"`
	ConnectBackoff  time.Duration `envconfig:"CRM_DB_CONNECT_BACKOFF" default:"2s"`
}

type RedisConfig struct {
	URL         string        `envconfig:"CRM_REDIS_URL"`
	Address     string        `envconfig:"CRM_REDIS_ADDR"`
	Password    string        `envconfig:"CRM_REDIS_PASSWORD"`
	DB          int           `envconfig:"CRM_REDIS_DB" default:"0"`
	DialTimeout time.Duration `envconfig:"CRM_REDIS_DIAL_TIMEOUT" default:"5s"`
}

type AttendanceConfig struct {
	ReportRange string `envconfig:"CRM_ATTENDANCE_REPORT_RANGE" default:"all-time"`
	LateAfter   string `envconfig:"CRM_LATE_CHECKIN_AFTER" default:"09:00"`
	EarlyBefore string `envconfig:"CRM_EARLY_CHECKOUT_BEFORE" default:"17:00"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.App.SessionSecret) == "" {
		return fmt.Errorf("%s is not set", EnvSessionSecret)
	}

	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return errors.New("CRM_REDIS_URL or CRM_REDIS_ADDR is required for the redis backend")
		}
	case BackendPostgres, BackendSQLite:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required for the %s backend", EnvDBDSN, c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown %s %q", EnvStoreBackend, c.Store.Backend)
	}

	switch c.Attendance.ReportRange {
	case report.RangeAllTime, report.RangeFiltered:
	default:
		return fmt.Errorf("unknown %s %q", EnvReportRange, c.Attendance.ReportRange)
	}
	if _, err := report.ParseClock(c.Attendance.LateAfter); err != nil {
		return fmt.Errorf("%s: %w", EnvLateAfter, err)
	}
	if _, err := report.ParseClock(c.Attendance.EarlyBefore); err != nil {
		return fmt.Errorf("%s: %w", EnvEarlyBefore, err)
	}

	if _, err := c.App.Location(); err != nil {
		return err
	}
	return nil
}
