package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"fieldcrm/internal/config"
	"fieldcrm/internal/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Slot is the row shape of the SQL backend.
type Slot struct {
	Key       string `gorm:"column:slot_key;primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// SQL stores slots in a single gorm-managed table.
type SQL struct {
	db *gorm.DB
}

// OpenSQL connects with the given driver ("postgres" or "sqlite"), retrying
// while the database comes up, and migrates the slots table.
func OpenSQL(ctx context.Context, driver string, cfg config.DBConfig, logg *logger.Logger) (*SQL, error) {
	if logg == nil {
		logg = logger.Nop()
	}

	var dialector gorm.Dialector
	switch driver {
	case config.BackendPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.BackendSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.New(log.New(io.Discard, "", log.LstdFlags), gormlogger.Config{LogLevel: gormlogger.Silent}),
	}

	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 1; i <= attempts; i++ {
		db, err = gorm.Open(dialector, gormCfg)
		if err == nil {
			break
		}
		logg.Warn(logg.WithFields(ctx, map[string]any{"attempt": i, "max_attempts": attempts}), "storage.connect_failed", err)
		if i < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.ConnectBackoff):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to db after %d attempts: %w", attempts, err)
	}

	return NewSQL(db)
}

// NewSQL wraps an existing connection and migrates the slots table.
func NewSQL(db *gorm.DB) (*SQL, error) {
	if err := db.AutoMigrate(&Slot{}); err != nil {
		return nil, fmt.Errorf("migrating slots: %w", err)
	}
	return &SQL{db: db}, nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var row Slot
	if err := s.db.WithContext(ctx).Where("slot_key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(row.Value), nil
}

func (s *SQL) Put(ctx context.Context, key string, value []byte) error {
	row := Slot{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
