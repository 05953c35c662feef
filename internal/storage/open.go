package storage

import (
	"context"
	"fmt"

	"fieldcrm/internal/config"
	"fieldcrm/internal/logger"
)

// Open builds the backend selected by configuration.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendFile:
		return NewFile(cfg.Store.Dir)
	case config.BackendRedis:
		return NewRedis(ctx, cfg.Redis)
	case config.BackendPostgres, config.BackendSQLite:
		return OpenSQL(ctx, cfg.Store.Backend, cfg.DB, logg)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
