package storage

import (
	"fmt"

	"github.com/hperssn/reflex/internal/config"
)

// Open builds the repository selected by cfg.Driver.
func Open(cfg config.StoreConfig) (Repository, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryRepository(), nil
	case "sqlite", "sqlite3":
		return NewSQLiteRepository(cfg.DSN, cfg.Namespace)
	case "postgres":
		return NewPostgresRepository(cfg.DSN, cfg.Namespace)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
