package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/Worthit/internal/config"
)

// Open returns the history backend selected by cfg.
func Open(ctx context.Context, cfg config.HistoryConfig, logger *slog.Logger) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("history backend sqlite requires sqlite_path")
		}
		return NewSQLiteStore(cfg.SQLitePath, logger)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("history backend postgres requires database_url")
		}
		return NewPostgresStore(ctx, cfg.DatabaseURL, logger)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
