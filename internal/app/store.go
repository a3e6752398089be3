package app

import (
	"fmt"
	"log/slog"

	"github.com/dshills/postforge/internal/config"
	"github.com/dshills/postforge/internal/store"
)

// OpenStore opens the backend named by cfg. ephemeral forces the
// in-memory backend.
func OpenStore(cfg config.StoreConfig, ephemeral bool, logger *slog.Logger) (store.Store, error) {
	if ephemeral || cfg.Backend == config.BackendMemory {
		return store.NewMemory(), nil
	}

	bcfg := store.DefaultBadgerConfig(cfg.Path)
	bcfg.Logger = logger
	s, err := store.OpenBadger(bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	return s, nil
}
