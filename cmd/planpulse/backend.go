package main

import (
	"fmt"

	"github.com/planpulse/planpulse/internal/config"
	"github.com/planpulse/planpulse/internal/store"
)

// openBackend builds the store and broker for the configured driver. The
// redis driver serves both roles; sqlite persists the document and pairs
// with the in-process broker (single-process deployments); memory is for
// demos and tests.
func openBackend(cfg *config.Config) (store.Store, store.Broker, error) {
	switch cfg.Backend.Driver {
	case "redis":
		r, err := store.NewRedis(cfg.Backend.RedisURL, cfg.Backend.Key, cfg.Backend.Channel)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis backend: %w", err)
		}
		return r, r, nil
	case "sqlite":
		s, err := store.NewSQLite(cfg.Backend.SQLitePath, cfg.Backend.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite backend: %w", err)
		}
		return s, store.NewMemory(), nil
	case "memory":
		m := store.NewMemory()
		return m, m, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend driver %q (want redis, sqlite, or memory)", cfg.Backend.Driver)
	}
}
