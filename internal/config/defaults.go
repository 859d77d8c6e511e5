package config

import "github.com/planpulse/planpulse/internal/store"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Backend: BackendConfig{
			Driver:     "redis",
			RedisURL:   "redis://localhost:6379/0",
			SQLitePath: "~/.planpulse/state.db",
			Key:        store.DefaultKey,
			Channel:    store.DefaultChannel,
		},
		Stream: StreamConfig{
			HeartbeatSeconds:   15,
			ResubscribeSeconds: 5,
		},
		Update: UpdateConfig{
			MaxAttempts: 5,
		},
	}
}
