package config

// Config is the full PlanPulse configuration.
type Config struct {
	// Server settings
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Backend selects and parameterizes the document store / broker
	Backend BackendConfig `yaml:"backend" mapstructure:"backend"`

	// Stream tunes the live-stream subscription behavior
	Stream StreamConfig `yaml:"stream" mapstructure:"stream"`

	// Update tunes the optimistic write path
	Update UpdateConfig `yaml:"update" mapstructure:"update"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// BackendConfig configures the storage/broker backend.
type BackendConfig struct {
	// Driver is one of "redis", "sqlite", or "memory".
	Driver string `yaml:"driver" mapstructure:"driver"`

	// RedisURL is used by the redis driver.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`

	// SQLitePath is used by the sqlite driver.
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`

	// Key is the backend key holding the serialized document.
	Key string `yaml:"key" mapstructure:"key"`

	// Channel is the pub/sub channel carrying update envelopes.
	Channel string `yaml:"channel" mapstructure:"channel"`
}

// StreamConfig configures subscription waits.
type StreamConfig struct {
	// HeartbeatSeconds is how long a subscription waits for a message
	// before yielding a synthetic heartbeat.
	HeartbeatSeconds int `yaml:"heartbeat_seconds" mapstructure:"heartbeat_seconds"`

	// ResubscribeSeconds is the pause before the second subscribe attempt.
	ResubscribeSeconds int `yaml:"resubscribe_seconds" mapstructure:"resubscribe_seconds"`
}

// UpdateConfig configures the optimistic write path.
type UpdateConfig struct {
	// MaxAttempts bounds the read-compute-commit retry loop.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
}
