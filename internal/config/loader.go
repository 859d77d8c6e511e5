package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load merges configuration from global and project files, then applies
// environment overrides. Missing files are fine; defaults cover everything.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if home, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(home, ".planpulse", "config.yaml")
		if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		// Project config overrides global.
		projectPath := filepath.Join(cwd, "planpulse.yaml")
		if err := loadFile(projectPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// applyEnv layers environment variables on top of file config, the highest
// precedence source.
func applyEnv(cfg *Config) {
	cfg.Server.Addr = getEnv("PLANPULSE_ADDR", cfg.Server.Addr)
	cfg.Backend.Driver = getEnv("PLANPULSE_BACKEND", cfg.Backend.Driver)
	cfg.Backend.RedisURL = getEnv("REDIS_URL", cfg.Backend.RedisURL)
	cfg.Backend.SQLitePath = getEnv("PLANPULSE_SQLITE_PATH", cfg.Backend.SQLitePath)
	cfg.Backend.Key = getEnv("PLANPULSE_STATE_KEY", cfg.Backend.Key)
	cfg.Backend.Channel = getEnv("PLANPULSE_CHANNEL", cfg.Backend.Channel)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".planpulse", "config.yaml")
}
