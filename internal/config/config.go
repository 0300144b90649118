// Package config loads server settings from an optional JSON file with
// sensible defaults for local development.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Config holds all server settings.
type Config struct {
	ListenAddr     string        `mapstructure:"listen_addr"`
	LevelPath      string        `mapstructure:"level_path"`
	MainAirfoil    string        `mapstructure:"main_airfoil"`
	TailAirfoil    string        `mapstructure:"tail_airfoil"`
	LogLevel       string        `mapstructure:"log_level"`
	UpdateInterval time.Duration `mapstructure:"update_interval"`
}

// Load reads configuration from path. An empty path or a missing file
// yields pure defaults; a present but malformed file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("level_path", "assets/levels/airfield.json")
	v.SetDefault("main_airfoil", "assets/airfoils/naca2412.json")
	v.SetDefault("tail_airfoil", "assets/airfoils/naca0012.json")
	v.SetDefault("log_level", "info")
	v.SetDefault("update_interval", "33ms")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.UpdateInterval <= 0 {
		return nil, fmt.Errorf("update_interval must be positive, got %s", cfg.UpdateInterval)
	}
	return &cfg, nil
}
