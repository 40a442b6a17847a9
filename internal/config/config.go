// Package config loads settings from hearthold.yaml and the
// environment. Every field has a working default so the binary runs
// with no config file at all.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings.
type Config struct {
	Seed         int64         `mapstructure:"seed"`
	Name         string        `mapstructure:"name"`
	DBPath       string        `mapstructure:"db_path"`
	Population   int           `mapstructure:"population"`
	TechLevel    int           `mapstructure:"tech_level"`
	MapWidth     int           `mapstructure:"map_width"`
	MapHeight    int           `mapstructure:"map_height"`
	DayInterval  time.Duration `mapstructure:"day_interval"`
	SaveEvery    int           `mapstructure:"save_every"`
	ListenAddr   string        `mapstructure:"listen_addr"`
	APIRateLimit float64       `mapstructure:"api_rate_limit"`
}

// Load reads hearthold.yaml from the working directory plus
// HEARTHOLD_* environment overrides. A missing file is fine;
// a malformed one is not.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("hearthold")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.hearthold")

	v.SetDefault("seed", time.Now().UnixNano())
	v.SetDefault("name", "Hearthold")
	v.SetDefault("db_path", "hearthold.db")
	v.SetDefault("population", 12)
	v.SetDefault("tech_level", 0)
	v.SetDefault("map_width", 48)
	v.SetDefault("map_height", 48)
	v.SetDefault("day_interval", time.Second)
	v.SetDefault("save_every", 25)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("api_rate_limit", 10.0)

	v.SetEnvPrefix("HEARTHOLD")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Population < 1 {
		return nil, fmt.Errorf("population must be at least 1, got %d", cfg.Population)
	}
	if cfg.SaveEvery < 1 {
		cfg.SaveEvery = 25
	}
	return &cfg, nil
}
