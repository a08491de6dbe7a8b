package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the server needs at startup. Values come from the
// environment (optionally seeded from a .env file) or from an explicit config
// file pointed at by CONFIG_FILE.
type Config struct {
	Addr         string
	Mode         string
	DatabaseURL  string
	PageSize     int
	MaxIdleConns int
	MaxOpenConns int
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("mode", "debug")
	v.SetDefault("database_url", "")
	v.SetDefault("page_size", 20)
	v.SetDefault("max_idle_conns", 5)
	v.SetDefault("max_open_conns", 20)

	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Addr:         v.GetString("addr"),
		Mode:         v.GetString("mode"),
		DatabaseURL:  v.GetString("database_url"),
		PageSize:     v.GetInt("page_size"),
		MaxIdleConns: v.GetInt("max_idle_conns"),
		MaxOpenConns: v.GetInt("max_open_conns"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("invalid page_size %d: must be positive", cfg.PageSize)
	}

	return cfg, nil
}
