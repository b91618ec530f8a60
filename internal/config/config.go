// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by the server and the CLI.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	DataDir       string        `env:"LORDECK_DATA_DIR" envDefault:"data"`
	DataDragonURL string        `env:"LORDECK_DDRAGON_URL" envDefault:"https://dd.b.pvp.net/latest/"`
	CacheDir      string        `env:"LORDECK_CACHE_DIR"`
	CacheTTL      time.Duration `env:"LORDECK_CACHE_TTL" envDefault:"3h"`
	HTTPTimeout   time.Duration `env:"LORDECK_HTTP_TIMEOUT" envDefault:"12s"`
	Language      string        `env:"LORDECK_LANGUAGE" envDefault:"en_US"`
	LogLevel      string        `env:"LORDECK_LOG_LEVEL" envDefault:"info"`
	Offline       bool          `env:"LORDECK_OFFLINE"` // use the CSV provider from DataDir instead of Data Dragon
}

// Load parses the environment into a Config. CacheDir defaults to the OS
// temp directory.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = os.TempDir()
	}
	return cfg, nil
}
