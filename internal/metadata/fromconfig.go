package metadata

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/youruser/lordeck/internal/config"
)

// NewFromConfig returns the CSV provider when cfg.Offline is set, otherwise
// a cached Data Dragon provider.
func NewFromConfig(cfg config.Config, logger *log.Logger) (Provider, error) {
	if cfg.Offline {
		return NewCSVProvider(cfg.DataDir), nil
	}
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	dd, err := NewDataDragon(cfg.DataDragonURL, client, NewCache(cfg.CacheDir, cfg.CacheTTL), logger)
	if err != nil {
		return nil, err
	}
	return dd, nil
}
