// Command lordeck decodes, verifies and renders deck codes.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"

	"github.com/youruser/lordeck/internal/config"
	"github.com/youruser/lordeck/internal/logging"
	"github.com/youruser/lordeck/internal/metadata"
)

// Version is set via -ldflags.
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", "error", err)
	}
	logger, err := logging.New(os.Stderr, "lordeck", cfg.LogLevel)
	if err != nil {
		log.Fatal("build logger", "error", err)
	}

	a := &app{
		logger:   logger,
		language: cfg.Language,
		provider: func() (metadata.Provider, error) { return metadata.NewFromConfig(cfg, logger) },
	}
	if err := fang.Execute(context.Background(), newRootCmd(a),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
