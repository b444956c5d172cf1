// Package server parses server command flags and composes the WebSocket
// transport entrypoint.
package server

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/anoikis-dev/rollwatch/internal/catalog"
	"github.com/anoikis-dev/rollwatch/internal/catalog/storage"
	storagesqlite "github.com/anoikis-dev/rollwatch/internal/catalog/storage/sqlite"
	entrypoint "github.com/anoikis-dev/rollwatch/internal/platform/cmd"
	"github.com/anoikis-dev/rollwatch/internal/rolling/engine"
	"github.com/anoikis-dev/rollwatch/internal/server"
)

// Config holds server command configuration.
type Config struct {
	HTTPAddr        string        `env:"ROLLWATCH_HTTP_ADDR"        envDefault:":8080"`
	CatalogDB       string        `env:"ROLLWATCH_CATALOG_DB"`
	ShutdownTimeout time.Duration `env:"ROLLWATCH_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.CatalogDB, "catalog-db", cfg.CatalogDB, "catalog database path (embedded catalog when empty)")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the engine and starts the WebSocket server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		cat, err := loadCatalog(ctx, cfg.CatalogDB)
		if err != nil {
			return err
		}
		if err := server.Run(ctx, server.Config{
			HTTPAddr:        cfg.HTTPAddr,
			ShutdownTimeout: cfg.ShutdownTimeout,
		}, engine.New(cat)); err != nil {
			return fmt.Errorf("serve rollwatch: %w", err)
		}
		return nil
	})
}

func loadCatalog(ctx context.Context, dbPath string) (*catalog.Catalog, error) {
	if dbPath == "" {
		return catalog.LoadEmbedded()
	}
	store, err := storagesqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog store: %w", err)
	}
	defer store.Close()
	return storage.Load(ctx, store)
}
