// Package mcp parses MCP command flags and starts the stdio server.
package mcp

import (
	"context"
	"flag"
	"fmt"

	"github.com/anoikis-dev/rollwatch/internal/catalog"
	"github.com/anoikis-dev/rollwatch/internal/catalog/storage"
	storagesqlite "github.com/anoikis-dev/rollwatch/internal/catalog/storage/sqlite"
	mcpserver "github.com/anoikis-dev/rollwatch/internal/mcp"
	entrypoint "github.com/anoikis-dev/rollwatch/internal/platform/cmd"
	"github.com/anoikis-dev/rollwatch/internal/rolling/engine"
)

// Config holds MCP command configuration.
type Config struct {
	CatalogDB string `env:"ROLLWATCH_CATALOG_DB"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.CatalogDB, "catalog-db", cfg.CatalogDB, "catalog database path (embedded catalog when empty)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the engine and serves MCP on stdio until the context ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		cat, err := loadCatalog(ctx, cfg.CatalogDB)
		if err != nil {
			return err
		}
		if err := mcpserver.Run(ctx, engine.New(cat)); err != nil {
			return fmt.Errorf("serve MCP: %w", err)
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
