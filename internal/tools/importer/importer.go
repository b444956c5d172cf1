// Package importer loads ship and wormhole definitions from YAML files and
// writes them to a SQLite catalog database.
package importer

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anoikis-dev/rollwatch/internal/catalog"
	storagesqlite "github.com/anoikis-dev/rollwatch/internal/catalog/storage/sqlite"
)

const (
	defaultShipsFile     = "ships.yaml"
	defaultWormholesFile = "wormholes.yaml"
)

// Config holds configuration for the catalog importer.
type Config struct {
	Dir           string
	DBPath        string
	ShipsFile     string
	WormholesFile string
	DryRun        bool
}

// ParseConfig parses CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		DBPath:        filepath.Join("data", "rollwatch-catalog.db"),
		ShipsFile:     defaultShipsFile,
		WormholesFile: defaultWormholesFile,
	}

	fs.StringVar(&cfg.Dir, "dir", "", "directory containing the catalog YAML files")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "catalog database path")
	fs.StringVar(&cfg.ShipsFile, "ships", cfg.ShipsFile, "ships file name within dir")
	fs.StringVar(&cfg.WormholesFile, "wormholes", cfg.WormholesFile, "wormholes file name within dir")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "validate without writing to the database")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Dir) == "" {
		return Config{}, errors.New("dir is required")
	}

	return cfg, nil
}

// Run executes the importer using the provided Config.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}

	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return errors.New("dir is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	cat, err := catalog.LoadFromFS(os.DirFS(dir), cfg.ShipsFile, cfg.WormholesFile)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	ships := cat.Ships()
	wormholes := cat.Wormholes()

	if cfg.DryRun {
		_, err = fmt.Fprintf(out, "validated %d ship(s) and %d wormhole(s)\n", len(ships), len(wormholes))
		return err
	}

	store, err := storagesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open catalog store: %w", err)
	}
	defer store.Close()

	for _, ship := range ships {
		if err := store.PutShip(ctx, ship); err != nil {
			return fmt.Errorf("put ship %s: %w", ship.Key, err)
		}
	}
	for _, wormhole := range wormholes {
		if err := store.PutWormhole(ctx, wormhole); err != nil {
			return fmt.Errorf("put wormhole %s: %w", wormhole.Code, err)
		}
	}

	_, err = fmt.Fprintf(out, "imported %d ship(s) and %d wormhole(s) into %s\n", len(ships), len(wormholes), cfg.DBPath)
	return err
}
