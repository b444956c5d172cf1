// Package importer wires the catalog importer into the shared entrypoint.
package importer

import (
	"context"
	"flag"
	"io"

	entrypoint "github.com/anoikis-dev/rollwatch/internal/platform/cmd"
	"github.com/anoikis-dev/rollwatch/internal/tools/importer"
)

// ParseConfig parses CLI flags into an importer Config.
func ParseConfig(fs *flag.FlagSet, args []string) (importer.Config, error) {
	return importer.ParseConfig(fs, args)
}

// Run executes the catalog import.
func Run(ctx context.Context, cfg importer.Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceImporter, func(ctx context.Context) error {
		return importer.Run(ctx, cfg, out)
	})
}
