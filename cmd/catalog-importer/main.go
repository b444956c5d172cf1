// Package main imports catalog YAML files into a SQLite database.
package main

import (
	"context"
	"flag"
	"os"

	importercmd "github.com/anoikis-dev/rollwatch/internal/cmd/importer"
	"github.com/anoikis-dev/rollwatch/internal/platform/config"
)

func main() {
	cfg, err := importercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := importercmd.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
