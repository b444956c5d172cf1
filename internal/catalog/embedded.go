package catalog

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embeddedData embed.FS

type shipFile struct {
	Ships []Ship `yaml:"ships"`
}

type wormholeFile struct {
	Wormholes []Wormhole `yaml:"wormholes"`
}

// LoadEmbedded builds the catalog from the data files compiled into the
// binary. It is the default source when no database is configured.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedData, "data/ships.yaml", "data/wormholes.yaml")
}

// LoadFromFS builds the catalog from YAML files on fsys, letting operators
// override the built-in reference data.
func LoadFromFS(fsys fs.FS, shipsPath, wormholesPath string) (*Catalog, error) {
	shipBytes, err := fs.ReadFile(fsys, shipsPath)
	if err != nil {
		return nil, fmt.Errorf("read ships file: %w", err)
	}
	var ships shipFile
	if err := yaml.Unmarshal(shipBytes, &ships); err != nil {
		return nil, fmt.Errorf("parse ships file: %w", err)
	}

	wormholeBytes, err := fs.ReadFile(fsys, wormholesPath)
	if err != nil {
		return nil, fmt.Errorf("read wormholes file: %w", err)
	}
	var wormholes wormholeFile
	if err := yaml.Unmarshal(wormholeBytes, &wormholes); err != nil {
		return nil, fmt.Errorf("parse wormholes file: %w", err)
	}

	return New(ships.Ships, wormholes.Wormholes)
}
