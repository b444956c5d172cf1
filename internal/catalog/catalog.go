// Package catalog holds the reference data for hulls and wormhole classes:
// the mass figures everything else computes from.
package catalog

import (
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/anoikis-dev/rollwatch/internal/platform/errors"
	"github.com/anoikis-dev/rollwatch/internal/rolling/domain"
)

// Ship is one hull entry. Masses are in Gg.
type Ship struct {
	Key       string  `yaml:"key"`
	Name      string  `yaml:"name"`
	ColdMass  float64 `yaml:"cold_mass"`
	HotMass   float64 `yaml:"hot_mass"`
	SizeClass int     `yaml:"size_class"`
}

// MassProfile converts the entry to the domain profile used by sessions.
func (s Ship) MassProfile() domain.ShipMassProfile {
	return domain.ShipMassProfile{
		Key:       s.Key,
		Name:      s.Name,
		ColdMass:  s.ColdMass,
		HotMass:   s.HotMass,
		SizeClass: s.SizeClass,
	}
}

func (s Ship) validate() error {
	if strings.TrimSpace(s.Key) == "" {
		return apperrors.New(apperrors.CodeCatalogInvalidEntry, "ship key is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return invalidShip(s.Key, "name is required")
	}
	if s.ColdMass <= 0 {
		return invalidShip(s.Key, "cold mass must be positive")
	}
	if s.HotMass < s.ColdMass {
		return invalidShip(s.Key, "hot mass must be at least cold mass")
	}
	if s.SizeClass < 1 || s.SizeClass > domain.MaxSizeClass {
		return invalidShip(s.Key, "size class out of range")
	}
	return nil
}

// Wormhole is one wormhole class entry. Capacity is the base jump-mass
// budget in Gg; Restriction is the largest ship size class that fits.
type Wormhole struct {
	Code        string  `yaml:"code"`
	Capacity    float64 `yaml:"capacity"`
	Restriction int     `yaml:"restriction"`
	Description string  `yaml:"description"`
}

// Profile converts the entry to the domain profile used by sessions.
func (w Wormhole) Profile() (domain.WormholeProfile, error) {
	return domain.NewWormholeProfile(w.Capacity)
}

func (w Wormhole) validate() error {
	if strings.TrimSpace(w.Code) == "" {
		return apperrors.New(apperrors.CodeCatalogInvalidEntry, "wormhole code is required")
	}
	if _, err := domain.NewWormholeProfile(w.Capacity); err != nil {
		return invalidWormhole(w.Code, "capacity is not a known wormhole size")
	}
	if w.Restriction < 1 || w.Restriction > domain.MaxSizeClass {
		return invalidWormhole(w.Code, "restriction out of range")
	}
	return nil
}

func invalidShip(key, message string) error {
	return apperrors.WithMetadata(apperrors.CodeCatalogInvalidEntry, message,
		map[string]string{"ship": key})
}

func invalidWormhole(code, message string) error {
	return apperrors.WithMetadata(apperrors.CodeCatalogInvalidEntry, message,
		map[string]string{"wormhole": code})
}

// Catalog indexes validated entries by key and code.
type Catalog struct {
	ships     map[string]Ship
	wormholes map[string]Wormhole
}

// New validates every entry and builds the catalog. Duplicate keys and
// codes are rejected.
func New(ships []Ship, wormholes []Wormhole) (*Catalog, error) {
	c := &Catalog{
		ships:     make(map[string]Ship, len(ships)),
		wormholes: make(map[string]Wormhole, len(wormholes)),
	}
	for _, ship := range ships {
		if err := ship.validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(strings.TrimSpace(ship.Key))
		if _, ok := c.ships[key]; ok {
			return nil, invalidShip(ship.Key, "duplicate ship key")
		}
		c.ships[key] = ship
	}
	for _, wormhole := range wormholes {
		if err := wormhole.validate(); err != nil {
			return nil, err
		}
		code := strings.ToUpper(strings.TrimSpace(wormhole.Code))
		if _, ok := c.wormholes[code]; ok {
			return nil, invalidWormhole(wormhole.Code, "duplicate wormhole code")
		}
		c.wormholes[code] = wormhole
	}
	return c, nil
}

// ErrUnknownShip indicates a ship key absent from the catalog.
var ErrUnknownShip = apperrors.New(apperrors.CodeProfileUnknownShip, "unknown ship")

// ErrUnknownWormhole indicates a wormhole code absent from the catalog.
var ErrUnknownWormhole = apperrors.New(apperrors.CodeProfileUnknownWormhole, "unknown wormhole")

// Ship returns the entry for key.
func (c *Catalog) Ship(key string) (Ship, error) {
	ship, ok := c.ships[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Ship{}, apperrors.WithMetadata(apperrors.CodeProfileUnknownShip,
			"unknown ship", map[string]string{"ship": key})
	}
	return ship, nil
}

// Wormhole returns the entry for code. Codes match case-insensitively.
func (c *Catalog) Wormhole(code string) (Wormhole, error) {
	wormhole, ok := c.wormholes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Wormhole{}, apperrors.WithMetadata(apperrors.CodeProfileUnknownWormhole,
			"unknown wormhole", map[string]string{"wormhole": code})
	}
	return wormhole, nil
}

// Ships returns all entries ordered by size class, then key.
func (c *Catalog) Ships() []Ship {
	out := make([]Ship, 0, len(c.ships))
	for _, ship := range c.ships {
		out = append(out, ship)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SizeClass != out[j].SizeClass {
			return out[i].SizeClass < out[j].SizeClass
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Wormholes returns all entries ordered by capacity, then code.
func (c *Catalog) Wormholes() []Wormhole {
	out := make([]Wormhole, 0, len(c.wormholes))
	for _, wormhole := range c.wormholes {
		out = append(out, wormhole)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// ShipsFor returns the ships that fit through the given size restriction.
func (c *Catalog) ShipsFor(restriction int) []Ship {
	var out []Ship
	for _, ship := range c.Ships() {
		if ship.SizeClass <= restriction {
			out = append(out, ship)
		}
	}
	return out
}

func (c *Catalog) String() string {
	return strconv.Itoa(len(c.ships)) + " ships, " + strconv.Itoa(len(c.wormholes)) + " wormholes"
}
