package catalog

import (
	"errors"
	"testing"
	"testing/fstest"

	apperrors "github.com/anoikis-dev/rollwatch/internal/platform/errors"
)

func TestLoadEmbedded(t *testing.T) {
	cat, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}
	if len(cat.Ships()) == 0 {
		t.Fatal("expected embedded ships")
	}
	if len(cat.Wormholes()) == 0 {
		t.Fatal("expected embedded wormholes")
	}

	ship, err := cat.Ship("battleship")
	if err != nil {
		t.Fatalf("expected battleship entry, got %v", err)
	}
	profile := ship.MassProfile()
	if profile.ColdMass <= 0 || profile.HotMass < profile.ColdMass {
		t.Fatalf("expected sane mass range, got %+v", profile)
	}

	wormhole, err := cat.Wormhole("k162")
	if err != nil {
		t.Fatalf("expected case-insensitive wormhole lookup, got %v", err)
	}
	if _, err := wormhole.Profile(); err != nil {
		t.Fatalf("expected valid capacity, got %v", err)
	}
}

func TestCatalogLookupUnknown(t *testing.T) {
	cat, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}
	if _, err := cat.Ship("titan"); !errors.Is(err, ErrUnknownShip) {
		t.Fatalf("expected ErrUnknownShip, got %v", err)
	}
	if _, err := cat.Wormhole("Z999"); !errors.Is(err, ErrUnknownWormhole) {
		t.Fatalf("expected ErrUnknownWormhole, got %v", err)
	}
}

func TestCatalogOrdering(t *testing.T) {
	cat, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}
	ships := cat.Ships()
	for i := 1; i < len(ships); i++ {
		if ships[i].SizeClass < ships[i-1].SizeClass {
			t.Fatalf("expected ships ordered by size class, got %q before %q",
				ships[i-1].Key, ships[i].Key)
		}
	}
	wormholes := cat.Wormholes()
	for i := 1; i < len(wormholes); i++ {
		if wormholes[i].Capacity < wormholes[i-1].Capacity {
			t.Fatalf("expected wormholes ordered by capacity, got %q before %q",
				wormholes[i-1].Code, wormholes[i].Code)
		}
	}
}

func TestShipsForRestriction(t *testing.T) {
	cat, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}
	for _, ship := range cat.ShipsFor(2) {
		if ship.SizeClass > 2 {
			t.Fatalf("expected only size class <= 2, got %q class %d", ship.Key, ship.SizeClass)
		}
	}
}

func TestNewValidation(t *testing.T) {
	valid := Ship{Key: "frigate", Name: "Frigate", ColdMass: 2, HotMass: 3, SizeClass: 1}
	tests := []struct {
		name      string
		ships     []Ship
		wormholes []Wormhole
	}{
		{"missing key", []Ship{{Name: "X", ColdMass: 1, HotMass: 1, SizeClass: 1}}, nil},
		{"inverted masses", []Ship{{Key: "x", Name: "X", ColdMass: 5, HotMass: 1, SizeClass: 1}}, nil},
		{"size class too large", []Ship{{Key: "x", Name: "X", ColdMass: 1, HotMass: 1, SizeClass: 9}}, nil},
		{"duplicate ship", []Ship{valid, valid}, nil},
		{"unknown capacity", nil, []Wormhole{{Code: "X1", Capacity: 123, Restriction: 3}}},
		{"restriction out of range", nil, []Wormhole{{Code: "X1", Capacity: 1000, Restriction: 0}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.ships, tc.wormholes)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, apperrors.New(apperrors.CodeCatalogInvalidEntry, "")) {
				t.Fatalf("expected CATALOG_INVALID_ENTRY, got %v", err)
			}
		})
	}
}

func TestLoadFromFSOverride(t *testing.T) {
	fsys := fstest.MapFS{
		"ships.yaml": &fstest.MapFile{Data: []byte(`
ships:
  - key: pod
    name: Capsule
    cold_mass: 1
    hot_mass: 1
    size_class: 1
`)},
		"wormholes.yaml": &fstest.MapFile{Data: []byte(`
wormholes:
  - code: Q063
    capacity: 500
    restriction: 2
`)},
	}
	cat, err := LoadFromFS(fsys, "ships.yaml", "wormholes.yaml")
	if err != nil {
		t.Fatalf("load catalog from fs: %v", err)
	}
	ship, err := cat.Ship("pod")
	if err != nil {
		t.Fatalf("expected pod entry, got %v", err)
	}
	if ship.MassProfile().SizeClass != 1 {
		t.Fatalf("expected size class 1, got %d", ship.SizeClass)
	}
	wormhole, err := cat.Wormhole("Q063")
	if err != nil {
		t.Fatalf("expected Q063 entry, got %v", err)
	}
	profile, err := wormhole.Profile()
	if err != nil {
		t.Fatalf("expected valid profile, got %v", err)
	}
	if profile.MinCapacity() != 450 || profile.MaxCapacity() != 550 {
		t.Fatalf("expected variance band [450, 550], got [%g, %g]",
			profile.MinCapacity(), profile.MaxCapacity())
	}
}
