package domain

import (
	"errors"
	"testing"
)

var testBattleship = ShipMassProfile{
	Key:       "battleship",
	Name:      "Battleship",
	ColdMass:  100,
	HotMass:   150,
	SizeClass: 4,
}

func TestApplyRawScenario(t *testing.T) {
	// Fresh 3000 Gg wormhole: unknown battleship inbound, then a hot
	// battleship inbound.
	interval := MassInterval{Min: 2700, Max: 3300}

	out, err := ApplyRaw(interval, Action{
		Ship:      testBattleship,
		Direction: DirectionInbound,
		Mode:      MassModeUnknown,
	})
	if err != nil {
		t.Fatalf("apply unknown: %v", err)
	}
	if out.Min != 2550 || out.Max != 3200 {
		t.Fatalf("expected [2550, 3200], got %s", out)
	}

	out, err = ApplyRaw(out, Action{
		Ship:      testBattleship,
		Direction: DirectionInbound,
		Mode:      MassModeHot,
	})
	if err != nil {
		t.Fatalf("apply hot: %v", err)
	}
	if out.Min != 2400 || out.Max != 3050 {
		t.Fatalf("expected [2400, 3050], got %s", out)
	}
}

func TestApplyClamped(t *testing.T) {
	profile, _ := NewWormholeProfile(3000)
	interval := MassInterval{Min: 400, Max: 1800}

	out, err := ApplyClamped(interval, Action{
		Ship:      testBattleship,
		Direction: DirectionOutbound,
		Mode:      MassModeCold,
	}, profile.StateBoundaries(StateDestab))
	if err != nil {
		t.Fatalf("apply clamped: %v", err)
	}

	bounds := profile.StateBoundaries(StateDestab)
	if out.Min < bounds.Min || out.Max > bounds.Max {
		t.Fatalf("expected result within %s, got %s", bounds, out)
	}
	if out.Min > out.Max {
		t.Fatalf("interval inverted: %s", out)
	}
}

func TestActionValidate(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		err    error
	}{
		{
			name:   "missing direction",
			action: Action{Ship: testBattleship, Mode: MassModeCold},
			err:    ErrInvalidDirection,
		},
		{
			name:   "missing mode",
			action: Action{Ship: testBattleship, Direction: DirectionOutbound},
			err:    ErrInvalidMode,
		},
		{
			name:   "zero custom mass",
			action: Action{Ship: testBattleship, Direction: DirectionOutbound, Mode: MassModeCustom},
			err:    ErrInvalidCustomMass,
		},
		{
			name:   "negative custom mass",
			action: Action{Ship: testBattleship, Direction: DirectionInbound, Mode: MassModeCustom, CustomMass: -10},
			err:    ErrInvalidCustomMass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.action.Validate(); !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}

	valid := Action{Ship: testBattleship, Direction: DirectionInbound, Mode: MassModeCustom, CustomMass: 1200}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid action rejected: %v", err)
	}
}

func TestEstimatedMass(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   float64
	}{
		{"cold", Action{Ship: testBattleship, Direction: DirectionInbound, Mode: MassModeCold}, 100},
		{"hot", Action{Ship: testBattleship, Direction: DirectionInbound, Mode: MassModeHot}, 150},
		{"custom", Action{Ship: testBattleship, Direction: DirectionInbound, Mode: MassModeCustom, CustomMass: 77}, 77},
		{"unknown uses midpoint", Action{Ship: testBattleship, Direction: DirectionInbound, Mode: MassModeUnknown}, 125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.action.EstimatedMass(); got != tt.want {
				t.Fatalf("expected %g, got %g", tt.want, got)
			}
		})
	}
}
