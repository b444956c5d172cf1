package domain

import (
	"math"
	"strconv"

	apperrors "github.com/anoikis-dev/rollwatch/internal/platform/errors"
)

// VarianceFraction is the spread of a wormhole's true capacity around its
// base figure.
const VarianceFraction = 0.1

// BaseCapacities enumerates the jump-mass budgets (Gg) wormholes spawn with.
var BaseCapacities = []float64{100, 500, 750, 1000, 2000, 3000, 3300, 5000}

// MaxSizeClass is the largest ship size class in the catalog.
const MaxSizeClass = 5

// ErrUnknownCapacity indicates a base capacity outside the enumerated set.
var ErrUnknownCapacity = apperrors.New(apperrors.CodeProfileUnknownCapacity, "base capacity is not a known wormhole size")

// ShipMassProfile is immutable reference data for one hull: its mass range
// depending on fit and its size class for restriction filtering.
type ShipMassProfile struct {
	Key       string
	Name      string
	ColdMass  float64 // Gg, no propulsion module active
	HotMass   float64 // Gg, propulsion module active
	SizeClass int     // 1..5
}

// Midpoint returns the center of the [cold, hot] range, used only as a
// reporting estimate for unknown-fit transits.
func (s ShipMassProfile) Midpoint() float64 {
	return (s.ColdMass + s.HotMass) / 2
}

// WormholeProfile is immutable reference data for one wormhole's capacity.
type WormholeProfile struct {
	BaseCapacity float64
}

// NewWormholeProfile validates base against the enumerated capacity set.
func NewWormholeProfile(base float64) (WormholeProfile, error) {
	for _, known := range BaseCapacities {
		if base == known {
			return WormholeProfile{BaseCapacity: base}, nil
		}
	}
	return WormholeProfile{}, apperrors.WithMetadata(
		apperrors.CodeProfileUnknownCapacity,
		"base capacity is not a known wormhole size",
		map[string]string{"capacity": strconv.FormatFloat(base, 'f', -1, 64)},
	)
}

// MinCapacity is the lowest true capacity the wormhole can have spawned with.
func (w WormholeProfile) MinCapacity() float64 {
	return math.Round(w.BaseCapacity * (1 - VarianceFraction))
}

// MaxCapacity is the highest true capacity the wormhole can have spawned with.
func (w WormholeProfile) MaxCapacity() float64 {
	return math.Round(w.BaseCapacity * (1 + VarianceFraction))
}

// DisplayRange returns the interval shown for a wormhole in the given state
// before any transit-specific arithmetic. Fresh is the full variance band;
// gone is the fixed sentinel.
func (w WormholeProfile) DisplayRange(state WormholeState) MassInterval {
	switch state {
	case StateFresh:
		return MassInterval{Min: w.MinCapacity(), Max: w.MaxCapacity()}
	case StateDestab:
		return MassInterval{Min: 0.1 * w.MinCapacity(), Max: 0.5 * w.MaxCapacity()}
	case StateCritical:
		return MassInterval{Min: 0, Max: 0.1 * w.MaxCapacity()}
	case StateGone:
		return GoneSentinel()
	default:
		return MassInterval{Min: 0.5 * w.MinCapacity(), Max: w.MaxCapacity()}
	}
}

// StateBoundaries returns the clamping interval for a state. It matches
// DisplayRange except that fresh clamps as stable: the unrestricted fresh
// range is never used to bound arithmetic.
func (w WormholeProfile) StateBoundaries(state WormholeState) MassInterval {
	if state == StateFresh {
		state = StateStable
	}
	return w.DisplayRange(state)
}
