package domain

import (
	apperrors "github.com/anoikis-dev/rollwatch/internal/platform/errors"
)

// Direction says which way a ship crossed the wormhole relative to home.
type Direction int

const (
	DirectionUnspecified Direction = iota
	DirectionOutbound
	DirectionInbound
)

func (d Direction) String() string {
	switch d {
	case DirectionOutbound:
		return "outbound"
	case DirectionInbound:
		return "inbound"
	default:
		return "unspecified"
	}
}

// MassMode says how much is known about the transiting ship's mass.
type MassMode int

const (
	MassModeUnspecified MassMode = iota
	MassModeCold
	MassModeHot
	MassModeUnknown
	MassModeCustom
)

func (m MassMode) String() string {
	switch m {
	case MassModeCold:
		return "cold"
	case MassModeHot:
		return "hot"
	case MassModeUnknown:
		return "unknown"
	case MassModeCustom:
		return "custom"
	default:
		return "unspecified"
	}
}

// Action is one ship transit: which hull, which way, and what is known about
// its mass. CustomMass is only meaningful in MassModeCustom.
type Action struct {
	Ship       ShipMassProfile
	Direction  Direction
	Mode       MassMode
	CustomMass float64
}

// Errors returned by action validation.
var (
	ErrInvalidDirection  = apperrors.New(apperrors.CodeActionInvalidDirection, "direction must be outbound or inbound")
	ErrInvalidMode       = apperrors.New(apperrors.CodeActionInvalidMode, "mass mode must be cold, hot, unknown, or custom")
	ErrInvalidCustomMass = apperrors.New(apperrors.CodeActionInvalidCustomMass, "custom mass must be a positive number")
)

// Validate checks the action before it reaches interval arithmetic.
func (a Action) Validate() error {
	switch a.Direction {
	case DirectionOutbound, DirectionInbound:
	default:
		return ErrInvalidDirection
	}
	switch a.Mode {
	case MassModeCold, MassModeHot, MassModeUnknown:
	case MassModeCustom:
		if a.CustomMass <= 0 {
			return ErrInvalidCustomMass
		}
	default:
		return ErrInvalidMode
	}
	return nil
}

// ExactMass returns the known scalar mass for the action and whether one
// exists. Unknown-fit actions have no exact mass.
func (a Action) ExactMass() (float64, bool) {
	switch a.Mode {
	case MassModeCold:
		return a.Ship.ColdMass, true
	case MassModeHot:
		return a.Ship.HotMass, true
	case MassModeCustom:
		return a.CustomMass, true
	default:
		return 0, false
	}
}

// EstimatedMass returns the passed-mass figure logged for the action: the
// exact mass when known, otherwise the midpoint of [cold, hot]. The midpoint
// is a reporting approximation only and is never fed back into interval math.
func (a Action) EstimatedMass() float64 {
	if mass, ok := a.ExactMass(); ok {
		return mass
	}
	return a.Ship.Midpoint()
}

// ApplyRaw subtracts the action's mass from the interval without boundary
// clamping. Tracker commits use this per staged action and clamp once at the
// end of the batch.
func ApplyRaw(interval MassInterval, action Action) (MassInterval, error) {
	if err := action.Validate(); err != nil {
		return MassInterval{}, err
	}
	if mass, ok := action.ExactMass(); ok {
		return interval.SubtractExact(mass), nil
	}
	return interval.SubtractUnknown(action.Ship.ColdMass, action.Ship.HotMass), nil
}

// ApplyClamped subtracts the action's mass and immediately intersects the
// result with bounds. Game sessions use this for every live action since the
// displayed value is shown after each step.
func ApplyClamped(interval MassInterval, action Action, bounds MassInterval) (MassInterval, error) {
	out, err := ApplyRaw(interval, action)
	if err != nil {
		return MassInterval{}, err
	}
	return out.Intersect(bounds), nil
}
