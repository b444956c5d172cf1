package domain

import (
	"fmt"
	"math"
)

// GoneSentinelMin is the fixed lower bound of the collapsed display range.
// It is a display flag, not a real mass.
const GoneSentinelMin = -5000

// MassInterval is a bounded range of remaining jump mass in Gg. Min is the
// worst case (most mass already consumed), Max the best case. The invariant
// Min <= Max holds for every interval produced by this package.
type MassInterval struct {
	Min float64
	Max float64
}

// GoneSentinel is the display range signaling a collapsed wormhole.
func GoneSentinel() MassInterval {
	return MassInterval{Min: GoneSentinelMin, Max: 0}
}

// Width returns Max - Min.
func (i MassInterval) Width() float64 {
	return i.Max - i.Min
}

// Contains reports whether value lies within the interval, inclusive.
func (i MassInterval) Contains(value float64) bool {
	return value >= i.Min && value <= i.Max
}

// Rounded returns the interval with Min floored and Max ceiled to integers.
// Rounding outward keeps any value contained before rounding contained after.
func (i MassInterval) Rounded() MassInterval {
	return MassInterval{Min: math.Floor(i.Min), Max: math.Ceil(i.Max)}
}

// Intersect clamps the interval to bounds. When the ranges do not overlap the
// lower bound is forced down to the upper bound so Min <= Max is preserved.
func (i MassInterval) Intersect(bounds MassInterval) MassInterval {
	out := MassInterval{
		Min: math.Max(i.Min, bounds.Min),
		Max: math.Min(i.Max, bounds.Max),
	}
	if out.Min > out.Max {
		out.Min = out.Max
	}
	return out
}

func (i MassInterval) String() string {
	return fmt.Sprintf("[%g, %g]", i.Min, i.Max)
}

// SubtractExact removes a known scalar mass from both bounds, clamping each
// at zero. Interval width is preserved except at the zero floor.
func (i MassInterval) SubtractExact(mass float64) MassInterval {
	return MassInterval{
		Min: math.Max(0, i.Min-mass),
		Max: math.Max(0, i.Max-mass),
	}
}

// SubtractUnknown removes a ship whose mass is known only as [cold, hot].
// The lower bound assumes the ship was as heavy as hot, the upper bound as
// light as cold, so the interval can only widen or stay equal. Both bounds
// clamp at zero.
func (i MassInterval) SubtractUnknown(cold, hot float64) MassInterval {
	return MassInterval{
		Min: math.Max(0, i.Min-hot),
		Max: math.Max(0, i.Max-cold),
	}
}
