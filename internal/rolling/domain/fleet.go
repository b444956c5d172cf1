package domain

import (
	"sort"
	"strings"
)

// FarSideFleet counts ships currently stranded beyond the wormhole, keyed by
// ship type. Counts never go below zero.
type FarSideFleet map[string]int

// NewFarSideFleet builds a fleet from an initial seeding, dropping blank keys
// and non-positive counts. The seed participates in win/loss verdicts exactly
// like counts accrued during a session.
func NewFarSideFleet(initial map[string]int) FarSideFleet {
	fleet := FarSideFleet{}
	for key, count := range initial {
		key = strings.TrimSpace(key)
		if key == "" || count <= 0 {
			continue
		}
		fleet[key] = count
	}
	return fleet
}

// RecordTransit updates the count for a ship type: outbound increments,
// inbound decrements floored at zero.
func (f FarSideFleet) RecordTransit(shipKey string, direction Direction) {
	shipKey = strings.TrimSpace(shipKey)
	if shipKey == "" {
		return
	}
	switch direction {
	case DirectionOutbound:
		f[shipKey]++
	case DirectionInbound:
		if f[shipKey] > 0 {
			f[shipKey]--
		}
		if f[shipKey] == 0 {
			delete(f, shipKey)
		}
	}
}

// Empty reports whether nothing is stranded on the far side.
func (f FarSideFleet) Empty() bool {
	for _, count := range f {
		if count > 0 {
			return false
		}
	}
	return true
}

// Snapshot returns a copy with zero-valued entries omitted.
func (f FarSideFleet) Snapshot() map[string]int {
	out := make(map[string]int, len(f))
	for key, count := range f {
		if count > 0 {
			out[key] = count
		}
	}
	return out
}

// Keys returns the stranded ship types in sorted order.
func (f FarSideFleet) Keys() []string {
	keys := make([]string, 0, len(f))
	for key, count := range f {
		if count > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
