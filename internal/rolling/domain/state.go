package domain

import (
	"strings"

	apperrors "github.com/anoikis-dev/rollwatch/internal/platform/errors"
)

// WormholeState describes the observable stability of a wormhole.
type WormholeState int

const (
	StateUnspecified WormholeState = iota
	// StateFresh means no transit has been observed yet. It is a display
	// alias of StateStable; boundary clamping never uses the fresh range.
	StateFresh
	StateStable
	StateDestab
	StateCritical
	StateGone
)

func (s WormholeState) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStable:
		return "stable"
	case StateDestab:
		return "destab"
	case StateCritical:
		return "critical"
	case StateGone:
		return "gone"
	default:
		return "unspecified"
	}
}

// ErrInvalidState indicates an unrecognized wormhole state name.
var ErrInvalidState = apperrors.New(apperrors.CodeSessionInvalidState, "invalid wormhole state")

// ParseState resolves a state name to a WormholeState.
func ParseState(value string) (WormholeState, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "fresh":
		return StateFresh, nil
	case "stable":
		return StateStable, nil
	case "destab", "destabilized":
		return StateDestab, nil
	case "critical":
		return StateCritical, nil
	case "gone":
		return StateGone, nil
	default:
		return StateUnspecified, ErrInvalidState
	}
}

// DeriveState computes the state from the hidden remaining mass relative to
// the original capacity: <=0% gone, <=10% critical, <=50% destab, else
// stable. Derivation is purely reactive; it always reflects the current
// percentage even when that is less severe than the previous state.
func DeriveState(remaining, original float64) WormholeState {
	if original <= 0 || remaining <= 0 {
		return StateGone
	}
	percent := remaining / original * 100
	switch {
	case percent <= 10:
		return StateCritical
	case percent <= 50:
		return StateDestab
	default:
		return StateStable
	}
}

// severity orders states for transition classification. Fresh and stable
// share a rank: fresh is only a display alias.
func (s WormholeState) severity() int {
	switch s {
	case StateDestab:
		return 1
	case StateCritical:
		return 2
	case StateGone:
		return 3
	default:
		return 0
	}
}

// Transition categorizes a state change after an action resolves.
type Transition int

const (
	TransitionNoChange Transition = iota
	TransitionStabilize
	TransitionDestab
	TransitionCritical
	TransitionCollapse
)

func (t Transition) String() string {
	switch t {
	case TransitionStabilize:
		return "stabilize"
	case TransitionDestab:
		return "destab"
	case TransitionCritical:
		return "critical"
	case TransitionCollapse:
		return "collapse"
	default:
		return "no-change"
	}
}

// ClassifyTransition categorizes the move from prev to next. Collapse is
// reported whenever next is gone, regardless of prev. A severity increase
// reports the new state's category; a decrease reports stabilize.
func ClassifyTransition(prev, next WormholeState) Transition {
	if next == StateGone {
		return TransitionCollapse
	}
	prevRank, nextRank := prev.severity(), next.severity()
	switch {
	case nextRank > prevRank && next == StateCritical:
		return TransitionCritical
	case nextRank > prevRank && next == StateDestab:
		return TransitionDestab
	case nextRank < prevRank:
		return TransitionStabilize
	default:
		return TransitionNoChange
	}
}
