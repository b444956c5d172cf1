// Package session implements the two rolling session modes: the tracker,
// which operates purely on bounded intervals with explicitly declared states,
// and the game, which keeps an exact hidden capacity and shows the observer
// only a derived interval.
package session

import (
	"github.com/anoikis-dev/rollwatch/internal/platform/errors"
	"github.com/anoikis-dev/rollwatch/internal/rolling/domain"
	"github.com/anoikis-dev/rollwatch/internal/rolling/rng"
)

// Mode identifies the session variant.
type Mode int

const (
	ModeUnspecified Mode = iota
	ModeTracker
	ModeGame
)

func (m Mode) String() string {
	switch m {
	case ModeTracker:
		return "tracker"
	case ModeGame:
		return "game"
	default:
		return "unspecified"
	}
}

// Status is the session lifecycle position.
type Status int

const (
	StatusUnspecified Status = iota
	StatusTracking
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusTracking:
		return "tracking"
	case StatusCompleted:
		return "completed"
	default:
		return "unspecified"
	}
}

// Verdict is the terminal outcome once a session completes.
type Verdict int

const (
	VerdictPending Verdict = iota
	VerdictWin
	VerdictLoss
)

func (v Verdict) String() string {
	switch v {
	case VerdictWin:
		return "win"
	case VerdictLoss:
		return "loss"
	default:
		return "pending"
	}
}

// EntryKind distinguishes ledger entry origins.
type EntryKind int

const (
	EntryUnspecified EntryKind = iota
	// EntryBatch is a tracker commit of staged actions.
	EntryBatch
	// EntryAction is a single resolved game action.
	EntryAction
	// EntryEvent is a consolidated random-event record.
	EntryEvent
)

func (k EntryKind) String() string {
	switch k {
	case EntryBatch:
		return "batch"
	case EntryAction:
		return "action"
	case EntryEvent:
		return "event"
	default:
		return "unspecified"
	}
}

// ActionRecord is the plain record of one transit inside a ledger entry.
type ActionRecord struct {
	ShipKey       string
	ShipName      string
	Direction     domain.Direction
	Mode          domain.MassMode
	CustomMass    float64
	EstimatedMass float64
}

func recordAction(action domain.Action) ActionRecord {
	return ActionRecord{
		ShipKey:       action.Ship.Key,
		ShipName:      action.Ship.Name,
		Direction:     action.Direction,
		Mode:          action.Mode,
		CustomMass:    action.CustomMass,
		EstimatedMass: action.EstimatedMass(),
	}
}

// LedgerEntry is one ordered, immutable journal record. Interval and state
// reflect the display after the entry resolved; BatchMass and TotalMass are
// passed-mass estimates (midpoint for unknown fits), never interval inputs.
type LedgerEntry struct {
	Seq        int
	Kind       EntryKind
	Actions    []ActionRecord
	Interval   domain.MassInterval
	State      domain.WormholeState
	Transition domain.Transition
	BatchMass  float64
	TotalMass  float64
	FarSide    map[string]int
	EventName  string
	Processed  int
	Skipped    int
}

// Snapshot is the plain-data view of a session handed to transports. No
// hidden game state crosses this boundary.
type Snapshot struct {
	Mode                Mode
	Status              Status
	State               domain.WormholeState
	Display             domain.MassInterval
	Verdict             Verdict
	FlavorKey           string
	FarSide             map[string]int
	StagedCount         int
	TotalMass           float64
	RandomEventOccurred bool
	Entries             []LedgerEntry
}

// Session is the shared surface of both modes.
type Session interface {
	Mode() Mode
	Status() Status
	Verdict() Verdict
	Snapshot() Snapshot
}

// Config describes a new session of either mode.
type Config struct {
	Wormhole       domain.WormholeProfile
	InitialState   domain.WormholeState // zero value means fresh
	Restriction    int                  // max ship size class; zero means unrestricted
	InitialFarSide map[string]int
	Events         []Event    // candidate random events, game mode only
	RNG            rng.Source // required in game mode
}

// Errors shared by both session modes.
var (
	ErrCompleted      = errors.New(errors.CodeSessionCompleted, "session is completed")
	ErrNothingStaged  = errors.New(errors.CodeSessionNothingStaged, "no staged actions to commit")
	ErrRNGRequired    = errors.New(errors.CodeSessionNotConfigured, "game sessions require a randomness source")
	ErrGoneAtStart    = errors.New(errors.CodeSessionInvalidState, "a session cannot start on a collapsed wormhole")
	ErrMassConsistent = errors.New(errors.CodeSessionMassConsistent, "hidden remaining mass fell outside the displayed interval")
)

// Flavor message pools keyed by verdict. Keys resolve through the i18n
// catalog; the draw is uniform over the pool.
var (
	winFlavorKeys  = []string{"verdict.win.0", "verdict.win.1", "verdict.win.2", "verdict.win.3"}
	lossFlavorKeys = []string{"verdict.loss.0", "verdict.loss.1", "verdict.loss.2", "verdict.loss.3"}
)

func drawFlavor(source rng.Source, verdict Verdict) string {
	pool := lossFlavorKeys
	if verdict == VerdictWin {
		pool = winFlavorKeys
	}
	if source == nil {
		return pool[0]
	}
	return pool[source.IntN(len(pool))]
}

func normalizeInitialState(state domain.WormholeState) (domain.WormholeState, error) {
	switch state {
	case domain.StateUnspecified:
		return domain.StateFresh, nil
	case domain.StateFresh, domain.StateStable, domain.StateDestab, domain.StateCritical:
		return state, nil
	case domain.StateGone:
		return domain.StateUnspecified, ErrGoneAtStart
	default:
		return domain.StateUnspecified, domain.ErrInvalidState
	}
}

func normalizeRestriction(restriction int) int {
	if restriction <= 0 || restriction > domain.MaxSizeClass {
		return domain.MaxSizeClass
	}
	return restriction
}

func copyEntries(entries []LedgerEntry) []LedgerEntry {
	out := make([]LedgerEntry, len(entries))
	copy(out, entries)
	return out
}
