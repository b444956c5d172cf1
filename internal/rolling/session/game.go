package session

import (
	"math"
	"strconv"

	"github.com/anoikis-dev/rollwatch/internal/platform/errors"
	"github.com/anoikis-dev/rollwatch/internal/rolling/domain"
	"github.com/anoikis-dev/rollwatch/internal/rolling/rng"
)

// Game is the simulation session mode: an exact remaining capacity is
// sampled and tracked internally while the observer only ever sees a derived
// interval. State transitions are derived automatically from the hidden
// percentage remaining.
type Game struct {
	wormhole    domain.WormholeProfile
	restriction int
	rng         rng.Source

	original  float64
	remaining float64

	display   domain.MassInterval
	state     domain.WormholeState
	fleet     domain.FarSideFleet
	entries   []LedgerEntry
	totalMass float64

	status    Status
	verdict   Verdict
	flavorKey string

	events        []Event
	eventOccurred bool
}

// ActionResult reports one resolved player action, including any random
// event it cascaded into.
type ActionResult struct {
	Entry      LedgerEntry
	Transition domain.Transition
	Collapsed  bool
	Verdict    Verdict
	FlavorKey  string
	Event      *EventOutcome
}

// NewGame starts a game session. The true capacity is sampled uniformly from
// the wormhole's variance band, and the hidden remaining mass from the
// fraction band of the initial state, simulating unknown prior transits
// consistent with that state.
func NewGame(cfg Config) (*Game, error) {
	if cfg.RNG == nil {
		return nil, ErrRNGRequired
	}
	state, err := normalizeInitialState(cfg.InitialState)
	if err != nil {
		return nil, err
	}

	minCap, maxCap := cfg.Wormhole.MinCapacity(), cfg.Wormhole.MaxCapacity()
	original := minCap + cfg.RNG.Float64()*(maxCap-minCap)

	var fraction float64
	switch state {
	case domain.StateStable:
		fraction = 0.5 + cfg.RNG.Float64()*0.5
	case domain.StateDestab:
		fraction = 0.1 + cfg.RNG.Float64()*0.4
	case domain.StateCritical:
		fraction = cfg.RNG.Float64() * 0.1
	default: // fresh
		fraction = 1.0
	}

	return &Game{
		wormhole:    cfg.Wormhole,
		restriction: normalizeRestriction(cfg.Restriction),
		rng:         cfg.RNG,
		original:    original,
		remaining:   original * fraction,
		display:     cfg.Wormhole.DisplayRange(state).Rounded(),
		state:       state,
		fleet:       domain.NewFarSideFleet(cfg.InitialFarSide),
		status:      StatusTracking,
		events:      cfg.Events,
	}, nil
}

// Mode implements Session.
func (g *Game) Mode() Mode { return ModeGame }

// Status implements Session.
func (g *Game) Status() Status { return g.status }

// Verdict implements Session.
func (g *Game) Verdict() Verdict { return g.verdict }

// Restriction returns the session's maximum permitted ship size class.
func (g *Game) Restriction() int { return g.restriction }

// ApplyAction resolves one player transit: the true consumed mass is debited
// from the hidden remaining capacity, the displayed interval is recomputed
// with the declared mass knowledge, and the state is derived from the hidden
// percentage. After full resolution the random-event injector runs once.
func (g *Game) ApplyAction(action domain.Action) (ActionResult, error) {
	if g.status == StatusCompleted {
		return ActionResult{}, ErrCompleted
	}
	if err := action.Validate(); err != nil {
		return ActionResult{}, err
	}

	transition, err := g.resolve(action)
	if err != nil {
		return ActionResult{}, err
	}

	entry := LedgerEntry{
		Seq:        len(g.entries) + 1,
		Kind:       EntryAction,
		Actions:    []ActionRecord{recordAction(action)},
		Interval:   g.displayFor(g.state),
		State:      g.state,
		Transition: transition,
		BatchMass:  action.EstimatedMass(),
		TotalMass:  g.totalMass,
		FarSide:    g.fleet.Snapshot(),
	}
	g.entries = append(g.entries, entry)

	result := ActionResult{
		Entry:      entry,
		Transition: transition,
	}
	if g.state == domain.StateGone {
		g.complete()
		result.Collapsed = true
		result.Verdict = g.verdict
		result.FlavorKey = g.flavorKey
		return result, nil
	}

	event, err := g.maybeInjectEvent()
	if err != nil {
		return ActionResult{}, err
	}
	if event != nil {
		result.Event = event
		if event.Collapsed {
			result.Collapsed = true
			result.Verdict = g.verdict
			result.FlavorKey = g.flavorKey
		}
	}
	return result, nil
}

// resolve runs the hidden-debit / display-update / state-derivation pipeline
// for one action. It is shared by player actions and event sub-actions.
func (g *Game) resolve(action domain.Action) (domain.Transition, error) {
	trueMass, known := action.ExactMass()
	if !known {
		// Unbiased coin flip picks the ground truth for an unknown fit.
		// The observer never learns which side came up.
		if g.rng.IntN(2) == 0 {
			trueMass = action.Ship.ColdMass
		} else {
			trueMass = action.Ship.HotMass
		}
	}

	g.remaining = math.Max(0, g.remaining-trueMass)
	next := domain.DeriveState(g.remaining, g.original)

	display, err := domain.ApplyClamped(g.display, action, g.wormhole.StateBoundaries(next))
	if err != nil {
		return domain.TransitionNoChange, err
	}
	display = display.Rounded()

	transition := domain.ClassifyTransition(g.state, next)
	g.display = display
	g.state = next
	g.totalMass += action.EstimatedMass()
	g.fleet.RecordTransit(action.Ship.Key, action.Direction)

	if next != domain.StateGone && !display.Contains(g.remaining) {
		// This is a defect in the interval or clamp logic, not a
		// legitimate runtime state. Report it loudly.
		return transition, errors.WithMetadata(
			errors.CodeSessionMassConsistent,
			"hidden remaining mass fell outside the displayed interval",
			map[string]string{
				"remaining": strconv.FormatFloat(g.remaining, 'f', 2, 64),
				"display":   display.String(),
			},
		)
	}
	return transition, nil
}

func (g *Game) complete() {
	g.status = StatusCompleted
	if g.fleet.Empty() {
		g.verdict = VerdictWin
	} else {
		g.verdict = VerdictLoss
	}
	g.flavorKey = drawFlavor(g.rng, g.verdict)
}

// displayFor returns the interval stored in ledger entries and snapshots:
// the gone sentinel once collapsed, the live display otherwise.
func (g *Game) displayFor(state domain.WormholeState) domain.MassInterval {
	if state == domain.StateGone {
		return domain.GoneSentinel()
	}
	return g.display
}

// Snapshot implements Session. Hidden capacity figures never appear here.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Mode:                ModeGame,
		Status:              g.status,
		State:               g.state,
		Display:             g.displayFor(g.state),
		Verdict:             g.verdict,
		FlavorKey:           g.flavorKey,
		FarSide:             g.fleet.Snapshot(),
		TotalMass:           g.totalMass,
		RandomEventOccurred: g.eventOccurred,
		Entries:             copyEntries(g.entries),
	}
}
