// Package engine is the command facade shared by every transport. It owns
// the catalog, the single active session, and the command serialization:
// commands execute one at a time under a mutex, so session code never sees
// concurrent access.
package engine

import (
	"context"
	"strings"
	"sync"

	apperrors "github.com/anoikis-dev/rollwatch/internal/platform/errors"
	"github.com/anoikis-dev/rollwatch/internal/platform/otel"
	"github.com/anoikis-dev/rollwatch/internal/catalog"
	"github.com/anoikis-dev/rollwatch/internal/rolling/domain"
	"github.com/anoikis-dev/rollwatch/internal/rolling/filter"
	"github.com/anoikis-dev/rollwatch/internal/rolling/rng"
	"github.com/anoikis-dev/rollwatch/internal/rolling/session"
)

// Errors for commands issued against a missing or mismatched session.
var (
	ErrNotConfigured = apperrors.New(apperrors.CodeSessionNotConfigured, "no active session, configure first")
	ErrWrongMode     = apperrors.New(apperrors.CodeSessionWrongMode, "command does not apply to the active session mode")
)

// Engine executes rolling commands against the single active session.
type Engine struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	tracker *session.Tracker
	game    *session.Game
	seedFn  func() (int64, error)
}

// New builds an engine over a validated catalog.
func New(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat, seedFn: rng.NewSeed}
}

// ConfigureParams selects the session mode and wormhole for a new session.
type ConfigureParams struct {
	// Mode is "tracker" or "game".
	Mode string
	// Wormhole is a catalog code, e.g. "K162".
	Wormhole string
	// InitialState names the starting state; empty means fresh.
	InitialState string
	// InitialFarSide pre-seeds far-side fleet counts by ship key.
	InitialFarSide map[string]int
	// Seed fixes the game RNG for reproducible runs; nil draws a fresh seed.
	Seed *int64
}

// JumpParams describes one transit by catalog ship key.
type JumpParams struct {
	Ship       string
	Direction  string
	Mode       string
	CustomMass float64
}

// Configure replaces any active session with a new one.
func (e *Engine) Configure(ctx context.Context, params ConfigureParams) (session.Snapshot, error) {
	_, span := otel.Tracer("rollwatch.engine").Start(ctx, "engine.Configure")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	entry, err := e.catalog.Wormhole(params.Wormhole)
	if err != nil {
		otel.RecordError(span, err)
		return session.Snapshot{}, err
	}
	wormhole, err := entry.Profile()
	if err != nil {
		otel.RecordError(span, err)
		return session.Snapshot{}, err
	}

	state := domain.StateFresh
	if strings.TrimSpace(params.InitialState) != "" {
		state, err = domain.ParseState(params.InitialState)
		if err != nil {
			otel.RecordError(span, err)
			return session.Snapshot{}, err
		}
	}

	cfg := session.Config{
		Wormhole:       wormhole,
		InitialState:   state,
		Restriction:    entry.Restriction,
		InitialFarSide: params.InitialFarSide,
	}

	switch strings.ToLower(strings.TrimSpace(params.Mode)) {
	case "tracker", "":
		tracker, err := session.NewTracker(cfg)
		if err != nil {
			otel.RecordError(span, err)
			return session.Snapshot{}, err
		}
		e.tracker, e.game = tracker, nil
		return tracker.Snapshot(), nil
	case "game":
		seed, err := e.resolveSeed(params.Seed)
		if err != nil {
			otel.RecordError(span, err)
			return session.Snapshot{}, err
		}
		cfg.RNG = rng.NewSeeded(seed)
		cfg.Events = defaultEvents(e.catalog)
		game, err := session.NewGame(cfg)
		if err != nil {
			otel.RecordError(span, err)
			return session.Snapshot{}, err
		}
		e.game, e.tracker = game, nil
		return game.Snapshot(), nil
	default:
		err := apperrors.WithMetadata(apperrors.CodeSessionNotConfigured,
			"mode must be tracker or game", map[string]string{"mode": params.Mode})
		otel.RecordError(span, err)
		return session.Snapshot{}, err
	}
}

func (e *Engine) resolveSeed(seed *int64) (int64, error) {
	if seed != nil {
		return *seed, nil
	}
	return e.seedFn()
}

// Stage queues a jump on the active tracker session.
func (e *Engine) Stage(ctx context.Context, params JumpParams) (session.Snapshot, error) {
	_, span := otel.Tracer("rollwatch.engine").Start(ctx, "engine.Stage")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	tracker, err := e.activeTracker()
	if err != nil {
		otel.RecordError(span, err)
		return session.Snapshot{}, err
	}
	action, err := e.buildAction(params)
	if err != nil {
		otel.RecordError(span, err)
		return session.Snapshot{}, err
	}
	if err := tracker.Stage(action); err != nil {
		otel.RecordError(span, err)
		return session.Snapshot{}, err
	}
	return tracker.Snapshot(), nil
}

// Commit applies the staged batch with an explicitly declared state.
func (e *Engine) Commit(ctx context.Context, declared string) (session.LedgerEntry, session.Snapshot, error) {
	_, span := otel.Tracer("rollwatch.engine").Start(ctx, "engine.Commit")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	tracker, err := e.activeTracker()
	if err != nil {
		otel.RecordError(span, err)
		return session.LedgerEntry{}, session.Snapshot{}, err
	}
	state, err := domain.ParseState(declared)
	if err != nil {
		otel.RecordError(span, err)
		return session.LedgerEntry{}, session.Snapshot{}, err
	}
	entry, err := tracker.Commit(state)
	if err != nil {
		otel.RecordError(span, err)
		return session.LedgerEntry{}, session.Snapshot{}, err
	}
	return entry, tracker.Snapshot(), nil
}

// ApplyAction resolves a jump on the active game session.
func (e *Engine) ApplyAction(ctx context.Context, params JumpParams) (session.ActionResult, session.Snapshot, error) {
	_, span := otel.Tracer("rollwatch.engine").Start(ctx, "engine.ApplyAction")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	game, err := e.activeGame()
	if err != nil {
		otel.RecordError(span, err)
		return session.ActionResult{}, session.Snapshot{}, err
	}
	action, err := e.buildAction(params)
	if err != nil {
		otel.RecordError(span, err)
		return session.ActionResult{}, session.Snapshot{}, err
	}
	result, err := game.ApplyAction(action)
	if err != nil {
		otel.RecordError(span, err)
		return session.ActionResult{}, session.Snapshot{}, err
	}
	return result, game.Snapshot(), nil
}

// Reset discards the active session.
func (e *Engine) Reset(ctx context.Context) error {
	_, span := otel.Tracer("rollwatch.engine").Start(ctx, "engine.Reset")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tracker == nil && e.game == nil {
		err := ErrNotConfigured
		otel.RecordError(span, err)
		return err
	}
	e.tracker, e.game = nil, nil
	return nil
}

// Snapshot returns the active session's observable state.
func (e *Engine) Snapshot(ctx context.Context) (session.Snapshot, error) {
	_, span := otel.Tracer("rollwatch.engine").Start(ctx, "engine.Snapshot")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.activeSession()
	if err != nil {
		otel.RecordError(span, err)
		return session.Snapshot{}, err
	}
	return current.Snapshot(), nil
}

// QueryLedger returns the active session's ledger entries matching an
// AIP-160 filter expression. An empty filter returns everything.
func (e *Engine) QueryLedger(ctx context.Context, filterStr string) ([]session.LedgerEntry, error) {
	_, span := otel.Tracer("rollwatch.engine").Start(ctx, "engine.QueryLedger")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.activeSession()
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}
	predicate, err := filter.ParseLedgerFilter(filterStr)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}
	return filter.Apply(current.Snapshot().Entries, predicate), nil
}

// Catalog exposes the reference data for transports to list.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

func (e *Engine) activeSession() (session.Session, error) {
	switch {
	case e.tracker != nil:
		return e.tracker, nil
	case e.game != nil:
		return e.game, nil
	default:
		return nil, ErrNotConfigured
	}
}

func (e *Engine) activeTracker() (*session.Tracker, error) {
	if e.tracker != nil {
		return e.tracker, nil
	}
	if e.game != nil {
		return nil, ErrWrongMode
	}
	return nil, ErrNotConfigured
}

func (e *Engine) activeGame() (*session.Game, error) {
	if e.game != nil {
		return e.game, nil
	}
	if e.tracker != nil {
		return nil, ErrWrongMode
	}
	return nil, ErrNotConfigured
}

func (e *Engine) buildAction(params JumpParams) (domain.Action, error) {
	ship, err := e.catalog.Ship(params.Ship)
	if err != nil {
		return domain.Action{}, err
	}
	direction, err := parseDirection(params.Direction)
	if err != nil {
		return domain.Action{}, err
	}
	mode, err := parseMassMode(params.Mode)
	if err != nil {
		return domain.Action{}, err
	}
	return domain.Action{
		Ship:       ship.MassProfile(),
		Direction:  direction,
		Mode:       mode,
		CustomMass: params.CustomMass,
	}, nil
}

func parseDirection(value string) (domain.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "outbound", "out":
		return domain.DirectionOutbound, nil
	case "inbound", "in":
		return domain.DirectionInbound, nil
	default:
		return domain.DirectionUnspecified, domain.ErrInvalidDirection
	}
}

func parseMassMode(value string) (domain.MassMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "cold":
		return domain.MassModeCold, nil
	case "hot":
		return domain.MassModeHot, nil
	case "unknown":
		return domain.MassModeUnknown, nil
	case "custom":
		return domain.MassModeCustom, nil
	default:
		return domain.MassModeUnspecified, domain.ErrInvalidMode
	}
}
