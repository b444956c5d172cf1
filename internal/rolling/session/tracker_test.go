package session

import (
	"errors"
	"testing"

	"github.com/anoikis-dev/rollwatch/internal/rolling/domain"
)

func testWormhole(t *testing.T, base float64) domain.WormholeProfile {
	t.Helper()
	wormhole, err := domain.NewWormholeProfile(base)
	if err != nil {
		t.Fatalf("expected valid wormhole profile, got %v", err)
	}
	return wormhole
}

var testBattleship = domain.ShipMassProfile{
	Key:       "battleship",
	Name:      "Battleship",
	ColdMass:  100,
	HotMass:   150,
	SizeClass: 4,
}

func TestTrackerStageAndCommit(t *testing.T) {
	tracker, err := NewTracker(Config{
		Wormhole:     testWormhole(t, 3000),
		InitialState: domain.StateFresh,
	})
	if err != nil {
		t.Fatalf("expected tracker, got %v", err)
	}

	snap := tracker.Snapshot()
	want := domain.MassInterval{Min: 2700, Max: 3300}
	if snap.Display != want {
		t.Fatalf("expected fresh display %v, got %v", want, snap.Display)
	}

	jump := domain.Action{
		Ship:      testBattleship,
		Direction: domain.DirectionOutbound,
		Mode:      domain.MassModeUnknown,
	}
	if err := tracker.Stage(jump); err != nil {
		t.Fatalf("expected stage to succeed, got %v", err)
	}
	if tracker.StagedCount() != 1 {
		t.Fatalf("expected 1 staged action, got %d", tracker.StagedCount())
	}

	entry, err := tracker.Commit(domain.StateStable)
	if err != nil {
		t.Fatalf("expected commit to succeed, got %v", err)
	}
	want = domain.MassInterval{Min: 2550, Max: 3200}
	if entry.Interval != want {
		t.Fatalf("expected interval %v after unknown jump, got %v", want, entry.Interval)
	}
	if entry.Kind != EntryBatch {
		t.Fatalf("expected batch entry, got %v", entry.Kind)
	}
	if entry.Transition != domain.TransitionNoChange {
		t.Fatalf("expected no transition fresh to stable, got %v", entry.Transition)
	}
	if tracker.StagedCount() != 0 {
		t.Fatalf("expected staged actions cleared, got %d", tracker.StagedCount())
	}
	if got := entry.FarSide["battleship"]; got != 1 {
		t.Fatalf("expected 1 battleship on far side, got %d", got)
	}
}

func TestTrackerCommitGone(t *testing.T) {
	tracker, err := NewTracker(Config{
		Wormhole:     testWormhole(t, 1000),
		InitialState: domain.StateFresh,
	})
	if err != nil {
		t.Fatalf("expected tracker, got %v", err)
	}

	out := domain.Action{
		Ship:       testBattleship,
		Direction:  domain.DirectionOutbound,
		Mode:       domain.MassModeCustom,
		CustomMass: 600,
	}
	back := domain.Action{
		Ship:       testBattleship,
		Direction:  domain.DirectionInbound,
		Mode:       domain.MassModeCustom,
		CustomMass: 600,
	}
	if err := tracker.Stage(out); err != nil {
		t.Fatalf("expected stage to succeed, got %v", err)
	}
	if err := tracker.Stage(back); err != nil {
		t.Fatalf("expected stage to succeed, got %v", err)
	}

	entry, err := tracker.Commit(domain.StateGone)
	if err != nil {
		t.Fatalf("expected commit to succeed, got %v", err)
	}
	want := domain.MassInterval{Min: 0, Max: 0}
	if entry.Interval != want {
		t.Fatalf("expected collapsed interval %v, got %v", want, entry.Interval)
	}
	if entry.Transition != domain.TransitionCollapse {
		t.Fatalf("expected collapse transition, got %v", entry.Transition)
	}
	if tracker.Status() != StatusCompleted {
		t.Fatalf("expected completed session, got %v", tracker.Status())
	}
	if tracker.Verdict() != VerdictWin {
		t.Fatalf("expected win with empty far side, got %v", tracker.Verdict())
	}

	snap := tracker.Snapshot()
	if snap.Display != domain.GoneSentinel() {
		t.Fatalf("expected gone sentinel display, got %v", snap.Display)
	}

	if err := tracker.Stage(out); !errors.Is(err, ErrCompleted) {
		t.Fatalf("expected ErrCompleted after collapse, got %v", err)
	}
	if _, err := tracker.Commit(domain.StateGone); !errors.Is(err, ErrCompleted) {
		t.Fatalf("expected ErrCompleted after collapse, got %v", err)
	}
}

func TestTrackerCommitGoneStrandedFleet(t *testing.T) {
	tracker, err := NewTracker(Config{
		Wormhole:     testWormhole(t, 1000),
		InitialState: domain.StateFresh,
	})
	if err != nil {
		t.Fatalf("expected tracker, got %v", err)
	}

	out := domain.Action{
		Ship:       testBattleship,
		Direction:  domain.DirectionOutbound,
		Mode:       domain.MassModeCustom,
		CustomMass: 1200,
	}
	if err := tracker.Stage(out); err != nil {
		t.Fatalf("expected stage to succeed, got %v", err)
	}
	if _, err := tracker.Commit(domain.StateGone); err != nil {
		t.Fatalf("expected commit to succeed, got %v", err)
	}
	if tracker.Verdict() != VerdictLoss {
		t.Fatalf("expected loss with stranded far side, got %v", tracker.Verdict())
	}
}

func TestTrackerCommitValidation(t *testing.T) {
	tracker, err := NewTracker(Config{
		Wormhole:     testWormhole(t, 1000),
		InitialState: domain.StateFresh,
	})
	if err != nil {
		t.Fatalf("expected tracker, got %v", err)
	}

	if _, err := tracker.Commit(domain.StateStable); !errors.Is(err, ErrNothingStaged) {
		t.Fatalf("expected ErrNothingStaged, got %v", err)
	}

	if err := tracker.Stage(domain.Action{
		Ship:      testBattleship,
		Direction: domain.DirectionOutbound,
		Mode:      domain.MassModeCold,
	}); err != nil {
		t.Fatalf("expected stage to succeed, got %v", err)
	}
	if _, err := tracker.Commit(domain.StateUnspecified); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestTrackerAllowsAnyDeclaredState(t *testing.T) {
	tracker, err := NewTracker(Config{
		Wormhole:     testWormhole(t, 2000),
		InitialState: domain.StateCritical,
	})
	if err != nil {
		t.Fatalf("expected tracker, got %v", err)
	}

	if err := tracker.Stage(domain.Action{
		Ship:      testBattleship,
		Direction: domain.DirectionInbound,
		Mode:      domain.MassModeCold,
	}); err != nil {
		t.Fatalf("expected stage to succeed, got %v", err)
	}

	entry, err := tracker.Commit(domain.StateStable)
	if err != nil {
		t.Fatalf("expected less severe declaration to be accepted, got %v", err)
	}
	if entry.Transition != domain.TransitionStabilize {
		t.Fatalf("expected stabilize transition, got %v", entry.Transition)
	}
}

func TestNewSessionRejectsGoneStart(t *testing.T) {
	_, err := NewTracker(Config{
		Wormhole:     testWormhole(t, 1000),
		InitialState: domain.StateGone,
	})
	if !errors.Is(err, ErrGoneAtStart) {
		t.Fatalf("expected ErrGoneAtStart, got %v", err)
	}
}

func TestTrackerInitialFarSide(t *testing.T) {
	tracker, err := NewTracker(Config{
		Wormhole:       testWormhole(t, 1000),
		InitialState:   domain.StateStable,
		InitialFarSide: map[string]int{"battleship": 2, "": 3, "shuttle": 0},
	})
	if err != nil {
		t.Fatalf("expected tracker, got %v", err)
	}
	snap := tracker.Snapshot()
	if len(snap.FarSide) != 1 || snap.FarSide["battleship"] != 2 {
		t.Fatalf("expected only 2 battleships on far side, got %v", snap.FarSide)
	}
}
