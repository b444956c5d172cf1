package session

import (
	"github.com/anoikis-dev/rollwatch/internal/rolling/domain"
)

// Tracker is the manual session mode: the operator has full knowledge of
// every past transit and works purely on bounded intervals. Actions are
// staged without mass effect and applied in order on commit, with the state
// declared explicitly by the caller.
type Tracker struct {
	wormhole  domain.WormholeProfile
	state     domain.WormholeState
	interval  domain.MassInterval
	staged    []domain.Action
	fleet     domain.FarSideFleet
	entries   []LedgerEntry
	totalMass float64
	status    Status
	verdict   Verdict
}

// NewTracker starts a tracking session on a configured wormhole.
func NewTracker(cfg Config) (*Tracker, error) {
	state, err := normalizeInitialState(cfg.InitialState)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		wormhole: cfg.Wormhole,
		state:    state,
		interval: cfg.Wormhole.DisplayRange(state).Rounded(),
		fleet:    domain.NewFarSideFleet(cfg.InitialFarSide),
		status:   StatusTracking,
	}, nil
}

// Mode implements Session.
func (t *Tracker) Mode() Mode { return ModeTracker }

// Status implements Session.
func (t *Tracker) Status() Status { return t.status }

// Verdict implements Session.
func (t *Tracker) Verdict() Verdict { return t.verdict }

// Stage queues an action with no mass effect until the next commit.
func (t *Tracker) Stage(action domain.Action) error {
	if t.status == StatusCompleted {
		return ErrCompleted
	}
	if err := action.Validate(); err != nil {
		return err
	}
	t.staged = append(t.staged, action)
	return nil
}

// StagedCount returns the number of queued actions.
func (t *Tracker) StagedCount() int { return len(t.staged) }

// Commit applies all staged actions in order to the last committed interval,
// raw and unclamped, then clamps the final result once to the declared
// state's boundaries. The engine accepts any declared state; severity
// ordering is a presentation concern.
//
// Declaring gone completes the session: the verdict is a win exactly when
// the far-side ledger is empty at that moment.
func (t *Tracker) Commit(declared domain.WormholeState) (LedgerEntry, error) {
	if t.status == StatusCompleted {
		return LedgerEntry{}, ErrCompleted
	}
	if declared == domain.StateUnspecified {
		return LedgerEntry{}, domain.ErrInvalidState
	}
	if len(t.staged) == 0 {
		return LedgerEntry{}, ErrNothingStaged
	}

	interval := t.interval
	records := make([]ActionRecord, 0, len(t.staged))
	batchMass := 0.0
	for _, action := range t.staged {
		next, err := domain.ApplyRaw(interval, action)
		if err != nil {
			return LedgerEntry{}, err
		}
		interval = next
		batchMass += action.EstimatedMass()
		t.fleet.RecordTransit(action.Ship.Key, action.Direction)
		records = append(records, recordAction(action))
	}

	interval = interval.Intersect(t.wormhole.StateBoundaries(declared)).Rounded()
	t.totalMass += batchMass

	entry := LedgerEntry{
		Seq:        len(t.entries) + 1,
		Kind:       EntryBatch,
		Actions:    records,
		Interval:   interval,
		State:      declared,
		Transition: domain.ClassifyTransition(t.state, declared),
		BatchMass:  batchMass,
		TotalMass:  t.totalMass,
		FarSide:    t.fleet.Snapshot(),
	}
	t.entries = append(t.entries, entry)
	t.interval = interval
	t.state = declared
	t.staged = nil

	if declared == domain.StateGone {
		t.status = StatusCompleted
		if t.fleet.Empty() {
			t.verdict = VerdictWin
		} else {
			t.verdict = VerdictLoss
		}
	}
	return entry, nil
}

// Snapshot implements Session.
func (t *Tracker) Snapshot() Snapshot {
	display := t.interval
	if t.state == domain.StateGone {
		display = domain.GoneSentinel()
	}
	return Snapshot{
		Mode:        ModeTracker,
		Status:      t.status,
		State:       t.state,
		Display:     display,
		Verdict:     t.verdict,
		FarSide:     t.fleet.Snapshot(),
		StagedCount: len(t.staged),
		TotalMass:   t.totalMass,
		Entries:     copyEntries(t.entries),
	}
}
