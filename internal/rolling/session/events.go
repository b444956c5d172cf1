package session

import "github.com/anoikis-dev/rollwatch/internal/rolling/domain"

// Event is an uninvited third-party fleet movement that can interrupt a game
// session. Probability is rolled after every fully resolved player action.
type Event struct {
	Name        string
	Probability float64
	Actions     []domain.Action
}

// valid reports whether every sub-action fits the session's ship size
// restriction. Events with oversized ships can never fire on that hole.
func (e Event) valid(restriction int) bool {
	if len(e.Actions) == 0 {
		return false
	}
	for _, action := range e.Actions {
		if action.Ship.SizeClass > restriction {
			return false
		}
	}
	return true
}

// EventOutcome summarizes one fired event: which sub-actions resolved and
// whether the hole collapsed under them.
type EventOutcome struct {
	Name      string
	Processed int
	Skipped   int
	Entry     LedgerEntry
	Collapsed bool
	Verdict   Verdict
	FlavorKey string
}

// maybeInjectEvent rolls every configured event once. If several trigger, one
// is picked uniformly. At most one event fires per session; its sub-actions
// resolve sequentially and stop as soon as the hole collapses, with the
// remainder counted as skipped.
func (g *Game) maybeInjectEvent() (*EventOutcome, error) {
	if g.eventOccurred || len(g.events) == 0 {
		return nil, nil
	}

	var triggered []Event
	for _, event := range g.events {
		if !event.valid(g.restriction) {
			continue
		}
		if g.rng.Float64() < event.Probability {
			triggered = append(triggered, event)
		}
	}
	if len(triggered) == 0 {
		return nil, nil
	}
	event := triggered[g.rng.IntN(len(triggered))]
	g.eventOccurred = true

	outcome := EventOutcome{Name: event.Name}
	before := g.state
	var (
		records   []ActionRecord
		batchMass float64
	)
	for _, action := range event.Actions {
		if g.state == domain.StateGone {
			outcome.Skipped++
			continue
		}
		if _, err := g.resolve(action); err != nil {
			return nil, err
		}
		records = append(records, recordAction(action))
		batchMass += action.EstimatedMass()
		outcome.Processed++
	}

	entry := LedgerEntry{
		Seq:        len(g.entries) + 1,
		Kind:       EntryEvent,
		Actions:    records,
		Interval:   g.displayFor(g.state),
		State:      g.state,
		Transition: domain.ClassifyTransition(before, g.state),
		BatchMass:  batchMass,
		TotalMass:  g.totalMass,
		FarSide:    g.fleet.Snapshot(),
		EventName:  event.Name,
		Processed:  outcome.Processed,
		Skipped:    outcome.Skipped,
	}
	g.entries = append(g.entries, entry)
	outcome.Entry = entry

	if g.state == domain.StateGone {
		g.complete()
		outcome.Collapsed = true
		outcome.Verdict = g.verdict
		outcome.FlavorKey = g.flavorKey
	}
	return &outcome, nil
}
