package engine

import (
	"github.com/anoikis-dev/rollwatch/internal/catalog"
	"github.com/anoikis-dev/rollwatch/internal/rolling/domain"
	"github.com/anoikis-dev/rollwatch/internal/rolling/session"
)

// eventSpec is a default random-event template resolved against the catalog
// at configure time. Ships absent from the catalog drop the event.
type eventSpec struct {
	name        string
	probability float64
	jumps       []eventJump
}

type eventJump struct {
	ship      string
	direction domain.Direction
}

// Third parties roll through other people's holes all the time. Masses are
// always unknown mode: nobody tells you their fit.
var defaultEventSpecs = []eventSpec{
	{
		name:        "passing frigate",
		probability: 0.06,
		jumps: []eventJump{
			{ship: "frigate", direction: domain.DirectionOutbound},
		},
	},
	{
		name:        "scout pair",
		probability: 0.04,
		jumps: []eventJump{
			{ship: "frigate", direction: domain.DirectionOutbound},
			{ship: "frigate", direction: domain.DirectionInbound},
		},
	},
	{
		name:        "hauler run",
		probability: 0.03,
		jumps: []eventJump{
			{ship: "cruiser", direction: domain.DirectionOutbound},
			{ship: "cruiser", direction: domain.DirectionInbound},
		},
	},
	{
		name:        "hostile battleship",
		probability: 0.02,
		jumps: []eventJump{
			{ship: "battleship", direction: domain.DirectionInbound},
		},
	},
}

// defaultEvents resolves the event templates against the catalog. Events
// whose ships exceed the session restriction are still built; the injector
// filters them at roll time.
func defaultEvents(cat *catalog.Catalog) []session.Event {
	var events []session.Event
	for _, spec := range defaultEventSpecs {
		actions := make([]domain.Action, 0, len(spec.jumps))
		resolved := true
		for _, jump := range spec.jumps {
			ship, err := cat.Ship(jump.ship)
			if err != nil {
				resolved = false
				break
			}
			actions = append(actions, domain.Action{
				Ship:      ship.MassProfile(),
				Direction: jump.direction,
				Mode:      domain.MassModeUnknown,
			})
		}
		if !resolved {
			continue
		}
		events = append(events, session.Event{
			Name:        spec.name,
			Probability: spec.probability,
			Actions:     actions,
		})
	}
	return events
}
