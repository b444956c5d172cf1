package server

import (
	"strings"

	"github.com/anoikis-dev/rollwatch/internal/catalog"
	i18ncatalog "github.com/anoikis-dev/rollwatch/internal/platform/i18n/catalog"
	"github.com/anoikis-dev/rollwatch/internal/rolling/domain"
	"github.com/anoikis-dev/rollwatch/internal/rolling/session"
)

// View types are the JSON wire shapes. They carry only plain data plus the
// localized messages resolved for the connection's locale.

type intervalView struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type actionRecordView struct {
	Ship          string  `json:"ship"`
	ShipName      string  `json:"ship_name"`
	Direction     string  `json:"direction"`
	Mode          string  `json:"mode"`
	CustomMass    float64 `json:"custom_mass,omitempty"`
	EstimatedMass float64 `json:"estimated_mass"`
}

type ledgerEntryView struct {
	Seq               int                `json:"seq"`
	Kind              string             `json:"kind"`
	Actions           []actionRecordView `json:"actions"`
	Interval          intervalView       `json:"interval"`
	State             string             `json:"state"`
	Transition        string             `json:"transition"`
	TransitionMessage string             `json:"transition_message,omitempty"`
	BatchMass         float64            `json:"batch_mass"`
	TotalMass         float64            `json:"total_mass"`
	FarSide           map[string]int     `json:"far_side,omitempty"`
	Event             string             `json:"event,omitempty"`
	Processed         int                `json:"processed,omitempty"`
	Skipped           int                `json:"skipped,omitempty"`
}

type sessionSnapshotView struct {
	Mode                string            `json:"mode"`
	Status              string            `json:"status"`
	State               string            `json:"state"`
	Display             intervalView      `json:"display"`
	Verdict             string            `json:"verdict,omitempty"`
	VerdictMessage      string            `json:"verdict_message,omitempty"`
	FarSide             map[string]int    `json:"far_side,omitempty"`
	StagedCount         int               `json:"staged_count,omitempty"`
	TotalMass           float64           `json:"total_mass"`
	RandomEventOccurred bool              `json:"random_event_occurred,omitempty"`
	Entries             []ledgerEntryView `json:"entries,omitempty"`
}

type committedView struct {
	Entry    ledgerEntryView     `json:"entry"`
	Snapshot sessionSnapshotView `json:"snapshot"`
}

type resolvedEventView struct {
	Name      string          `json:"name"`
	Processed int             `json:"processed"`
	Skipped   int             `json:"skipped"`
	Entry     ledgerEntryView `json:"entry"`
}

type actionResultView struct {
	Entry      ledgerEntryView     `json:"entry"`
	Transition string              `json:"transition"`
	Collapsed  bool                `json:"collapsed,omitempty"`
	Event      *resolvedEventView  `json:"event,omitempty"`
	Snapshot   sessionSnapshotView `json:"snapshot"`
}

type ledgerView struct {
	Entries []ledgerEntryView `json:"entries"`
}

type shipView struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	ColdMass  float64 `json:"cold_mass"`
	HotMass   float64 `json:"hot_mass"`
	SizeClass int     `json:"size_class"`
}

type wormholeView struct {
	Code        string  `json:"code"`
	Capacity    float64 `json:"capacity"`
	Restriction int     `json:"restriction"`
	Description string  `json:"description,omitempty"`
}

type catalogListView struct {
	Ships     []shipView     `json:"ships"`
	Wormholes []wormholeView `json:"wormholes"`
}

func newIntervalView(interval domain.MassInterval) intervalView {
	return intervalView{Min: interval.Min, Max: interval.Max}
}

func entryView(entry session.LedgerEntry, bundle *i18ncatalog.Bundle, locale string) ledgerEntryView {
	actions := make([]actionRecordView, 0, len(entry.Actions))
	for _, record := range entry.Actions {
		actions = append(actions, actionRecordView{
			Ship:          record.ShipKey,
			ShipName:      record.ShipName,
			Direction:     record.Direction.String(),
			Mode:          record.Mode.String(),
			CustomMass:    record.CustomMass,
			EstimatedMass: record.EstimatedMass,
		})
	}
	return ledgerEntryView{
		Seq:               entry.Seq,
		Kind:              entry.Kind.String(),
		Actions:           actions,
		Interval:          newIntervalView(entry.Interval),
		State:             entry.State.String(),
		Transition:        entry.Transition.String(),
		TransitionMessage: transitionMessage(bundle, locale, entry.Transition),
		BatchMass:         entry.BatchMass,
		TotalMass:         entry.TotalMass,
		FarSide:           entry.FarSide,
		Event:             entry.EventName,
		Processed:         entry.Processed,
		Skipped:           entry.Skipped,
	}
}

func snapshotView(snap session.Snapshot, bundle *i18ncatalog.Bundle, locale string) sessionSnapshotView {
	entries := make([]ledgerEntryView, 0, len(snap.Entries))
	for _, entry := range snap.Entries {
		entries = append(entries, entryView(entry, bundle, locale))
	}
	view := sessionSnapshotView{
		Mode:                snap.Mode.String(),
		Status:              snap.Status.String(),
		State:               snap.State.String(),
		Display:             newIntervalView(snap.Display),
		FarSide:             snap.FarSide,
		StagedCount:         snap.StagedCount,
		TotalMass:           snap.TotalMass,
		RandomEventOccurred: snap.RandomEventOccurred,
		Entries:             entries,
	}
	if snap.Verdict != session.VerdictPending {
		view.Verdict = snap.Verdict.String()
		view.VerdictMessage = verdictMessage(bundle, locale, snap.Verdict, snap.FlavorKey)
	}
	return view
}

func resolvedView(result session.ActionResult, snap session.Snapshot, bundle *i18ncatalog.Bundle, locale string) actionResultView {
	view := actionResultView{
		Entry:      entryView(result.Entry, bundle, locale),
		Transition: result.Transition.String(),
		Collapsed:  result.Collapsed,
		Snapshot:   snapshotView(snap, bundle, locale),
	}
	if result.Event != nil {
		view.Event = &resolvedEventView{
			Name:      result.Event.Name,
			Processed: result.Event.Processed,
			Skipped:   result.Event.Skipped,
			Entry:     entryView(result.Event.Entry, bundle, locale),
		}
	}
	return view
}

func catalogView(cat *catalog.Catalog) catalogListView {
	view := catalogListView{}
	for _, ship := range cat.Ships() {
		view.Ships = append(view.Ships, shipView{
			Key:       ship.Key,
			Name:      ship.Name,
			ColdMass:  ship.ColdMass,
			HotMass:   ship.HotMass,
			SizeClass: ship.SizeClass,
		})
	}
	for _, wormhole := range cat.Wormholes() {
		view.Wormholes = append(view.Wormholes, wormholeView{
			Code:        wormhole.Code,
			Capacity:    wormhole.Capacity,
			Restriction: wormhole.Restriction,
			Description: wormhole.Description,
		})
	}
	return view
}

// transitionMessage resolves the localized narration for a transition. The
// catalog keys use underscores where the enum uses hyphens.
func transitionMessage(bundle *i18ncatalog.Bundle, locale string, transition domain.Transition) string {
	if bundle == nil {
		return ""
	}
	key := "transition." + strings.ReplaceAll(transition.String(), "-", "_")
	message, ok := bundle.Message(locale, key)
	if !ok {
		return ""
	}
	return message
}

func verdictMessage(bundle *i18ncatalog.Bundle, locale string, verdict session.Verdict, flavorKey string) string {
	if bundle == nil {
		return ""
	}
	if flavorKey != "" {
		if message, ok := bundle.Message(locale, flavorKey); ok {
			return message
		}
	}
	message, ok := bundle.Message(locale, "verdict."+verdict.String())
	if !ok {
		return ""
	}
	return message
}
