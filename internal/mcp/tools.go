package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	i18ncatalog "github.com/anoikis-dev/rollwatch/internal/platform/i18n/catalog"
	"github.com/anoikis-dev/rollwatch/internal/rolling/domain"
	"github.com/anoikis-dev/rollwatch/internal/rolling/engine"
	"github.com/anoikis-dev/rollwatch/internal/rolling/session"
)

// ConfigureInput starts a new session, replacing any active one.
type ConfigureInput struct {
	Mode         string         `json:"mode,omitempty" jsonschema:"session mode, tracker or game (default tracker)"`
	Wormhole     string         `json:"wormhole" jsonschema:"wormhole catalog code, e.g. K162"`
	InitialState string         `json:"initial_state,omitempty" jsonschema:"starting state: fresh, stable, destab or critical (default fresh)"`
	FarSide      map[string]int `json:"far_side,omitempty" jsonschema:"initial far-side fleet counts keyed by ship"`
	Seed         *int64         `json:"seed,omitempty" jsonschema:"optional seed for a reproducible game session"`
}

// JumpInput describes one transit through the wormhole.
type JumpInput struct {
	Ship       string  `json:"ship" jsonschema:"ship catalog key, e.g. rolling-battleship"`
	Direction  string  `json:"direction" jsonschema:"outbound or inbound"`
	Mode       string  `json:"mode" jsonschema:"mass mode: cold, hot, unknown or custom"`
	CustomMass float64 `json:"custom_mass,omitempty" jsonschema:"exact mass in Gg, required for custom mode"`
}

// CommitInput resolves the staged batch against an observed state.
type CommitInput struct {
	State string `json:"state" jsonschema:"observed wormhole state after the batch"`
}

// LedgerInput selects ledger entries with an optional filter expression.
type LedgerInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"AIP-160 filter, e.g. kind = \"event\" AND total_mass > 300.0"`
}

// EmptyInput is used by tools that take no arguments.
type EmptyInput struct{}

// IntervalOutput is a closed mass range in gigagrams.
type IntervalOutput struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ActionOutput is one recorded transit within a ledger entry.
type ActionOutput struct {
	Ship          string  `json:"ship"`
	ShipName      string  `json:"ship_name"`
	Direction     string  `json:"direction"`
	Mode          string  `json:"mode"`
	EstimatedMass float64 `json:"estimated_mass"`
}

// EntryOutput is one ledger entry.
type EntryOutput struct {
	Seq               int            `json:"seq"`
	Kind              string         `json:"kind"`
	Actions           []ActionOutput `json:"actions"`
	Interval          IntervalOutput `json:"interval"`
	State             string         `json:"state"`
	Transition        string         `json:"transition"`
	TransitionMessage string         `json:"transition_message,omitempty"`
	BatchMass         float64        `json:"batch_mass"`
	TotalMass         float64        `json:"total_mass"`
	FarSide           map[string]int `json:"far_side,omitempty"`
	EventName         string         `json:"event_name,omitempty"`
	Processed         int            `json:"processed,omitempty"`
	Skipped           int            `json:"skipped,omitempty"`
}

// SessionOutput is the transport view of a session.
type SessionOutput struct {
	Mode           string         `json:"mode"`
	Status         string         `json:"status"`
	State          string         `json:"state"`
	Display        IntervalOutput `json:"display"`
	Verdict        string         `json:"verdict,omitempty"`
	VerdictMessage string         `json:"verdict_message,omitempty"`
	FarSide        map[string]int `json:"far_side,omitempty"`
	StagedCount    int            `json:"staged_count"`
	TotalMass      float64        `json:"total_mass"`
	EventOccurred  bool           `json:"event_occurred"`
}

// CommitOutput pairs the committed entry with the resulting session view.
type CommitOutput struct {
	Entry   EntryOutput   `json:"entry"`
	Session SessionOutput `json:"session"`
}

// EventOutput summarizes a random event resolved during a jump.
type EventOutput struct {
	Name      string      `json:"name"`
	Processed int         `json:"processed"`
	Skipped   int         `json:"skipped"`
	Entry     EntryOutput `json:"entry"`
	Collapsed bool        `json:"collapsed"`
}

// JumpOutput is the result of a resolved game action.
type JumpOutput struct {
	Entry     EntryOutput   `json:"entry"`
	Collapsed bool          `json:"collapsed"`
	Event     *EventOutput  `json:"event,omitempty"`
	Session   SessionOutput `json:"session"`
}

// LedgerOutput lists matching ledger entries.
type LedgerOutput struct {
	Entries []EntryOutput `json:"entries"`
	Total   int           `json:"total"`
}

// ResetOutput acknowledges a cleared session.
type ResetOutput struct {
	Reset bool `json:"reset"`
}

func registerTools(server *mcp.Server, eng *engine.Engine, bundle *i18ncatalog.Bundle) {
	views := newViewBuilder(bundle)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "roll_configure",
		Description: "Start a rolling session on a wormhole. Tracker mode follows real jumps; game mode simulates a hole with hidden mass.",
	}, configureHandler(eng, views))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "roll_stage",
		Description: "Stage a jump in the current tracker batch without resolving it.",
	}, stageHandler(eng, views))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "roll_commit",
		Description: "Commit the staged tracker batch against the wormhole state observed after jumping.",
	}, commitHandler(eng, views))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "roll_jump",
		Description: "Resolve a jump immediately in game mode. Returns the ledger entry, any random event and the updated session.",
	}, jumpHandler(eng, views))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "roll_snapshot",
		Description: "Read the current session state without changing it.",
	}, snapshotHandler(eng, views))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "roll_ledger",
		Description: "Query the session ledger with an optional AIP-160 filter over seq, kind, state, transition, event, batch_mass, total_mass, processed and skipped.",
	}, ledgerHandler(eng, views))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "roll_reset",
		Description: "Discard the active session.",
	}, resetHandler(eng))
}

func configureHandler(eng *engine.Engine, views viewBuilder) mcp.ToolHandlerFor[ConfigureInput, SessionOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConfigureInput) (*mcp.CallToolResult, SessionOutput, error) {
		snap, err := eng.Configure(ctx, engine.ConfigureParams{
			Mode:           input.Mode,
			Wormhole:       input.Wormhole,
			InitialState:   input.InitialState,
			InitialFarSide: input.FarSide,
			Seed:           input.Seed,
		})
		if err != nil {
			return nil, SessionOutput{}, err
		}
		return nil, views.session(snap), nil
	}
}

func stageHandler(eng *engine.Engine, views viewBuilder) mcp.ToolHandlerFor[JumpInput, SessionOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input JumpInput) (*mcp.CallToolResult, SessionOutput, error) {
		snap, err := eng.Stage(ctx, jumpParams(input))
		if err != nil {
			return nil, SessionOutput{}, err
		}
		return nil, views.session(snap), nil
	}
}

func commitHandler(eng *engine.Engine, views viewBuilder) mcp.ToolHandlerFor[CommitInput, CommitOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CommitInput) (*mcp.CallToolResult, CommitOutput, error) {
		entry, snap, err := eng.Commit(ctx, input.State)
		if err != nil {
			return nil, CommitOutput{}, err
		}
		return nil, CommitOutput{Entry: views.entry(entry), Session: views.session(snap)}, nil
	}
}

func jumpHandler(eng *engine.Engine, views viewBuilder) mcp.ToolHandlerFor[JumpInput, JumpOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input JumpInput) (*mcp.CallToolResult, JumpOutput, error) {
		result, snap, err := eng.ApplyAction(ctx, jumpParams(input))
		if err != nil {
			return nil, JumpOutput{}, err
		}
		output := JumpOutput{
			Entry:     views.entry(result.Entry),
			Collapsed: result.Collapsed,
			Session:   views.session(snap),
		}
		if result.Event != nil {
			output.Event = &EventOutput{
				Name:      result.Event.Name,
				Processed: result.Event.Processed,
				Skipped:   result.Event.Skipped,
				Entry:     views.entry(result.Event.Entry),
				Collapsed: result.Event.Collapsed,
			}
		}
		return nil, output, nil
	}
}

func snapshotHandler(eng *engine.Engine, views viewBuilder) mcp.ToolHandlerFor[EmptyInput, SessionOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, SessionOutput, error) {
		snap, err := eng.Snapshot(ctx)
		if err != nil {
			return nil, SessionOutput{}, err
		}
		return nil, views.session(snap), nil
	}
}

func ledgerHandler(eng *engine.Engine, views viewBuilder) mcp.ToolHandlerFor[LedgerInput, LedgerOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LedgerInput) (*mcp.CallToolResult, LedgerOutput, error) {
		entries, err := eng.QueryLedger(ctx, input.Filter)
		if err != nil {
			return nil, LedgerOutput{}, err
		}
		output := LedgerOutput{Entries: make([]EntryOutput, 0, len(entries)), Total: len(entries)}
		for _, entry := range entries {
			output.Entries = append(output.Entries, views.entry(entry))
		}
		return nil, output, nil
	}
}

func resetHandler(eng *engine.Engine) mcp.ToolHandlerFor[EmptyInput, ResetOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, ResetOutput, error) {
		if err := eng.Reset(ctx); err != nil {
			return nil, ResetOutput{}, err
		}
		return nil, ResetOutput{Reset: true}, nil
	}
}

func jumpParams(input JumpInput) engine.JumpParams {
	return engine.JumpParams{
		Ship:       input.Ship,
		Direction:  input.Direction,
		Mode:       input.Mode,
		CustomMass: input.CustomMass,
	}
}

// viewBuilder renders domain values with localized messages from the
// embedded catalog. The MCP surface always uses the base locale.
type viewBuilder struct {
	bundle *i18ncatalog.Bundle
}

func newViewBuilder(bundle *i18ncatalog.Bundle) viewBuilder {
	return viewBuilder{bundle: bundle}
}

func (v viewBuilder) session(snap session.Snapshot) SessionOutput {
	output := SessionOutput{
		Mode:          snap.Mode.String(),
		Status:        snap.Status.String(),
		State:         snap.State.String(),
		Display:       IntervalOutput{Min: snap.Display.Min, Max: snap.Display.Max},
		FarSide:       snap.FarSide,
		StagedCount:   snap.StagedCount,
		TotalMass:     snap.TotalMass,
		EventOccurred: snap.RandomEventOccurred,
	}
	if snap.Verdict != session.VerdictPending {
		output.Verdict = snap.Verdict.String()
		output.VerdictMessage = v.verdictMessage(snap.Verdict, snap.FlavorKey)
	}
	return output
}

func (v viewBuilder) entry(entry session.LedgerEntry) EntryOutput {
	actions := make([]ActionOutput, 0, len(entry.Actions))
	for _, action := range entry.Actions {
		actions = append(actions, ActionOutput{
			Ship:          action.ShipKey,
			ShipName:      action.ShipName,
			Direction:     action.Direction.String(),
			Mode:          action.Mode.String(),
			EstimatedMass: action.EstimatedMass,
		})
	}
	return EntryOutput{
		Seq:               entry.Seq,
		Kind:              entry.Kind.String(),
		Actions:           actions,
		Interval:          IntervalOutput{Min: entry.Interval.Min, Max: entry.Interval.Max},
		State:             entry.State.String(),
		Transition:        entry.Transition.String(),
		TransitionMessage: v.transitionMessage(entry.Transition),
		BatchMass:         entry.BatchMass,
		TotalMass:         entry.TotalMass,
		FarSide:           entry.FarSide,
		EventName:         entry.EventName,
		Processed:         entry.Processed,
		Skipped:           entry.Skipped,
	}
}

func (v viewBuilder) transitionMessage(transition domain.Transition) string {
	key := "transition." + strings.ReplaceAll(transition.String(), "-", "_")
	message, ok := v.bundle.Message(i18ncatalog.BaseLocale, key)
	if !ok {
		return ""
	}
	return message
}

func (v viewBuilder) verdictMessage(verdict session.Verdict, flavorKey string) string {
	if flavorKey != "" {
		if message, ok := v.bundle.Message(i18ncatalog.BaseLocale, flavorKey); ok {
			return message
		}
	}
	message, ok := v.bundle.Message(i18ncatalog.BaseLocale, "verdict."+verdict.String())
	if !ok {
		return ""
	}
	return message
}
