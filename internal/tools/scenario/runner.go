package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/anoikis-dev/rollwatch/internal/catalog"
	"github.com/anoikis-dev/rollwatch/internal/rolling/engine"
)

// Config controls scenario execution.
type Config struct {
	Timeout time.Duration
	Verbose bool
	Logger  *log.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{Timeout: 10 * time.Second}
}

// Runner executes Lua scenarios against a rolling engine.
type Runner struct {
	eng     *engine.Engine
	logger  *log.Logger
	verbose bool
	timeout time.Duration
}

// NewRunner prepares a scenario runner over an engine.
func NewRunner(cfg Config, eng *engine.Engine) (*Runner, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Runner{eng: eng, logger: logger, verbose: cfg.Verbose, timeout: timeout}, nil
}

// RunFile loads and executes a scenario file against the embedded catalog.
func RunFile(ctx context.Context, cfg Config, path string) error {
	cat, err := catalog.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	runner, err := NewRunner(cfg, engine.New(cat))
	if err != nil {
		return err
	}

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return runner.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps in order, stopping at the first
// failed operation or expectation.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) runStep(ctx context.Context, step Step) error {
	switch step.Kind {
	case "configure":
		return r.stepConfigure(ctx, step.Args)
	case "stage":
		_, err := r.eng.Stage(ctx, jumpParamsFromArgs(step.Args))
		return err
	case "commit":
		_, _, err := r.eng.Commit(ctx, stringArg(step.Args, "state"))
		return err
	case "jump":
		_, _, err := r.eng.ApplyAction(ctx, jumpParamsFromArgs(step.Args))
		return err
	case "reset":
		return r.eng.Reset(ctx)
	case "expect_state":
		return r.expectState(ctx, stringArg(step.Args, "state"))
	case "expect_interval":
		return r.expectInterval(ctx, floatArg(step.Args, "min"), floatArg(step.Args, "max"))
	case "expect_verdict":
		return r.expectVerdict(ctx, stringArg(step.Args, "verdict"))
	case "expect_far_side":
		return r.expectFarSide(ctx, stringArg(step.Args, "ship"), intArg(step.Args, "count"))
	case "expect_staged":
		return r.expectStaged(ctx, intArg(step.Args, "count"))
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) stepConfigure(ctx context.Context, args map[string]any) error {
	params := engine.ConfigureParams{
		Mode:         stringArg(args, "mode"),
		Wormhole:     stringArg(args, "wormhole"),
		InitialState: stringArg(args, "state"),
	}
	if farSide, ok := args["far_side"].(map[string]any); ok {
		params.InitialFarSide = map[string]int{}
		for ship, raw := range farSide {
			params.InitialFarSide[ship] = toInt(raw)
		}
	}
	if raw, ok := args["seed"]; ok {
		seed := int64(toInt(raw))
		params.Seed = &seed
	}
	_, err := r.eng.Configure(ctx, params)
	return err
}

func (r *Runner) expectState(ctx context.Context, expected string) error {
	snap, err := r.eng.Snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.State.String() != expected {
		return fmt.Errorf("expected state %q, got %q", expected, snap.State.String())
	}
	return nil
}

func (r *Runner) expectInterval(ctx context.Context, min, max float64) error {
	snap, err := r.eng.Snapshot(ctx)
	if err != nil {
		return err
	}
	if !almostEqual(snap.Display.Min, min) || !almostEqual(snap.Display.Max, max) {
		return fmt.Errorf("expected interval [%v, %v], got [%v, %v]",
			min, max, snap.Display.Min, snap.Display.Max)
	}
	return nil
}

func (r *Runner) expectVerdict(ctx context.Context, expected string) error {
	snap, err := r.eng.Snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.Verdict.String() != expected {
		return fmt.Errorf("expected verdict %q, got %q", expected, snap.Verdict.String())
	}
	return nil
}

func (r *Runner) expectFarSide(ctx context.Context, ship string, count int) error {
	snap, err := r.eng.Snapshot(ctx)
	if err != nil {
		return err
	}
	if got := snap.FarSide[ship]; got != count {
		return fmt.Errorf("expected %d %s far side, got %d", count, ship, got)
	}
	return nil
}

func (r *Runner) expectStaged(ctx context.Context, count int) error {
	snap, err := r.eng.Snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.StagedCount != count {
		return fmt.Errorf("expected %d staged actions, got %d", count, snap.StagedCount)
	}
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

func jumpParamsFromArgs(args map[string]any) engine.JumpParams {
	return engine.JumpParams{
		Ship:       stringArg(args, "ship"),
		Direction:  stringArg(args, "direction"),
		Mode:       stringArg(args, "mode"),
		CustomMass: floatArg(args, "mass"),
	}
}

func stringArg(args map[string]any, key string) string {
	if value, ok := args[key].(string); ok {
		return value
	}
	return ""
}

func floatArg(args map[string]any, key string) float64 {
	switch value := args[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	default:
		return 0
	}
}

func intArg(args map[string]any, key string) int {
	return toInt(args[key])
}

func toInt(raw any) int {
	switch value := raw.(type) {
	case int:
		return value
	case float64:
		return int(value)
	default:
		return 0
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
