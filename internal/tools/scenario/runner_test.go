package scenario

import (
	"context"
	"strings"
	"testing"

	"github.com/anoikis-dev/rollwatch/internal/catalog"
	"github.com/anoikis-dev/rollwatch/internal/rolling/engine"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	cat, err := catalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	runner, err := NewRunner(DefaultConfig(), engine.New(cat))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner
}

func TestNewRunnerRequiresEngine(t *testing.T) {
	if _, err := NewRunner(DefaultConfig(), nil); err == nil {
		t.Fatal("expected error for nil engine")
	}
}

func TestRunScenarioTrackerFlow(t *testing.T) {
	runner := newTestRunner(t)
	path := writeScenarioFixture(t, `local scene = Scenario.new("tracker flow")
scene:configure({wormhole = "N770"})
scene:expect_state("fresh")
scene:expect_interval(2700, 3300)
scene:stage({ship = "rolling-battleship", direction = "outbound", mode = "unknown"})
scene:expect_staged(1)
scene:commit("stable")
scene:expect_state("stable")
scene:expect_interval(2550, 3200)
scene:expect_far_side("rolling-battleship", 1)
return scene
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioGameCollapse(t *testing.T) {
	runner := newTestRunner(t)
	path := writeScenarioFixture(t, `local scene = Scenario.new("forced collapse")
scene:configure({mode = "game", wormhole = "E004", seed = 12})
scene:jump({ship = "destroyer", direction = "outbound", mode = "custom", mass = 200})
scene:expect_state("gone")
scene:expect_verdict("loss")
scene:expect_interval(-5000, 0)
return scene
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioReportsFailedExpectation(t *testing.T) {
	runner := newTestRunner(t)
	path := writeScenarioFixture(t, `local scene = Scenario.new("wrong expectation")
scene:configure({wormhole = "N770"})
scene:expect_state("critical")
return scene
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	err = runner.RunScenario(context.Background(), scenario)
	if err == nil {
		t.Fatal("expected expectation failure")
	}
	if !strings.Contains(err.Error(), "step 2 (expect_state)") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunScenarioUnknownStep(t *testing.T) {
	runner := newTestRunner(t)
	err := runner.RunScenario(context.Background(), &Scenario{
		Name:  "bad",
		Steps: []Step{{Kind: "warp"}},
	})
	if err == nil {
		t.Fatal("expected error for unknown step kind")
	}
}

func TestRunFileMissingScript(t *testing.T) {
	if err := RunFile(context.Background(), DefaultConfig(), "absent.lua"); err == nil {
		t.Fatal("expected error for missing scenario file")
	}
}
