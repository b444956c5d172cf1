package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScenarioFixture(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.lua")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

func TestLoadScenarioBuildsSteps(t *testing.T) {
	path := writeScenarioFixture(t, `local scene = Scenario.new("tracker run")
scene:configure({wormhole = "N770", far_side = {battleship = 2}})
scene:stage({ship = "rolling-battleship", direction = "outbound", mode = "unknown"})
scene:expect_staged(1)
scene:commit("stable")
scene:expect_state("stable")
scene:expect_interval(2550, 3200)
return scene
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "tracker run" {
		t.Fatalf("name = %q, want %q", scenario.Name, "tracker run")
	}
	if len(scenario.Steps) != 6 {
		t.Fatalf("steps = %d, want %d", len(scenario.Steps), 6)
	}

	configure := scenario.Steps[0]
	if configure.Kind != "configure" {
		t.Fatalf("step kind = %q, want configure", configure.Kind)
	}
	if configure.Args["wormhole"] != "N770" {
		t.Fatalf("wormhole = %v, want N770", configure.Args["wormhole"])
	}
	farSide, ok := configure.Args["far_side"].(map[string]any)
	if !ok {
		t.Fatalf("far_side = %T, want table", configure.Args["far_side"])
	}
	if farSide["battleship"] != 2 {
		t.Fatalf("far_side battleship = %v, want 2", farSide["battleship"])
	}

	stage := scenario.Steps[1]
	if stage.Kind != "stage" || stage.Args["mode"] != "unknown" {
		t.Fatalf("unexpected stage step: %+v", stage)
	}

	interval := scenario.Steps[5]
	if interval.Kind != "expect_interval" {
		t.Fatalf("step kind = %q, want expect_interval", interval.Kind)
	}
	if interval.Args["min"] != 2550 || interval.Args["max"] != 3200 {
		t.Fatalf("interval args = %v", interval.Args)
	}
}

func TestLoadScenarioDefaultsNameFromFile(t *testing.T) {
	path := writeScenarioFixture(t, `local scene = Scenario.new()
scene:reset()
return scene
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "scenario" {
		t.Fatalf("name = %q, want %q", scenario.Name, "scenario")
	}
}

func TestLoadScenarioRejectsNonScenarioReturn(t *testing.T) {
	path := writeScenarioFixture(t, `return 42`)
	if _, err := LoadScenarioFromFile(path); err == nil {
		t.Fatal("expected error for non-scenario return value")
	}
}

func TestLoadScenarioRejectsBrokenScript(t *testing.T) {
	path := writeScenarioFixture(t, `this is not lua`)
	if _, err := LoadScenarioFromFile(path); err == nil {
		t.Fatal("expected error for invalid lua")
	}
}

func TestLoadScenarioFractionalNumbers(t *testing.T) {
	path := writeScenarioFixture(t, `local scene = Scenario.new("custom")
scene:jump({ship = "frigate", direction = "inbound", mode = "custom", mass = 2.5})
return scene
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Steps[0].Args["mass"] != 2.5 {
		t.Fatalf("mass = %v, want 2.5", scenario.Steps[0].Args["mass"])
	}
}
