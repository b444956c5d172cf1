// Package scenario executes scripted rolling sessions written in Lua. A
// script builds a Scenario value by calling methods on a userdata handle and
// returns it; the runner then replays the steps against an engine and checks
// the declared expectations.
package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is an ordered list of steps parsed from a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted operation or expectation.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile parses a Lua script into a Scenario. The script must
// return the value built with Scenario.new.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerLuaTypes(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "configure", Function: scenarioConfigure},
	{Name: "stage", Function: scenarioStage},
	{Name: "commit", Function: scenarioCommit},
	{Name: "jump", Function: scenarioJump},
	{Name: "reset", Function: scenarioReset},
	{Name: "expect_state", Function: scenarioExpectState},
	{Name: "expect_interval", Function: scenarioExpectInterval},
	{Name: "expect_verdict", Function: scenarioExpectVerdict},
	{Name: "expect_far_side", Function: scenarioExpectFarSide},
	{Name: "expect_staged", Function: scenarioExpectStaged},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

func scenarioConfigure(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "configure", tableToMap(state, 2))
	return 0
}

func scenarioStage(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "stage", tableToMap(state, 2))
	return 0
}

func scenarioCommit(state *lua.State) int {
	scenario := checkScenario(state)
	declared := lua.CheckString(state, 2)
	appendStep(scenario, "commit", map[string]any{"state": declared})
	return 0
}

func scenarioJump(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "jump", tableToMap(state, 2))
	return 0
}

func scenarioReset(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "reset", nil)
	return 0
}

func scenarioExpectState(state *lua.State) int {
	scenario := checkScenario(state)
	expected := lua.CheckString(state, 2)
	appendStep(scenario, "expect_state", map[string]any{"state": expected})
	return 0
}

func scenarioExpectInterval(state *lua.State) int {
	scenario := checkScenario(state)
	min := lua.CheckNumber(state, 2)
	max := lua.CheckNumber(state, 3)
	appendStep(scenario, "expect_interval", map[string]any{"min": min, "max": max})
	return 0
}

func scenarioExpectVerdict(state *lua.State) int {
	scenario := checkScenario(state)
	expected := lua.CheckString(state, 2)
	appendStep(scenario, "expect_verdict", map[string]any{"verdict": expected})
	return 0
}

func scenarioExpectFarSide(state *lua.State) int {
	scenario := checkScenario(state)
	ship := lua.CheckString(state, 2)
	count := int(lua.CheckNumber(state, 3))
	appendStep(scenario, "expect_far_side", map[string]any{"ship": ship, "count": count})
	return 0
}

func scenarioExpectStaged(state *lua.State) int {
	scenario := checkScenario(state)
	count := int(lua.CheckNumber(state, 2))
	appendStep(scenario, "expect_staged", map[string]any{"count": count})
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToMap(state, index)
	default:
		return nil
	}
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
