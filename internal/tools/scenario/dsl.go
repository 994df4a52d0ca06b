// Package scenario runs Lua scripts that drive the instructor command loop
// and assert on its output.
//
// A script builds a Scenario and returns it:
//
//	local s = Scenario.new("d7")
//	s:set_dice({6, 12}):calc(7)
//	s:expect_contains("1) Roll 1d6 and 1d12.")
//	return s
package scenario

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/dice-instructor/internal/instructor"
	"github.com/louisbranch/dice-instructor/internal/settings"
)

const scenarioTypeName = "scenario"

// Step kinds.
const (
	StepCommand           = "command"
	StepExpectContains    = "expect_contains"
	StepExpectNotContains = "expect_not_contains"
	StepExpectError       = "expect_error"
)

// Scenario is an ordered list of steps.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one command or assertion.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs the Lua script at path and returns the Scenario
// it builds. Scenarios without a name take the file name.
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
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: scenarioNew}}, 0)
	state.SetGlobal("Scenario")
}

func scenarioNew(state *lua.State) int {
	scenario := &Scenario{Name: lua.OptString(state, 1, "")}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "set_dice", Function: scenarioSetDice},
	{Name: "set_max_rolls", Function: scenarioSetMaxRolls},
	{Name: "calc", Function: scenarioCalc},
	{Name: "roll", Function: scenarioRoll},
	{Name: "show", Function: scenarioShow},
	{Name: "command", Function: scenarioCommand},
	{Name: "expect_contains", Function: scenarioExpectContains},
	{Name: "expect_not_contains", Function: scenarioExpectNotContains},
	{Name: "expect_error", Function: scenarioExpectError},
}

// scenarioSetDice accepts a list of side counts or a comma separated string.
func scenarioSetDice(state *lua.State) int {
	scenario := checkScenario(state)
	var list string
	if state.TypeOf(2) == lua.TypeTable {
		list = settings.FormatDiceList(checkIntList(state, 2))
	} else {
		list = lua.CheckString(state, 2)
	}
	return appendCommand(state, scenario, instructor.CommandSetDice+" "+list)
}

func scenarioSetMaxRolls(state *lua.State) int {
	scenario := checkScenario(state)
	count := lua.CheckInteger(state, 2)
	return appendCommand(state, scenario, instructor.CommandSetMaxRollCount+" "+strconv.Itoa(count))
}

func scenarioCalc(state *lua.State) int {
	scenario := checkScenario(state)
	target := lua.CheckInteger(state, 2)
	return appendCommand(state, scenario, instructor.CommandCalc+" "+strconv.Itoa(target))
}

func scenarioRoll(state *lua.State) int {
	scenario := checkScenario(state)
	line := instructor.CommandRoll + " " + strconv.Itoa(lua.CheckInteger(state, 2))
	if !state.IsNoneOrNil(3) {
		line += " " + strconv.Itoa(lua.CheckInteger(state, 3))
	}
	return appendCommand(state, scenario, line)
}

func scenarioShow(state *lua.State) int {
	scenario := checkScenario(state)
	return appendCommand(state, scenario, instructor.CommandShow)
}

func scenarioCommand(state *lua.State) int {
	scenario := checkScenario(state)
	return appendCommand(state, scenario, lua.CheckString(state, 2))
}

func scenarioExpectContains(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, StepExpectContains, map[string]any{"text": lua.CheckString(state, 2)})
	state.PushValue(1)
	return 1
}

func scenarioExpectNotContains(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, StepExpectNotContains, map[string]any{"text": lua.CheckString(state, 2)})
	state.PushValue(1)
	return 1
}

func scenarioExpectError(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, StepExpectError, map[string]any{"code": strings.ToUpper(lua.CheckString(state, 2))})
	state.PushValue(1)
	return 1
}

func appendCommand(state *lua.State, scenario *Scenario, line string) int {
	appendStep(scenario, StepCommand, map[string]any{"line": line})
	state.PushValue(1)
	return 1
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func checkIntList(state *lua.State, index int) []int {
	index = state.AbsIndex(index)
	length := state.RawLength(index)
	values := make([]int, 0, length)
	for i := 1; i <= length; i++ {
		state.RawGetInt(index, i)
		value, ok := state.ToInteger(-1)
		state.Pop(1)
		if !ok {
			lua.ArgumentError(state, index, "integer list expected")
			return nil
		}
		values = append(values, value)
	}
	return values
}

func appendStep(scenario *Scenario, kind string, data map[string]any) {
	if scenario == nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
}

func stepString(step Step, key string) string {
	value, _ := step.Args[key].(string)
	return value
}
