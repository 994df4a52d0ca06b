package domain

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/dice-instructor/internal/dice"
	"github.com/louisbranch/dice-instructor/internal/instructor"
	apperrors "github.com/louisbranch/dice-instructor/internal/platform/errors"
	"github.com/louisbranch/dice-instructor/internal/presenter"
	"github.com/louisbranch/dice-instructor/internal/random"
	"github.com/louisbranch/dice-instructor/internal/settings"
)

// InstructionsInput represents the MCP tool input for planning a simulated die.
type InstructionsInput struct {
	Target        int    `json:"target" jsonschema:"number of sides of the die to simulate"`
	AvailableDice []int  `json:"available_dice,omitempty" jsonschema:"side counts of the dice at hand; defaults to the server settings"`
	MaxRollCount  int    `json:"max_roll_count,omitempty" jsonschema:"maximum number of dice combined for one result; defaults to the server settings"`
	Locale        string `json:"locale,omitempty" jsonschema:"message locale such as en-US or pt-BR"`
}

// OptionResult describes one procedure.
type OptionResult struct {
	Kind               string   `json:"kind" jsonschema:"option family: roll_multiple, discard or multiply_divide_discard"`
	Instructions       string   `json:"instructions" jsonschema:"rendered steps for the option"`
	Dice               []string `json:"dice" jsonschema:"dice rolled per attempt, such as 1d6"`
	DivideBy           int      `json:"divide_by,omitempty" jsonschema:"divisor applied to the kept result"`
	DiscardAbove       int      `json:"discard_above,omitempty" jsonschema:"results above this value are rerolled"`
	DiscardProbability float64  `json:"discard_probability" jsonschema:"percentage of attempts that are rerolled"`
}

// InstructionsResult represents the MCP tool output for planning a simulated die.
type InstructionsResult struct {
	Instructions string         `json:"instructions" jsonschema:"all selected options rendered as text"`
	Options      []OptionResult `json:"options" jsonschema:"the best option of each family"`
	Warning      string         `json:"warning,omitempty" jsonschema:"set when max_roll_count is above the recommended limit"`
}

// RollInput represents the MCP tool input for rolling a simulated die.
type RollInput struct {
	Target        int    `json:"target" jsonschema:"number of sides of the die to simulate"`
	AvailableDice []int  `json:"available_dice,omitempty" jsonschema:"side counts of the dice at hand; defaults to the server settings"`
	MaxRollCount  int    `json:"max_roll_count,omitempty" jsonschema:"maximum number of dice combined for one result; defaults to the server settings"`
	Locale        string `json:"locale,omitempty" jsonschema:"message locale such as en-US or pt-BR"`
	Seed          *int64 `json:"seed,omitempty" jsonschema:"optional seed for a reproducible roll"`
}

// RollResult represents the MCP tool output for rolling a simulated die.
type RollResult struct {
	Value    int          `json:"value" jsonschema:"simulated die result"`
	Attempts int          `json:"attempts" jsonschema:"attempts including rerolled ones"`
	Rolls    []int        `json:"rolls" jsonschema:"individual die results of the kept attempt"`
	Seed     int64        `json:"seed" jsonschema:"seed that replays this roll"`
	Option   OptionResult `json:"option" jsonschema:"procedure that was carried out"`
	Text     string       `json:"text" jsonschema:"rendered result"`
	Warning  string       `json:"warning,omitempty" jsonschema:"set when max_roll_count is above the recommended limit"`
}

// InstructionsTool defines the MCP tool schema for planning a simulated die.
func InstructionsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "simulate_die_instructions",
		Description: "Explains how to roll a die of any size using the available dice",
	}
}

// RollTool defines the MCP tool schema for rolling a simulated die.
func RollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "simulate_die_roll",
		Description: "Rolls a die of any size by carrying out the preferred procedure",
	}
}

// InstructionsHandler plans a simulated die against defaults overridden by the input.
func InstructionsHandler(defaults settings.Settings, defaultLocale string) mcp.ToolHandlerFor[InstructionsInput, InstructionsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InstructionsInput) (*mcp.CallToolResult, InstructionsResult, error) {
		p := presenter.New(pick(input.Locale, defaultLocale))
		s, err := override(defaults, input.AvailableDice, input.MaxRollCount)
		if err != nil {
			return nil, InstructionsResult{}, toolErr(err, p.Locale())
		}
		selection, err := instructor.Plan(ctx, input.Target, s)
		if err != nil {
			return nil, InstructionsResult{}, toolErr(err, p.Locale())
		}

		winners := selection.Winners()
		options := make([]OptionResult, 0, len(winners))
		for _, option := range winners {
			options = append(options, optionResult(p, option))
		}
		return nil, InstructionsResult{
			Instructions: p.Instructions(input.Target, selection),
			Options:      options,
			Warning:      warning(p, s),
		}, nil
	}
}

// RollHandler plans and rolls a simulated die against defaults overridden by the input.
func RollHandler(defaults settings.Settings, defaultLocale string) mcp.ToolHandlerFor[RollInput, RollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollInput) (*mcp.CallToolResult, RollResult, error) {
		p := presenter.New(pick(input.Locale, defaultLocale))
		s, err := override(defaults, input.AvailableDice, input.MaxRollCount)
		if err != nil {
			return nil, RollResult{}, toolErr(err, p.Locale())
		}
		var seed int64
		if input.Seed != nil {
			seed = *input.Seed
		} else if seed, err = random.NewSeed(); err != nil {
			return nil, RollResult{}, err
		}

		result, err := instructor.Roll(ctx, input.Target, s, seed)
		if err != nil {
			return nil, RollResult{}, toolErr(err, p.Locale())
		}
		return nil, RollResult{
			Value:    result.Outcome.Value,
			Attempts: result.Outcome.Attempts,
			Rolls:    result.Outcome.Rolls,
			Seed:     result.Seed,
			Option:   optionResult(p, result.Option),
			Text:     p.Outcome(input.Target, result.Outcome, result.Seed),
			Warning:  warning(p, s),
		}, nil
	}
}

func optionResult(p *presenter.Presenter, option dice.Option) OptionResult {
	var labels []string
	switch option.Kind {
	case dice.KindRollMultiple:
		labels = []string{option.Roll.String()}
	case dice.KindDiscard:
		labels = []string{dice.DiceRoll{Die: option.Die, Count: 1}.String()}
	case dice.KindMultiplyDivideDiscard:
		for _, roll := range option.RequiredRolls {
			labels = append(labels, roll.String())
		}
	}
	return OptionResult{
		Kind:               option.Kind.String(),
		Instructions:       p.Option(option),
		Dice:               labels,
		DivideBy:           option.DivideBy,
		DiscardAbove:       option.DiscardAbove,
		DiscardProbability: option.DiscardProbability(),
	}
}

func override(defaults settings.Settings, available []int, maxRollCount int) (settings.Settings, error) {
	s := defaults
	var err error
	if len(available) > 0 {
		if s, err = s.WithAvailableDice(available); err != nil {
			return defaults, err
		}
	}
	if maxRollCount != 0 {
		if s, err = s.WithMaxRollCount(maxRollCount); err != nil {
			return defaults, err
		}
	}
	return s, nil
}

// warning repeats the interactive roll count warning for discouraged settings.
func warning(p *presenter.Presenter, s settings.Settings) string {
	if !s.Discouraged() {
		return ""
	}
	return p.Text("commands.roll_count_warning")
}

func pick(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

// ToolError carries the localized message shown to MCP clients.
type ToolError struct {
	Message string
	Cause   error
}

func (e *ToolError) Error() string { return e.Message }

func (e *ToolError) Unwrap() error { return e.Cause }

// toolErr localizes domain errors. Cancellation passes through unchanged.
func toolErr(err error, locale string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &ToolError{Message: apperrors.UserMessage(err, locale), Cause: err}
}
