package instructor

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/dice-instructor/internal/dice"
	apperrors "github.com/louisbranch/dice-instructor/internal/platform/errors"
	"github.com/louisbranch/dice-instructor/internal/random"
	"github.com/louisbranch/dice-instructor/internal/settings"
)

// RollResult is a planned and carried out simulated roll.
type RollResult struct {
	Selection dice.Selection
	Option    dice.Option
	Outcome   dice.Outcome
	Seed      int64
}

// Plan enumerates every option for target with s and keeps the best of each
// family.
func Plan(ctx context.Context, target int, s settings.Settings) (dice.Selection, error) {
	options, err := dice.Enumerate(ctx, target, s.Pool())
	if err != nil {
		return dice.Selection{}, err
	}
	selection := dice.Select(options)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("dice.target", target),
		attribute.Int("dice.candidates", len(options)),
		attribute.Int("dice.winners", len(selection.Winners())),
	)
	return selection, nil
}

// Roll plans target and carries out the preferred option with seed.
func Roll(ctx context.Context, target int, s settings.Settings, seed int64) (RollResult, error) {
	selection, err := Plan(ctx, target, s)
	if err != nil {
		return RollResult{}, err
	}
	if selection.Empty() {
		return RollResult{}, noSolution(target)
	}
	option, ok := selection.Preferred()
	if !ok {
		return RollResult{}, dice.ErrNotSimulatable
	}
	outcome, err := dice.Simulate(ctx, option, random.New(seed))
	if err != nil {
		if errors.Is(err, dice.ErrNotSimulatable) {
			return RollResult{}, err
		}
		return RollResult{}, fmt.Errorf("simulate d%d: %w", target, err)
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("dice.option", option.Kind.String()),
		attribute.Int("dice.attempts", outcome.Attempts),
	)
	return RollResult{Selection: selection, Option: option, Outcome: outcome, Seed: seed}, nil
}

func noSolution(target int) error {
	return apperrors.WithMetadata(
		apperrors.CodeNoSolution,
		fmt.Sprintf("no solution for d%d", target),
		map[string]string{"Target": fmt.Sprint(target)},
	)
}
