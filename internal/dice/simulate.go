package dice

import (
	"context"
	"math/rand"
)

// maxAttempts bounds re-rolls so a broken option cannot spin forever. Every
// accepted option keeps at least a third of its outcomes.
const maxAttempts = 1000

// Outcome is the result of carrying out an option.
type Outcome struct {
	// Value is the simulated die result in [1, target].
	Value int
	// Attempts counts rolls including discarded ones.
	Attempts int
	// Rolls are the individual die results of the kept attempt.
	Rolls []int
	// Compound is the composed value of the kept attempt before division.
	Compound int
}

// Simulate carries out an option with rng, re-rolling discarded attempts.
//
// RollMultiple is only simulatable when it is a single die of the target
// size; multi-die roll multiples have no mechanical procedure and return
// ErrNotSimulatable.
func Simulate(ctx context.Context, option Option, rng *rand.Rand) (Outcome, error) {
	switch option.Kind {
	case KindRollMultiple:
		if option.Roll.Count != 1 {
			return Outcome{}, ErrNotSimulatable
		}
		value := rollDie(rng, option.Roll.Die.Sides)
		return Outcome{Value: value, Attempts: 1, Rolls: []int{value}, Compound: value}, nil
	case KindDiscard, KindMultiplyDivideDiscard:
	default:
		return Outcome{}, ErrNotSimulatable
	}

	sides := option.Sides()
	divideBy := option.DivideBy
	if option.Kind == KindDiscard {
		divideBy = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		rolls := make([]int, len(sides))
		for i, s := range sides {
			rolls[i] = rollDie(rng, s)
		}
		compound, err := Compose(sides, rolls)
		if err != nil {
			return Outcome{}, err
		}
		if compound > option.DiscardAbove {
			continue
		}
		return Outcome{
			Value:    DivideUp(compound, divideBy),
			Attempts: attempt,
			Rolls:    rolls,
			Compound: compound,
		}, nil
	}
	return Outcome{}, ErrNotSimulatable
}

// rollDie rolls a die with the provided number of sides.
func rollDie(rng *rand.Rand, sides int) int {
	return rng.Intn(sides) + 1
}
