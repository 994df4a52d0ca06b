package dice

import (
	"context"
	"errors"
	"math/rand"
	"testing"
)

// TestSimulateStaysInRange ensures simulated values cover only the target range.
func TestSimulateStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	option := MultiplyDivideDiscard(10, 70, []DiceRoll{
		{Die: Die{Sides: 6}, Count: 1},
		{Die: Die{Sides: 12}, Count: 1},
	})

	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		outcome, err := Simulate(context.Background(), option, rng)
		if err != nil {
			t.Fatalf("Simulate returned error: %v", err)
		}
		if outcome.Value < 1 || outcome.Value > 7 {
			t.Fatalf("value %d outside [1, 7]", outcome.Value)
		}
		if outcome.Attempts < 1 {
			t.Fatalf("attempts = %d, want >= 1", outcome.Attempts)
		}
		if outcome.Compound > 70 {
			t.Fatalf("kept compound %d above discard threshold", outcome.Compound)
		}
		if len(outcome.Rolls) != 2 {
			t.Fatalf("rolls = %v, want 2 results", outcome.Rolls)
		}
		if DivideUp(outcome.Compound, 10) != outcome.Value {
			t.Fatalf("value %d does not match compound %d", outcome.Value, outcome.Compound)
		}
		seen[outcome.Value] = true
	}
	if len(seen) != 7 {
		t.Fatalf("expected all 7 results over 500 rolls, saw %v", seen)
	}
}

func TestSimulateIsDeterministicForSeed(t *testing.T) {
	option := Discard(Die{Sides: 10}, 5)
	first, err := Simulate(context.Background(), option, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	second, err := Simulate(context.Background(), option, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	if first.Value != second.Value || first.Attempts != second.Attempts {
		t.Fatalf("outcomes differ for same seed: %+v vs %+v", first, second)
	}
	if first.Value < 1 || first.Value > 5 {
		t.Fatalf("value %d outside [1, 5]", first.Value)
	}
}

func TestSimulateSingleDieRollMultiple(t *testing.T) {
	option := RollMultiple(DiceRoll{Die: Die{Sides: 6}, Count: 1})
	outcome, err := Simulate(context.Background(), option, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	if outcome.Value < 1 || outcome.Value > 6 || outcome.Attempts != 1 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestSimulateRejectsUnsupportedOptions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, option := range []Option{
		RollMultiple(DiceRoll{Die: Die{Sides: 4}, Count: 3}),
		{},
	} {
		if _, err := Simulate(context.Background(), option, rng); !errors.Is(err, ErrNotSimulatable) {
			t.Fatalf("Simulate(%+v) error = %v, want %v", option, err, ErrNotSimulatable)
		}
	}
}

func TestSimulateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulate(ctx, Discard(Die{Sides: 10}, 5), rand.New(rand.NewSource(1)))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Simulate error = %v, want context.Canceled", err)
	}
}
