package dice

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

var standardDice = []int{4, 6, 8, 10, 12, 20, 100}

func standardPool() Pool {
	return Pool{Dice: standardDice, MaxRollCount: 3}
}

func mustEnumerate(t *testing.T, target int, pool Pool) []Option {
	t.Helper()
	options, err := Enumerate(context.Background(), target, pool)
	if err != nil {
		t.Fatalf("Enumerate(%d) returned error: %v", target, err)
	}
	return options
}

func containsOption(options []Option, want Option) bool {
	for _, option := range options {
		if option.Equal(want) {
			return true
		}
	}
	return false
}

// TestEnumerateD7FindsSixAndTwelve ensures the documented d7 procedure is produced.
func TestEnumerateD7FindsSixAndTwelve(t *testing.T) {
	options := mustEnumerate(t, 7, standardPool())
	want := MultiplyDivideDiscard(10, 70, []DiceRoll{
		{Die: Die{Sides: 6}, Count: 1},
		{Die: Die{Sides: 12}, Count: 1},
	})
	if !containsOption(options, want) {
		t.Fatalf("expected %+v among options", want)
	}
}

func TestEnumerateD5DiscardOnD10(t *testing.T) {
	options := mustEnumerate(t, 5, standardPool())
	if !containsOption(options, Discard(Die{Sides: 10}, 5)) {
		t.Fatal("expected discard on d10 above 5")
	}
}

func TestEnumerateD6RollMultiple(t *testing.T) {
	options := mustEnumerate(t, 6, Pool{Dice: []int{4, 6, 12}, MaxRollCount: 3})

	if !containsOption(options, RollMultiple(DiceRoll{Die: Die{Sides: 6}, Count: 1})) {
		t.Fatal("expected roll multiple of 1d6")
	}
	for _, option := range options {
		if option.Kind == KindRollMultiple && option.Roll.Die.Sides == 12 {
			t.Fatalf("unexpected roll multiple on d12: %+v", option)
		}
	}
	if !containsOption(options, Discard(Die{Sides: 12}, 6)) {
		t.Fatal("expected discard on d12 above 6")
	}
}

// TestEnumerateDirectFitsComeFirst ensures direct fits precede compound options in die order.
func TestEnumerateDirectFitsComeFirst(t *testing.T) {
	options := mustEnumerate(t, 12, standardPool())
	want := []Option{
		RollMultiple(DiceRoll{Die: Die{Sides: 4}, Count: 3}),
		RollMultiple(DiceRoll{Die: Die{Sides: 6}, Count: 2}),
		RollMultiple(DiceRoll{Die: Die{Sides: 12}, Count: 1}),
		Discard(Die{Sides: 20}, 12),
		Discard(Die{Sides: 100}, 12),
	}
	if len(options) < len(want) {
		t.Fatalf("expected at least %d options, got %d", len(want), len(options))
	}
	for i := range want {
		if !options[i].Equal(want[i]) {
			t.Fatalf("option %d = %+v, want %+v", i, options[i], want[i])
		}
	}
	for _, option := range options[len(want):] {
		if option.Kind != KindMultiplyDivideDiscard {
			t.Fatalf("expected only compound options after direct fits, got %+v", option)
		}
	}
}

// TestEnumerateInvariants checks every candidate across a range of targets.
func TestEnumerateInvariants(t *testing.T) {
	pool := standardPool()
	for target := 2; target <= 120; target++ {
		for _, option := range mustEnumerate(t, target, pool) {
			switch option.Kind {
			case KindRollMultiple:
				sides := option.Roll.Die.Sides
				if target%sides != 0 || option.Roll.Count != target/sides {
					t.Fatalf("target %d: invalid roll multiple %+v", target, option)
				}
			case KindDiscard:
				if target >= option.Die.Sides || option.DiscardAbove != target {
					t.Fatalf("target %d: invalid discard %+v", target, option)
				}
			case KindMultiplyDivideDiscard:
				compound := option.Compound()
				if option.DiscardAbove >= compound {
					t.Fatalf("target %d: discardAbove %d >= compound %d", target, option.DiscardAbove, compound)
				}
				if compound/3 > option.DiscardAbove {
					t.Fatalf("target %d: discard share too large for %+v", target, option)
				}
				if option.DivideBy < 1 || option.DivideBy > MaxDivideBy {
					t.Fatalf("target %d: divideBy %d out of range", target, option.DivideBy)
				}
				if option.DiceCount() < 2 || option.DiceCount() > pool.MaxRollCount {
					t.Fatalf("target %d: dice count %d out of range", target, option.DiceCount())
				}
				if option.DiscardAbove != target*option.DivideBy {
					t.Fatalf("target %d: discardAbove %d is not target*divideBy", target, option.DiscardAbove)
				}
				if target*option.DivideBy < compound-target {
					t.Fatalf("target %d: divisor %d too small for compound %d", target, option.DivideBy, compound)
				}
				if want := reconstructDivisor(target, compound); want != option.DivideBy {
					t.Fatalf("target %d: divideBy = %d, want %d", target, option.DivideBy, want)
				}
			default:
				t.Fatalf("target %d: unexpected kind %v", target, option.Kind)
			}
		}
	}
}

// reconstructDivisor is the largest m with target*m strictly below compound.
func reconstructDivisor(target, compound int) int {
	return (compound - 1) / target
}

// TestEnumerateIsUniform ensures every compound option yields each result equally often.
func TestEnumerateIsUniform(t *testing.T) {
	pool := standardPool()
	for _, target := range []int{2, 3, 5, 7, 9, 11, 13, 17, 30, 37} {
		for _, option := range mustEnumerate(t, target, pool) {
			if option.Kind != KindMultiplyDivideDiscard {
				continue
			}
			counts := map[int]int{}
			forEachTuple(option.Sides(), func(results []int) {
				value, err := Compose(option.Sides(), results)
				if err != nil {
					t.Fatalf("compose: %v", err)
				}
				if value > option.DiscardAbove {
					return
				}
				counts[DivideUp(value, option.DivideBy)]++
			})
			for result := 1; result <= target; result++ {
				if counts[result] != option.DivideBy {
					t.Fatalf("target %d option %+v: result %d seen %d times, want %d",
						target, option, result, counts[result], option.DivideBy)
				}
			}
			if len(counts) != target {
				t.Fatalf("target %d option %+v: produced %d distinct results", target, option, len(counts))
			}
		}
	}
}

func TestEnumerateIsDeterministic(t *testing.T) {
	first := mustEnumerate(t, 23, standardPool())
	second := mustEnumerate(t, 23, standardPool())
	if len(first) != len(second) {
		t.Fatalf("option counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Fatalf("option %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestEnumerateSingleRollHasNoCompoundOptions(t *testing.T) {
	options := mustEnumerate(t, 7, Pool{Dice: standardDice, MaxRollCount: 1})
	for _, option := range options {
		if option.Kind == KindMultiplyDivideDiscard {
			t.Fatalf("unexpected compound option %+v", option)
		}
	}
}

// TestEnumerateGroupsRepeatedDice ensures repeated dice collapse into one roll.
func TestEnumerateGroupsRepeatedDice(t *testing.T) {
	options := mustEnumerate(t, 2, Pool{Dice: []int{4}, MaxRollCount: 2})
	want := MultiplyDivideDiscard(7, 14, []DiceRoll{{Die: Die{Sides: 4}, Count: 2}})
	if !containsOption(options, want) {
		t.Fatalf("expected %+v among %+v", want, options)
	}
}

func TestEnumerateRejectsInvalidInput(t *testing.T) {
	tcs := []struct {
		name   string
		target int
		pool   Pool
		want   error
	}{
		{name: "target too small", target: 1, pool: standardPool(), want: ErrTargetTooSmall},
		{name: "no dice", target: 7, pool: Pool{MaxRollCount: 3}, want: ErrNoAvailableDice},
		{name: "die too small", target: 7, pool: Pool{Dice: []int{1, 6}, MaxRollCount: 3}, want: ErrInvalidDie},
		{name: "roll count", target: 7, pool: Pool{Dice: standardDice}, want: ErrInvalidRollCount},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Enumerate(context.Background(), tc.target, tc.pool)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Enumerate error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestEnumerateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	options, err := Enumerate(ctx, 7, standardPool())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Enumerate error = %v, want context.Canceled", err)
	}
	if options != nil {
		t.Fatalf("expected no partial options, got %d", len(options))
	}
}

func TestCounterWalksRightAlignedCombinations(t *testing.T) {
	c := newCounter(2, 2)
	want := [][]int{{-1, 0}, {-1, 1}, {0, 0}, {0, 1}, {1, 0}, {1, 1}}
	for i, state := range want {
		if c.digits[0] != state[0] || c.digits[1] != state[1] {
			t.Fatalf("state %d = %v, want %v", i, c.digits, state)
		}
		more := c.next()
		if more != (i < len(want)-1) {
			t.Fatalf("state %d: next() = %v", i, more)
		}
	}
}

func TestDeriveRejections(t *testing.T) {
	if _, ok := derive(40, []int{-1, -1, 6}, standardDice, 100); ok {
		t.Fatal("expected single-die combination to be rejected")
	}
	if _, ok := derive(2, []int{-1, 6, 6}, standardDice, 10000); ok {
		t.Fatal("expected large divisor to be rejected")
	}
	option, ok := derive(7, []int{-1, 1, 4}, standardDice, 72)
	if !ok {
		t.Fatal("expected d6 x d12 to be accepted for d7")
	}
	if option.DivideBy != 10 || option.DiscardAbove != 70 {
		t.Fatalf("derived %+v, want divideBy 10 and discardAbove 70", option)
	}
}

// forEachTuple calls fn with every combination of die results.
func forEachTuple(sides []int, fn func([]int)) {
	results := make([]int, len(sides))
	for i := range results {
		results[i] = 1
	}
	for {
		fn(results)
		i := len(results) - 1
		for ; i >= 0; i-- {
			results[i]++
			if results[i] <= sides[i] {
				break
			}
			results[i] = 1
		}
		if i < 0 {
			return
		}
	}
}

// stepwiseDivisor finds the divisor by walking multiples of the target, the
// way the instructor always has.
func stepwiseDivisor(target, compound int) (multiplications, discardAbove int) {
	largest := 0
	for largest < compound {
		multiplications++
		largest = target * multiplications
	}
	return multiplications - 1, largest - target
}

func TestDeriveMatchesStepwiseDivisor(t *testing.T) {
	digits := []int{0, 1}
	dice := []int{2, 3}
	for target := 2; target <= 40; target++ {
		for compound := target + 1; compound <= target*(MaxDivideBy+1); compound++ {
			wantDivide, wantDiscard := stepwiseDivisor(target, compound)
			option, ok := derive(target, digits, dice, compound)
			if !ok {
				continue
			}
			if option.DivideBy != wantDivide || option.DiscardAbove != wantDiscard {
				t.Fatalf("derive(%d, compound %d) = divide %d discard %d, want %d and %d",
					target, compound, option.DivideBy, option.DiscardAbove, wantDivide, wantDiscard)
			}
		}
	}
}

func TestBoundedCompoundStopsPastLargestDivisor(t *testing.T) {
	dice := []int{6, 12, 100}
	if compound, _, ok := boundedCompound([]int{unusedDigit, 0, 1}, dice, 7); !ok || compound != 72 {
		t.Fatalf("boundedCompound = %d, %v, want 72, true", compound, ok)
	}
	if _, over, ok := boundedCompound([]int{0, 1, 1}, dice, 7); ok || over != 2 {
		t.Fatalf("boundedCompound for 1d6 and 2d12 = over %d, ok %v, want over 2", over, ok)
	}
	if _, over, ok := boundedCompound([]int{unusedDigit, 2, 0}, dice, 7); ok || over != 1 {
		t.Fatalf("boundedCompound for 1d100 = over %d, ok %v, want over 1", over, ok)
	}
	huge := []int{math.MaxInt / 2}
	if _, _, ok := boundedCompound([]int{0, 0, 0}, huge, 7); ok {
		t.Fatal("expected oversized product to be rejected")
	}
	if compound, _, ok := boundedCompound([]int{0, 0}, []int{4}, math.MaxInt-1); !ok || compound != 16 {
		t.Fatalf("boundedCompound for huge target = %d, %v", compound, ok)
	}
}

// TestEnumerateSkipsOnlyOversizedCombinations ensures pruning keeps every
// option found by visiting each combination.
func TestEnumerateSkipsOnlyOversizedCombinations(t *testing.T) {
	pool := Pool{Dice: []int{2, 3, 4, 6}, MaxRollCount: 4}
	for _, target := range []int{3, 5, 7, 11} {
		var want []Option
		c := newCounter(pool.MaxRollCount, len(pool.Dice))
		for {
			compound := 1
			for _, digit := range c.digits {
				if digit != unusedDigit {
					compound *= pool.Dice[digit]
				}
			}
			if compound > target {
				if option, ok := derive(target, c.digits, pool.Dice, compound); ok {
					want = append(want, option)
				}
			}
			if !c.next() {
				break
			}
		}

		got, err := expandCombinations(context.Background(), target, pool)
		if err != nil {
			t.Fatalf("target %d: %v", target, err)
		}
		if len(got) != len(want) {
			t.Fatalf("target %d: got %d options, want %d", target, len(got), len(want))
		}
		for i := range want {
			if !got[i].Equal(want[i]) {
				t.Fatalf("target %d: option %d = %+v, want %+v", target, i, got[i], want[i])
			}
		}
	}
}

// TestEnumerateLargeRollCountFinishes ensures high roll counts stay fast and
// only yield options within the divisor limit.
func TestEnumerateLargeRollCountFinishes(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, maxRollCount := range []int{6, 10, 50} {
		options, err := Enumerate(ctx, 7, Pool{Dice: standardDice, MaxRollCount: maxRollCount})
		if err != nil {
			t.Fatalf("MaxRollCount %d: Enumerate returned error: %v", maxRollCount, err)
		}
		for _, option := range options {
			if option.Kind != KindMultiplyDivideDiscard {
				continue
			}
			if option.DivideBy > MaxDivideBy || option.Compound() <= option.DiscardAbove {
				t.Fatalf("MaxRollCount %d: invalid option %+v", maxRollCount, option)
			}
		}
	}
}
