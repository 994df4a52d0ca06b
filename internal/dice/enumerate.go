package dice

import (
	"context"
	"fmt"
	"math"

	apperrors "github.com/louisbranch/dice-instructor/internal/platform/errors"
)

const (
	// MaxDivideBy caps the divisor a user is asked to apply.
	MaxDivideBy = 10

	// minCompoundDice is the fewest dice a compound option may use. Single
	// dice are already covered by RollMultiple and Discard.
	minCompoundDice = 2

	// maxDiscardShare bounds discards: at most roughly one third of raw
	// outcomes may be thrown away.
	maxDiscardShare = 3

	// unusedDigit marks a counter slot that selects no die.
	unusedDigit = -1
)

// Pool is the set of dice available to build options from.
type Pool struct {
	// Dice holds distinct side counts in ascending order.
	Dice []int
	// MaxRollCount caps the number of dice in a compound option.
	MaxRollCount int
}

func (p Pool) validate() error {
	if len(p.Dice) == 0 {
		return ErrNoAvailableDice
	}
	for _, sides := range p.Dice {
		if sides < MinSides {
			return apperrors.WithMetadata(
				apperrors.CodeDieTooSmall,
				fmt.Sprintf("available die d%d is too small", sides),
				map[string]string{"Sides": fmt.Sprint(sides)},
			)
		}
	}
	if p.MaxRollCount < 1 {
		return ErrInvalidRollCount
	}
	return nil
}

// Enumerate returns every valid option for simulating a die with target
// sides from the pool.
//
// Direct fits come first, in ascending die order: a RollMultiple for every
// die dividing the target and a Discard for every die larger than it.
// Compound options follow in counter order.
//
// The context is checked once per counter step. A cancelled enumeration
// returns no options and the context error.
func Enumerate(ctx context.Context, target int, pool Pool) ([]Option, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	if err := pool.validate(); err != nil {
		return nil, err
	}

	var options []Option
	for _, sides := range pool.Dice {
		if target%sides == 0 {
			options = append(options, RollMultiple(DiceRoll{Die: Die{Sides: sides}, Count: target / sides}))
		}
		if target < sides {
			options = append(options, Discard(Die{Sides: sides}, target))
		}
	}

	compound, err := expandCombinations(ctx, target, pool)
	if err != nil {
		return nil, err
	}
	return append(options, compound...), nil
}

// expandCombinations walks every die combination of up to MaxRollCount dice
// and derives a compound option from each one large enough.
func expandCombinations(ctx context.Context, target int, pool Pool) ([]Option, error) {
	var results []Option
	c := newCounter(pool.MaxRollCount, len(pool.Dice))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		compound, over, ok := boundedCompound(c.digits, pool.Dice, target)
		switch {
		case !ok:
			// Later combinations sharing the digits up to over only grow.
			c.skipAfter(over)
		case compound > target:
			if option, ok := derive(target, c.digits, pool.Dice, compound); ok {
				results = append(results, option)
			}
		}

		if !c.next() {
			return results, nil
		}
	}
}

// boundedCompound multiplies the sides selected by digits. It reports false,
// with the index of the digit that crossed, once the product passes
// target*(MaxDivideBy+1): such a compound needs a divisor above MaxDivideBy,
// and stopping there keeps the product in range.
func boundedCompound(digits []int, dice []int, target int) (compound int, over int, ok bool) {
	limit := math.MaxInt
	if target <= math.MaxInt/(MaxDivideBy+1) {
		limit = target * (MaxDivideBy + 1)
	}
	compound = 1
	for i, digit := range digits {
		if digit == unusedDigit {
			continue
		}
		sides := dice[digit]
		if compound > limit/sides {
			return 0, i, false
		}
		compound *= sides
	}
	return compound, -1, true
}

// derive turns one die combination into a compound option, or reports false
// when the combination discards too much, divides too far, or uses a single
// die.
func derive(target int, digits []int, dice []int, compound int) (Option, bool) {
	// Everything above the last whole multiple of the target below compound
	// is re-rolled.
	multiplications := (compound - 1) / target
	discardAbove := multiplications * target

	if compound/maxDiscardShare > discardAbove {
		return Option{}, false
	}
	if multiplications > MaxDivideBy {
		return Option{}, false
	}

	used := 0
	for _, digit := range digits {
		if digit != unusedDigit {
			used++
		}
	}
	if used < minCompoundDice {
		return Option{}, false
	}

	var rolls []DiceRoll
	position := map[int]int{}
	for _, digit := range digits {
		if digit == unusedDigit {
			continue
		}
		sides := dice[digit]
		if i, ok := position[sides]; ok {
			rolls[i].Count++
			continue
		}
		position[sides] = len(rolls)
		rolls = append(rolls, DiceRoll{Die: Die{Sides: sides}, Count: 1})
	}

	return MultiplyDivideDiscard(multiplications, discardAbove, rolls), true
}

// counter is a mixed-radix digit vector over die indexes. The last digit is
// the least significant. Unused digits only ever form a prefix.
type counter struct {
	digits []int
	limit  int
}

// newCounter starts a counter of length digits, each ranging over
// [0, radix). The first state selects the first die in the last slot.
func newCounter(length, radix int) *counter {
	digits := make([]int, length)
	for i := range digits {
		digits[i] = unusedDigit
	}
	digits[length-1] = 0
	return &counter{digits: digits, limit: radix - 1}
}

// skipAfter moves every digit after i to its last value, so the following
// next carries into digit i.
func (c *counter) skipAfter(i int) {
	for j := i + 1; j < len(c.digits); j++ {
		c.digits[j] = c.limit
	}
}

// next advances to the following combination and reports false once the
// most significant digit overflows.
func (c *counter) next() bool {
	last := len(c.digits) - 1
	c.digits[last]++
	for i := last; i >= 0; i-- {
		if c.digits[i] <= c.limit {
			continue
		}
		if i == 0 {
			return false
		}
		c.digits[i] = 0
		c.digits[i-1]++
	}
	return true
}
