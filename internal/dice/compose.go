package dice

import "fmt"

// Weights returns the positional weight of each die in a composition. The
// first die is the most significant; the last die has weight 1.
func Weights(sides []int) []int {
	weights := make([]int, len(sides))
	weight := 1
	for i := len(sides) - 1; i >= 0; i-- {
		weights[i] = weight
		weight *= sides[i]
	}
	return weights
}

// Compose combines individual die results into one compound value in
// [1, product(sides)]. Every tuple of results maps to a distinct value:
//
//	value = 1 + (r1-1)*w1 + (r2-1)*w2 + ... + (rk-1)*wk
//
// where wi are the Weights of sides.
func Compose(sides []int, results []int) (int, error) {
	if len(sides) != len(results) {
		return 0, fmt.Errorf("compose: %d results for %d dice", len(results), len(sides))
	}
	if len(sides) == 0 {
		return 0, fmt.Errorf("compose: no dice")
	}
	value := 0
	for i, s := range sides {
		r := results[i]
		if r < 1 || r > s {
			return 0, fmt.Errorf("compose: result %d on d%d: %w", r, s, ErrInvalidResult)
		}
		value = value*s + (r - 1)
	}
	return value + 1, nil
}

// DivideUp scales a kept compound value down to the target range by
// dividing and rounding up.
func DivideUp(value, divideBy int) int {
	if divideBy <= 1 {
		return value
	}
	return (value + divideBy - 1) / divideBy
}
