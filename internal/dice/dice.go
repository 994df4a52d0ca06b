// Package dice finds procedures that simulate an arbitrary die with a fixed
// set of available dice.
//
// A procedure is an Option. Enumerate produces every valid Option for a
// target die, Select keeps the best Option of each family, and Simulate
// carries a chosen Option out with a seeded random source.
package dice

import (
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/dice-instructor/internal/platform/errors"
)

// MinSides is the smallest die that can be simulated or used.
const MinSides = 2

var (
	// ErrTargetTooSmall indicates the requested die has fewer than two sides.
	ErrTargetTooSmall = apperrors.New(apperrors.CodeTargetTooSmall, "target die must be a d2 or bigger")
	// ErrNoAvailableDice indicates no dice were provided to build options from.
	ErrNoAvailableDice = apperrors.New(apperrors.CodeDiceListEmpty, "at least one available die must be provided")
	// ErrInvalidDie indicates an available die has fewer than two sides.
	ErrInvalidDie = apperrors.New(apperrors.CodeDieTooSmall, "available dice must have at least two sides")
	// ErrInvalidRollCount indicates the maximum roll count is below one.
	ErrInvalidRollCount = apperrors.New(apperrors.CodeRollCountInvalid, "max roll count must be 1 or higher")
	// ErrNotSimulatable indicates an option has no mechanical roll procedure.
	ErrNotSimulatable = apperrors.New(apperrors.CodeNotSimulatable, "option cannot be rolled directly")
	// ErrInvalidResult indicates a rolled value does not fit its die.
	ErrInvalidResult = errors.New("roll result is outside the die range")
)

// Die is a single die described by its number of sides.
type Die struct {
	Sides int
}

func (d Die) String() string {
	return fmt.Sprintf("d%d", d.Sides)
}

// Valid reports whether the die can be rolled.
func (d Die) Valid() bool {
	return d.Sides >= MinSides
}

// DiceRoll is a roll of Count identical dice.
type DiceRoll struct {
	Die   Die
	Count int
}

func (r DiceRoll) String() string {
	return fmt.Sprintf("%d%s", r.Count, r.Die)
}

// validateTarget checks the simulated die size.
func validateTarget(target int) error {
	if target < MinSides {
		return apperrors.WithMetadata(
			apperrors.CodeTargetTooSmall,
			fmt.Sprintf("target die d%d is too small", target),
			map[string]string{"Target": fmt.Sprint(target)},
		)
	}
	return nil
}
