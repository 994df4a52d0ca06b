// Package settings holds the user adjustable inputs of the instructor: the
// dice on the table and how many of them may be combined for one result.
//
// Settings is an immutable value. Mutators return a new value and leave the
// receiver untouched, so a rejected change never alters the current settings.
package settings

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/louisbranch/dice-instructor/internal/dice"
	apperrors "github.com/louisbranch/dice-instructor/internal/platform/errors"
)

const (
	// DefaultMaxRollCount is the number of dice combined when nothing else is configured.
	DefaultMaxRollCount = 3
	// RecommendedMaxRollCount is the highest roll count that keeps enumeration fast.
	RecommendedMaxRollCount = 5
)

// DefaultAvailableDice returns the standard polyhedral set.
func DefaultAvailableDice() []int {
	return []int{4, 6, 8, 10, 12, 20, 100}
}

// Settings describes the available dice and the roll count limit.
type Settings struct {
	availableDice []int
	maxRollCount  int
}

// Default returns the standard settings.
func Default() Settings {
	return Settings{availableDice: DefaultAvailableDice(), maxRollCount: DefaultMaxRollCount}
}

// New validates and normalizes dice and maxRollCount into settings.
func New(availableDice []int, maxRollCount int) (Settings, error) {
	s, err := Default().WithAvailableDice(availableDice)
	if err != nil {
		return Settings{}, err
	}
	return s.WithMaxRollCount(maxRollCount)
}

// AvailableDice returns a copy of the distinct, ascending side counts.
func (s Settings) AvailableDice() []int {
	return slices.Clone(s.availableDice)
}

// MaxRollCount returns the maximum number of dice combined for one result.
func (s Settings) MaxRollCount() int {
	return s.maxRollCount
}

// WithAvailableDice returns settings using availableDice, deduplicated and
// sorted ascending.
func (s Settings) WithAvailableDice(availableDice []int) (Settings, error) {
	if len(availableDice) == 0 {
		return s, dice.ErrNoAvailableDice
	}
	normalized := slices.Clone(availableDice)
	slices.Sort(normalized)
	normalized = slices.Compact(normalized)
	if normalized[0] < dice.MinSides {
		return s, apperrors.WithMetadata(
			apperrors.CodeDieTooSmall,
			fmt.Sprintf("available die d%d is too small", normalized[0]),
			map[string]string{"Sides": strconv.Itoa(normalized[0])},
		)
	}
	s.availableDice = normalized
	return s, nil
}

// WithMaxRollCount returns settings combining at most maxRollCount dice.
func (s Settings) WithMaxRollCount(maxRollCount int) (Settings, error) {
	if maxRollCount < 1 {
		return s, dice.ErrInvalidRollCount
	}
	s.maxRollCount = maxRollCount
	return s, nil
}

// Discouraged reports whether the roll count is above the recommended limit.
func (s Settings) Discouraged() bool {
	return s.maxRollCount > RecommendedMaxRollCount
}

// Pool returns the dice pool used for enumeration.
func (s Settings) Pool() dice.Pool {
	return dice.Pool{Dice: s.AvailableDice(), MaxRollCount: s.maxRollCount}
}

// Equal reports whether both settings hold the same values.
func (s Settings) Equal(other Settings) bool {
	return s.maxRollCount == other.maxRollCount && slices.Equal(s.availableDice, other.availableDice)
}

// ParseDiceList parses a comma separated list of side counts. Whitespace is
// ignored anywhere in the input.
func ParseDiceList(input string) ([]int, error) {
	compact := strings.Join(strings.Fields(input), "")
	if compact == "" {
		return nil, dice.ErrNoAvailableDice
	}
	parts := strings.Split(compact, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		sides, err := strconv.Atoi(part)
		if err != nil {
			return nil, apperrors.WrapWithMetadata(
				apperrors.CodeDiceListInvalid,
				fmt.Sprintf("parse die %q", part),
				map[string]string{"Input": input},
				err,
			)
		}
		out = append(out, sides)
	}
	return out, nil
}

// FormatDiceList renders dice in the form ParseDiceList accepts.
func FormatDiceList(availableDice []int) string {
	parts := make([]string, len(availableDice))
	for i, sides := range availableDice {
		parts[i] = strconv.Itoa(sides)
	}
	return strings.Join(parts, ",")
}

// ParseMaxRollCount parses a roll count limit.
func ParseMaxRollCount(input string) (int, error) {
	count, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, apperrors.WrapWithMetadata(
			apperrors.CodeRollCountInvalid,
			"parse max roll count",
			map[string]string{"Input": input},
			err,
		)
	}
	if count < 1 {
		return 0, dice.ErrInvalidRollCount
	}
	return count, nil
}
