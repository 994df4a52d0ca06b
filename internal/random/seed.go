// Package random provides seeds and seeded sources for simulated rolls.
//
// Seeds come from crypto/rand; the rolls themselves use math/rand so a
// printed seed replays the same result.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/dice-instructor/internal/platform/errors"
)

// NewSeed generates a non-negative random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:]) & math.MaxInt64), nil
}

// ParseSeed parses a user supplied seed.
func ParseSeed(input string) (int64, error) {
	seed, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return 0, apperrors.WrapWithMetadata(
			apperrors.CodeSeedInvalid,
			"parse seed",
			map[string]string{"Input": input},
			err,
		)
	}
	return seed, nil
}

// Resolve returns the seed parsed from input, or a fresh seed when input is
// blank.
func Resolve(input string) (int64, error) {
	if strings.TrimSpace(input) == "" {
		return NewSeed()
	}
	return ParseSeed(input)
}

// New returns a pseudo-random source replaying seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
