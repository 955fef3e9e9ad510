package domain

import (
	"fmt"
	"strings"
)

// Mode selects one of the two fixed call shapes.
type Mode string

const (
	// ModeBounded runs 20 rounds and divides every value by 3 after the transform.
	ModeBounded Mode = "bounded"
	// ModeUnbounded runs 10000 rounds with no relief; values are kept small by the global modulus.
	ModeUnbounded Mode = "unbounded"
)

const (
	BoundedRounds     = 20
	BoundedDampener   = 3
	UnboundedRounds   = 10_000
	UnboundedDampener = 1
)

// Params returns the rounds and dampener for the mode.
func (m Mode) Params() (int, int64) {
	if m == ModeUnbounded {
		return UnboundedRounds, UnboundedDampener
	}
	return BoundedRounds, BoundedDampener
}

// ParseMode accepts the mode names and the part numbers used by the HTTP routes.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bounded", "part1", "1":
		return ModeBounded, nil
	case "unbounded", "part2", "2":
		return ModeUnbounded, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
