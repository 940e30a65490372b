// Package dice implements the die-rolling logic for the convergence demo.
package dice

import (
	"errors"
	"math/rand"
)

// ErrInvalidSides indicates a die was requested with a non-positive side count.
var ErrInvalidSides = errors.New("die must have positive sides")

// ErrRandomSource indicates the random source produced a value outside the
// range it was asked for.
var ErrRandomSource = errors.New("random source produced an out-of-range value")

// Source produces uniformly distributed integers in [0, n). *rand.Rand
// satisfies it; tests may substitute a deterministic source.
type Source interface {
	Intn(n int) int
}

// Roller rolls a single die with a fixed number of sides.
//
// # Determinism
//
// A Roller is deterministic with respect to the seed it was created with.
// Given the same seed and the same number of sides, successive Roll calls
// always produce the same sequence of outcomes.
type Roller struct {
	sides int
	src   Source
}

// NewRoller creates a roller for a die with the given sides, seeded with
// the provided seed.
func NewRoller(sides int, seed int64) (*Roller, error) {
	return NewRollerWithSource(sides, rand.New(rand.NewSource(seed)))
}

// NewRollerWithSource creates a roller using a provided random source.
// This is useful when the caller wants to control the source directly.
func NewRollerWithSource(sides int, src Source) (*Roller, error) {
	if sides <= 0 {
		return nil, ErrInvalidSides
	}
	if src == nil {
		return nil, errors.New("random source is required")
	}
	return &Roller{sides: sides, src: src}, nil
}

// Sides reports the number of sides on the die.
func (r *Roller) Sides() int {
	if r == nil {
		return 0
	}
	return r.sides
}

// Roll rolls the die once and returns an outcome in [1, sides].
//
// A misbehaving source is surfaced as ErrRandomSource rather than being
// clamped, since a skewed outcome would bias the frequency the demo
// exists to measure.
func (r *Roller) Roll() (int, error) {
	if r == nil || r.src == nil {
		return 0, errors.New("roller is not configured")
	}
	value := r.src.Intn(r.sides)
	if value < 0 || value >= r.sides {
		return 0, ErrRandomSource
	}
	return value + 1, nil
}
