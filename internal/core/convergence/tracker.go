// Package convergence maintains the running relative frequency of a target
// die face over a stream of trials.
package convergence

import (
	"errors"
	"math"
)

// ErrInvalidTargetFace indicates the target face is outside the die's range.
var ErrInvalidTargetFace = errors.New("target face must be between 1 and the number of sides")

// ErrInvalidSides indicates the tracked die has a non-positive side count.
var ErrInvalidSides = errors.New("die must have positive sides")

// ErrCounterOverflow indicates the trial counter cannot be incremented
// without wrapping.
var ErrCounterOverflow = errors.New("trial counter overflow")

// Sample pairs a trial index with the relative frequency of the target
// face observed up to and including that trial.
type Sample struct {
	Index     uint64
	Frequency float64
}

// Tracker accumulates trial outcomes for a single target face.
//
// # Determinism
//
// Observe is deterministic with respect to the sequence of trials: feeding
// the same sequence into a fresh Tracker always yields the same sequence
// of Samples, independent of how the trials were generated.
//
// # Ordering
//
// Sample indices are strictly monotonically increasing, starting at 1 for
// the first observed trial. The counters are incremented before the
// frequency is derived, so the divisor is always at least 1.
//
// A Tracker has exactly one writer; it is not safe for concurrent use.
type Tracker struct {
	sides        int
	targetFace   int
	trialCount   uint64
	successCount uint64
}

// NewTracker creates a tracker for a die with the given sides, counting
// outcomes equal to targetFace as successes.
//
// Constraints and errors
//
//   - sides must be positive, otherwise ErrInvalidSides is returned.
//   - targetFace must be in [1, sides], otherwise ErrInvalidTargetFace is
//     returned. The check runs before any trial is generated so a
//     misconfigured run never starts.
func NewTracker(sides, targetFace int) (*Tracker, error) {
	if sides <= 0 {
		return nil, ErrInvalidSides
	}
	if targetFace < 1 || targetFace > sides {
		return nil, ErrInvalidTargetFace
	}
	return &Tracker{sides: sides, targetFace: targetFace}, nil
}

// Observe records one trial outcome and returns the derived sample.
//
// The trial counter is incremented first, then the success counter when
// the outcome matches the target face, and only then is the frequency
// computed. Frequency is therefore always a valid rational in [0, 1].
//
// Observe returns ErrCounterOverflow when the trial counter would wrap;
// with 64-bit counters this is unreachable in any animated run.
func (t *Tracker) Observe(trial int) (Sample, error) {
	if t == nil {
		return Sample{}, errors.New("tracker is not configured")
	}
	if t.trialCount == math.MaxUint64 {
		return Sample{}, ErrCounterOverflow
	}

	t.trialCount++
	if trial == t.targetFace {
		t.successCount++
	}

	return Sample{
		Index:     t.trialCount,
		Frequency: float64(t.successCount) / float64(t.trialCount),
	}, nil
}

// TrialCount reports the number of trials observed so far.
func (t *Tracker) TrialCount() uint64 {
	if t == nil {
		return 0
	}
	return t.trialCount
}

// SuccessCount reports the number of trials that matched the target face.
func (t *Tracker) SuccessCount() uint64 {
	if t == nil {
		return 0
	}
	return t.successCount
}

// TargetFace reports the face counted as a success.
func (t *Tracker) TargetFace() int {
	if t == nil {
		return 0
	}
	return t.targetFace
}

// Theoretical reports the probability of rolling the target face on a
// fair die, the constant the observed frequency converges toward.
func (t *Tracker) Theoretical() float64 {
	if t == nil || t.sides == 0 {
		return 0
	}
	return 1 / float64(t.sides)
}
