// Package sim wires the die roller to the convergence tracker as a
// pull-based stream of samples.
//
// The runner owns no timing: display collaborators call Next at whatever
// pace suits them and draw the returned sample. This keeps the statistical
// core independent of any particular rendering mechanism.
package sim

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/largenumbers/internal/core/convergence"
	"github.com/louisbranch/largenumbers/internal/core/dice"
)

// tracerName identifies spans emitted by simulation runs.
const tracerName = "github.com/louisbranch/largenumbers/internal/sim"

// ErrTrialLimit indicates the configured trial limit has been reached and
// no further samples will be produced.
var ErrTrialLimit = errors.New("trial limit reached")

// Runner produces one sample per call by rolling a die and feeding the
// outcome to a tracker. It has exactly one consumer per run and is not
// safe for concurrent use.
type Runner struct {
	roller  *dice.Roller
	tracker *convergence.Tracker
	limit   uint64
}

// NewRunner creates a runner. A limit of 0 means the run has no trial
// limit and continues until the caller stops pulling.
func NewRunner(roller *dice.Roller, tracker *convergence.Tracker, limit uint64) (*Runner, error) {
	if roller == nil {
		return nil, errors.New("roller is required")
	}
	if tracker == nil {
		return nil, errors.New("tracker is required")
	}
	return &Runner{roller: roller, tracker: tracker, limit: limit}, nil
}

// Next rolls one trial and returns the derived sample.
//
// It returns ErrTrialLimit once the trial limit is reached and the
// context error once the context ends; both leave the running counters
// untouched.
func (r *Runner) Next(ctx context.Context) (convergence.Sample, error) {
	if r == nil {
		return convergence.Sample{}, errors.New("runner is not configured")
	}
	if err := ctx.Err(); err != nil {
		return convergence.Sample{}, err
	}
	if r.limit > 0 && r.tracker.TrialCount() >= r.limit {
		return convergence.Sample{}, ErrTrialLimit
	}

	trial, err := r.roller.Roll()
	if err != nil {
		return convergence.Sample{}, fmt.Errorf("roll trial: %w", err)
	}
	sample, err := r.tracker.Observe(trial)
	if err != nil {
		return convergence.Sample{}, fmt.Errorf("observe trial: %w", err)
	}
	return sample, nil
}

// Run pulls samples until the trial limit is reached, the context ends,
// or yield returns an error. Reaching the limit or being cancelled are
// normal completions and return nil.
//
// Each run is recorded as a single span carrying the final counters, so
// a traced demo shows one span per animation rather than one per frame.
func (r *Runner) Run(ctx context.Context, yield func(convergence.Sample) error) error {
	if r == nil {
		return errors.New("runner is not configured")
	}
	if yield == nil {
		return errors.New("yield function is required")
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "simulation.run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("die.sides", r.roller.Sides()),
		attribute.Int("die.target_face", r.tracker.TargetFace()),
	)
	defer func() {
		span.SetAttributes(
			attribute.Int64("run.trials", int64(r.tracker.TrialCount())),
			attribute.Int64("run.successes", int64(r.tracker.SuccessCount())),
		)
	}()

	for {
		sample, err := r.Next(ctx)
		if errors.Is(err, ErrTrialLimit) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := yield(sample); err != nil {
			return err
		}
	}
}

// Theoretical reports the constant probability the observed frequency is
// expected to approach.
func (r *Runner) Theoretical() float64 {
	if r == nil {
		return 0
	}
	return r.tracker.Theoretical()
}

// TrialCount reports the number of trials produced so far.
func (r *Runner) TrialCount() uint64 {
	if r == nil {
		return 0
	}
	return r.tracker.TrialCount()
}
