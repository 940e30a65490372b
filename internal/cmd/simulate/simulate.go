// Package simulate implements the terminal animation command: it runs the
// dice simulation and paints the convergence chart in place until the
// trial limit is reached or the process is interrupted.
package simulate

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/muesli/termenv"

	"github.com/louisbranch/largenumbers/internal/core/convergence"
	"github.com/louisbranch/largenumbers/internal/core/dice"
	"github.com/louisbranch/largenumbers/internal/platform/config"
	"github.com/louisbranch/largenumbers/internal/platform/otel"
	"github.com/louisbranch/largenumbers/internal/random"
	"github.com/louisbranch/largenumbers/internal/render/term"
	"github.com/louisbranch/largenumbers/internal/sim"
)

// ParseConfig loads environment defaults and parses flags over them.
func ParseConfig(fs *flag.FlagSet, args []string) (config.Config, error) {
	cfg, err := config.ParseEnv()
	if err != nil {
		return config.Config{}, err
	}

	fs.IntVar(&cfg.TargetFace, "face", cfg.TargetFace, "die face counted as a success")
	fs.Uint64Var(&cfg.Trials, "trials", cfg.Trials, "number of trials to animate")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = derive one)")
	fs.DurationVar(&cfg.FrameInterval, "interval", cfg.FrameInterval, "delay between frames")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// Run executes one animated simulation run.
func Run(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdown, err := otel.Setup(ctx, "largenumbers-simulate")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}
	return runAnimation(ctx, cfg, runner, os.Stdout)
}

// newRunner assembles the roller/tracker pipeline, deriving a seed when
// none was configured so the run stays replayable.
func newRunner(cfg config.Config) (*sim.Runner, error) {
	seed := cfg.Seed
	if seed == 0 {
		derived, err := random.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("derive seed: %w", err)
		}
		seed = derived
		log.Printf("using seed %d", seed)
	}

	roller, err := dice.NewRoller(config.DieSides, seed)
	if err != nil {
		return nil, fmt.Errorf("init roller: %w", err)
	}
	tracker, err := convergence.NewTracker(config.DieSides, cfg.TargetFace)
	if err != nil {
		return nil, fmt.Errorf("init tracker: %w", err)
	}
	runner, err := sim.NewRunner(roller, tracker, cfg.Trials)
	if err != nil {
		return nil, fmt.Errorf("init runner: %w", err)
	}
	return runner, nil
}

// runAnimation drives the renderer at the configured frame interval. The
// renderer pulls nothing itself; pacing lives here, on the display side.
func runAnimation(ctx context.Context, cfg config.Config, runner *sim.Runner, out io.Writer) error {
	renderer, err := term.NewRenderer(out, cfg.Trials, runner.Theoretical())
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	screen := termenv.NewOutput(out)
	screen.HideCursor()
	defer screen.ShowCursor()

	var final convergence.Sample
	err = runner.Run(ctx, func(sample convergence.Sample) error {
		final = sample
		renderer.Observe(sample)
		renderer.Render()
		if cfg.FrameInterval > 0 {
			timer := time.NewTimer(cfg.FrameInterval)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("run simulation: %w", err)
	}

	if final.Index > 0 {
		log.Printf("run complete: %d trials, observed %.4f, theoretical %.4f",
			final.Index, final.Frequency, runner.Theoretical())
	}
	return nil
}
