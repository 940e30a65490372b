// Package web implements the web display command: it runs the dice
// simulation once and serves its sample stream to browsers, which draw
// the convergence chart themselves.
package web

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/largenumbers/internal/core/convergence"
	"github.com/louisbranch/largenumbers/internal/core/dice"
	"github.com/louisbranch/largenumbers/internal/platform/config"
	"github.com/louisbranch/largenumbers/internal/platform/otel"
	"github.com/louisbranch/largenumbers/internal/random"
	"github.com/louisbranch/largenumbers/internal/sim"
	display "github.com/louisbranch/largenumbers/internal/web"
)

// ParseConfig loads environment defaults and parses flags over them.
func ParseConfig(fs *flag.FlagSet, args []string) (config.Config, error) {
	cfg, err := config.ParseEnv()
	if err != nil {
		return config.Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.IntVar(&cfg.TargetFace, "face", cfg.TargetFace, "die face counted as a success")
	fs.Uint64Var(&cfg.Trials, "trials", cfg.Trials, "number of trials to run (0 = until interrupted)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = derive one)")
	fs.DurationVar(&cfg.FrameInterval, "interval", cfg.FrameInterval, "delay between samples")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// Run starts the simulation and serves its stream until the context ends.
func Run(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdown, err := otel.Setup(ctx, "largenumbers-web")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	seed := cfg.Seed
	if seed == 0 {
		derived, err := random.NewSeed()
		if err != nil {
			return fmt.Errorf("derive seed: %w", err)
		}
		seed = derived
		log.Printf("using seed %d", seed)
	}

	roller, err := dice.NewRoller(config.DieSides, seed)
	if err != nil {
		return fmt.Errorf("init roller: %w", err)
	}
	tracker, err := convergence.NewTracker(config.DieSides, cfg.TargetFace)
	if err != nil {
		return fmt.Errorf("init tracker: %w", err)
	}
	runner, err := sim.NewRunner(roller, tracker, cfg.Trials)
	if err != nil {
		return fmt.Errorf("init runner: %w", err)
	}

	hub := display.NewHub(runner.Theoretical())
	server, err := display.NewServer(display.Config{HTTPAddr: cfg.HTTPAddr}, hub)
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}

	go func() {
		defer hub.Close()
		err := runner.Run(ctx, func(sample convergence.Sample) error {
			hub.Publish(sample)
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
			log.Printf("simulation failed: %v", err)
			return
		}
		log.Printf("run complete: %d trials", runner.TrialCount())
	}()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve web display: %w", err)
	}
	return nil
}
