// Package sim hosts the simulation loop. A Runner owns the entity store,
// steps every registered system sequentially, and never re-enters a step.
package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/jointsim/internal/ecs"
)

type Runner struct {
	ecm       *ecs.Manager
	systems   []System
	observers []Observer
	t         float64
	paused    bool
	log       *zap.Logger
}

func NewRunner(ecm *ecs.Manager, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{ecm: ecm, log: log}
}

func (r *Runner) ECM() *ecs.Manager { return r.ecm }

func (r *Runner) SimTime() float64 { return r.t }

func (r *Runner) Paused() bool { return r.paused }

// SetPaused marks following steps as paused. Paused steps still run systems
// so they can observe the flag, but well-behaved systems mutate nothing.
func (r *Runner) SetPaused(paused bool) { r.paused = paused }

// AddSystem registers a system and configures it if it implements
// Configurer. A failed configure is logged and the system stays registered;
// it is expected to no-op every step from then on.
func (r *Runner) AddSystem(s System) {
	if c, ok := s.(Configurer); ok {
		if err := c.Configure(); err != nil {
			r.log.Error("system failed to configure", zap.Error(err))
		}
	}
	r.systems = append(r.systems, s)
}

func (r *Runner) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// Step advances the simulation by dt seconds. Time does not advance while
// paused.
func (r *Runner) Step(dt float64) {
	info := UpdateInfo{SimTime: r.t, Dt: dt, Paused: r.paused}

	for _, s := range r.systems {
		if p, ok := s.(PreUpdater); ok {
			p.PreUpdate(info)
		}
	}

	if !r.paused {
		r.t += dt
	}

	for _, o := range r.observers {
		o.OnStep(info)
	}
}

// Run steps until the configured duration of simulated time has elapsed or
// the context is cancelled.
func (r *Runner) Run(ctx context.Context, cfg Config) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	steps := int(cfg.Duration / cfg.Dt)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.Step(cfg.Dt)
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
