package sim

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/san-kum/jointsim/internal/ecs"
)

type countingSystem struct {
	configured int
	updates    int
	lastInfo   UpdateInfo
	fail       bool
}

func (c *countingSystem) Configure() error {
	c.configured++
	if c.fail {
		return fmt.Errorf("configure failed")
	}
	return nil
}

func (c *countingSystem) PreUpdate(info UpdateInfo) {
	c.updates++
	c.lastInfo = info
}

type countingObserver struct {
	steps int
}

func (c *countingObserver) OnStep(info UpdateInfo) { c.steps++ }

func TestRunnerStepAdvancesTime(t *testing.T) {
	r := NewRunner(ecs.NewManager(), nil)
	s := &countingSystem{}
	r.AddSystem(s)

	r.Step(0.1)
	r.Step(0.1)

	if s.configured != 1 {
		t.Errorf("expected one configure call, got %d", s.configured)
	}
	if s.updates != 2 {
		t.Errorf("expected 2 updates, got %d", s.updates)
	}
	if math.Abs(r.SimTime()-0.2) > 1e-12 {
		t.Errorf("expected sim time 0.2, got %f", r.SimTime())
	}
	if s.lastInfo.SimTime != 0.1 {
		t.Errorf("expected step to see pre-step time 0.1, got %f", s.lastInfo.SimTime)
	}
}

func TestRunnerPausedHoldsTime(t *testing.T) {
	r := NewRunner(ecs.NewManager(), nil)
	s := &countingSystem{}
	r.AddSystem(s)

	r.SetPaused(true)
	r.Step(0.1)

	if r.SimTime() != 0 {
		t.Errorf("paused step must not advance time, got %f", r.SimTime())
	}
	if s.updates != 1 {
		t.Errorf("systems still run while paused, got %d updates", s.updates)
	}
	if !s.lastInfo.Paused {
		t.Error("systems must see the pause flag")
	}
}

func TestRunnerKeepsFailedSystem(t *testing.T) {
	r := NewRunner(ecs.NewManager(), nil)
	s := &countingSystem{fail: true}
	r.AddSystem(s)

	r.Step(0.1)
	if s.updates != 1 {
		t.Error("a system that failed to configure still gets stepped; it no-ops itself")
	}
}

func TestRunnerRun(t *testing.T) {
	r := NewRunner(ecs.NewManager(), nil)
	obs := &countingObserver{}
	r.AddObserver(obs)

	if err := r.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if obs.steps != 10 {
		t.Errorf("expected 10 steps, got %d", obs.steps)
	}
	if math.Abs(r.SimTime()-1.0) > 1e-9 {
		t.Errorf("expected sim time 1.0, got %f", r.SimTime())
	}
}

func TestRunnerRunInvalidConfig(t *testing.T) {
	r := NewRunner(ecs.NewManager(), nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRunnerRunCancelled(t *testing.T) {
	r := NewRunner(ecs.NewManager(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.Run(ctx, Config{Dt: 0.1, Duration: 1.0}); err == nil {
		t.Error("expected context error")
	}
}
