package physics

import (
	"math"
	"testing"

	"github.com/san-kum/jointsim/internal/ecs"
	"github.com/san-kum/jointsim/internal/sim"
)

type eulerStep struct{}

func (eulerStep) Step(dyn Dynamics, x State, u float64, t, dt float64) State {
	dx := dyn.Derivative(x, u, t)
	out := make(State, len(x))
	for i := range x {
		out[i] = x[i] + dt*dx[i]
	}
	return out
}

func newJointFixture(t *testing.T) (*ecs.Manager, ecs.Entity) {
	t.Helper()
	ecm := ecs.NewManager()
	modelEnt := ecm.CreateModel("arm")
	return ecm, ecm.CreateJoint("shoulder", modelEnt)
}

func TestSystemVelocityCommandActuatesDirectly(t *testing.T) {
	ecm, joint := newJointFixture(t)
	s := NewSystem(joint, NewJoint(), eulerStep{}, ecm)

	if err := ecm.CreateComponent(joint, ecs.JointVelocityCmd, []float64{3.0}); err != nil {
		t.Fatal(err)
	}

	s.PreUpdate(sim.UpdateInfo{Dt: 0.01})

	vel := ecm.Component(joint, ecs.JointVelocity)
	if vel == nil || vel[0] != 3.0 {
		t.Errorf("expected velocity set to command 3.0, got %v", vel)
	}
}

func TestSystemForceIntegration(t *testing.T) {
	ecm, joint := newJointFixture(t)
	dyn := &Joint{Inertia: 1.0, Damping: 0}
	s := NewSystem(joint, dyn, eulerStep{}, ecm)

	if err := ecm.CreateComponent(joint, ecs.JointForceCmd, []float64{2.0}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		s.PreUpdate(sim.UpdateInfo{SimTime: float64(i) * 0.01, Dt: 0.01})
	}

	// Undamped unit inertia under constant force 2 for 1s reaches v = 2.
	vel := ecm.Component(joint, ecs.JointVelocity)
	if math.Abs(vel[0]-2.0) > 1e-9 {
		t.Errorf("expected velocity 2.0, got %f", vel[0])
	}
}

func TestSystemPausedStepHoldsState(t *testing.T) {
	ecm, joint := newJointFixture(t)
	s := NewSystem(joint, NewJoint(), eulerStep{}, ecm)

	if err := ecm.CreateComponent(joint, ecs.JointForceCmd, []float64{2.0}); err != nil {
		t.Fatal(err)
	}

	s.PreUpdate(sim.UpdateInfo{Dt: 0.01, Paused: true})
	if ecm.Component(joint, ecs.JointVelocity) != nil {
		t.Error("paused step must not create or advance state")
	}
}
