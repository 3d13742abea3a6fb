package physics

import (
	"math"
	"testing"
)

func TestJointDerivative(t *testing.T) {
	j := &Joint{Inertia: 2.0, Damping: 0.5}

	dx := j.Derivative(State{4.0}, 10.0, 0)
	// (10 - 0.5*4) / 2 = 4
	if math.Abs(dx[0]-4.0) > 1e-12 {
		t.Errorf("expected acceleration 4.0, got %f", dx[0])
	}
}

func TestJointSteadyState(t *testing.T) {
	j := NewJoint()

	// At v = u/damping the joint neither accelerates nor decelerates.
	v := 10.0 / j.Damping
	dx := j.Derivative(State{v}, 10.0, 0)
	if math.Abs(dx[0]) > 1e-9 {
		t.Errorf("expected zero acceleration at steady state, got %f", dx[0])
	}
}
