// Package physics models the actuated joint and advances its state each
// step from the actuation components the controller writes.
package physics

type State []float64

// Dynamics computes state derivatives under a single actuation input.
type Dynamics interface {
	Derivative(x State, u float64, t float64) State
}

// Integrator advances a state by dt.
type Integrator interface {
	Step(dyn Dynamics, x State, u float64, t float64, dt float64) State
}

const (
	DefaultInertia = 1.0
	DefaultDamping = 0.1
)

// Joint is a single rotational degree of freedom with viscous damping.
// State is [velocity]; the input is an applied force.
type Joint struct {
	Inertia float64
	Damping float64
}

func NewJoint() *Joint {
	return &Joint{Inertia: DefaultInertia, Damping: DefaultDamping}
}

func (j *Joint) Derivative(x State, u float64, t float64) State {
	return State{(u - j.Damping*x[0]) / j.Inertia}
}
