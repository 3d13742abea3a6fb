package integrators

import "github.com/san-kum/jointsim/internal/physics"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn physics.Dynamics, x physics.State, u float64, t float64, dt float64) physics.State {
	dx := dyn.Derivative(x, u, t)
	result := make(physics.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
