package physics

import (
	"github.com/san-kum/jointsim/internal/ecs"
	"github.com/san-kum/jointsim/internal/sim"
)

// System advances one joint's measured velocity each unpaused step.
// A velocity command actuates the joint directly; otherwise any force
// command is integrated through the joint dynamics.
type System struct {
	joint ecs.Entity
	dyn   Dynamics
	integ Integrator
	ecm   *ecs.Manager
}

func NewSystem(joint ecs.Entity, dyn Dynamics, integ Integrator, ecm *ecs.Manager) *System {
	return &System{joint: joint, dyn: dyn, integ: integ, ecm: ecm}
}

func (s *System) PreUpdate(info sim.UpdateInfo) {
	if info.Paused || info.Dt <= 0 {
		return
	}

	vel := s.ecm.Component(s.joint, ecs.JointVelocity)
	if vel == nil {
		if err := s.ecm.CreateComponent(s.joint, ecs.JointVelocity, []float64{0}); err != nil {
			return
		}
		vel = s.ecm.Component(s.joint, ecs.JointVelocity)
	}

	if cmd := s.ecm.Component(s.joint, ecs.JointVelocityCmd); cmd != nil {
		vel[0] = cmd[0]
		return
	}

	force := 0.0
	if f := s.ecm.Component(s.joint, ecs.JointForceCmd); f != nil {
		force = f[0]
	}

	next := s.integ.Step(s.dyn, State{vel[0]}, force, info.SimTime, info.Dt)
	vel[0] = next[0]
}
