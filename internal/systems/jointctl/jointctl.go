// Package jointctl controls a single named joint of a model. Velocity
// commands arrive asynchronously over the transport node; each simulation
// step turns the latest command into either a direct velocity target or a
// PID-derived force.
package jointctl

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/jointsim/internal/control"
	"github.com/san-kum/jointsim/internal/ecs"
	"github.com/san-kum/jointsim/internal/sim"
	"github.com/san-kum/jointsim/internal/transport"
)

// DefaultTopic derives the command topic used when none is configured.
func DefaultTopic(model, joint string) string {
	return fmt.Sprintf("/model/%s/joint/%s/cmd_vel", model, joint)
}

type Config struct {
	// JointName selects the joint to control. Required.
	JointName string
	// Topic overrides the default command topic
	// /model/<model>/joint/<joint>/cmd_vel.
	Topic string
	// InitialVelocity seeds the command value before the first message.
	InitialVelocity float64
	// UseForceCommands selects force mode: the velocity target is tracked
	// through the PID law instead of being written directly.
	UseForceCommands bool
	// PID configures the force-mode controller. Ignored in velocity mode.
	PID control.PIDConfig
}

// System bridges the command topic to per-step actuation of one joint.
//
// Two goroutines touch a System: the transport delivery goroutine, which
// only writes jointVelCmd, and the simulation step goroutine, which owns
// everything else. jointVelCmd is the only shared field and is guarded by
// cmdMu; the latest write wins, earlier commands are discarded.
type System struct {
	cfg   Config
	model ecs.Model
	ecm   *ecs.Manager
	node  *transport.Node
	log   *zap.Logger

	cmdMu       sync.Mutex
	jointVelCmd float64

	jointEntity ecs.Entity
	velPID      *control.PID
	inert       bool
}

func New(cfg Config, model ecs.Model, ecm *ecs.Manager, node *transport.Node, log *zap.Logger) *System {
	if log == nil {
		log = zap.NewNop()
	}
	return &System{
		cfg:   cfg,
		model: model,
		ecm:   ecm,
		node:  node,
		log:   log,
	}
}

// Configure validates the attachment, initializes the command value and
// subscribes to the command topic. On error the system goes permanently
// inert: every later step is a no-op.
func (s *System) Configure() error {
	if !s.model.Valid(s.ecm) {
		s.inert = true
		s.log.Error("joint controller must be attached to a model entity, failed to initialize")
		return fmt.Errorf("jointctl: invalid model entity %d", s.model.Entity())
	}

	if s.cfg.JointName == "" {
		s.inert = true
		s.log.Error("joint controller found an empty joint name, failed to initialize")
		return fmt.Errorf("jointctl: empty joint name")
	}

	s.jointVelCmd = s.cfg.InitialVelocity
	if s.cfg.InitialVelocity != 0 {
		s.log.Info("joint velocity initialized",
			zap.Float64("velocity", s.cfg.InitialVelocity))
	}

	if s.cfg.UseForceCommands {
		s.velPID = control.NewPID(s.cfg.PID)
		s.log.Debug("force mode",
			zap.String("joint", s.cfg.JointName),
			zap.Float64("p_gain", s.cfg.PID.P),
			zap.Float64("i_gain", s.cfg.PID.I),
			zap.Float64("d_gain", s.cfg.PID.D),
			zap.Float64("i_max", s.cfg.PID.IMax),
			zap.Float64("i_min", s.cfg.PID.IMin),
			zap.Float64("cmd_max", s.cfg.PID.CmdMax),
			zap.Float64("cmd_min", s.cfg.PID.CmdMin),
			zap.Float64("cmd_offset", s.cfg.PID.CmdOffset))
	} else {
		s.log.Debug("velocity mode", zap.String("joint", s.cfg.JointName))
	}

	topic := s.cfg.Topic
	if topic == "" {
		topic = DefaultTopic(s.model.Name(s.ecm), s.cfg.JointName)
	}
	s.node.Subscribe(topic, s.onCmdVel)
	s.log.Info("subscribed to velocity commands", zap.String("topic", topic))

	return nil
}

// onCmdVel runs on the transport delivery goroutine.
func (s *System) onCmdVel(value float64) {
	s.cmdMu.Lock()
	s.jointVelCmd = value
	s.cmdMu.Unlock()
}

// Joint returns the resolved joint entity, or ecs.Null before resolution.
func (s *System) Joint() ecs.Entity { return s.jointEntity }

// Reset clears accumulated controller state. Velocity mode carries none.
func (s *System) Reset() {
	if s.velPID != nil {
		s.velPID.Reset()
	}
}

// Target returns the latest command value.
func (s *System) Target() float64 {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	return s.jointVelCmd
}

// PreUpdate runs once per step on the simulation goroutine.
func (s *System) PreUpdate(info sim.UpdateInfo) {
	if s.inert {
		return
	}

	if info.Dt < 0 {
		s.log.Warn("detected jump back in time, system may not work properly",
			zap.Float64("dt", info.Dt))
	}

	// Resolve the joint lazily; once found the entity is kept for good.
	if s.jointEntity == ecs.Null {
		s.jointEntity = s.model.JointByName(s.ecm, s.cfg.JointName)
	}
	if s.jointEntity == ecs.Null {
		return
	}

	if info.Paused {
		return
	}

	velComp := s.ecm.Component(s.jointEntity, ecs.JointVelocity)
	if velComp == nil {
		if err := s.ecm.CreateComponent(s.jointEntity, ecs.JointVelocity, []float64{0}); err != nil {
			return
		}
		velComp = s.ecm.Component(s.jointEntity, ecs.JointVelocity)
	}
	if velComp == nil {
		return
	}

	s.cmdMu.Lock()
	target := s.jointVelCmd
	s.cmdMu.Unlock()

	if s.cfg.UseForceCommands {
		velErr := velComp[0] - target
		force := s.velPID.Update(velErr, info.Dt)

		forceComp := s.ecm.Component(s.jointEntity, ecs.JointForceCmd)
		if forceComp == nil {
			s.ecm.CreateComponent(s.jointEntity, ecs.JointForceCmd, []float64{force})
		} else {
			forceComp[0] = force
		}
		return
	}

	velCmdComp := s.ecm.Component(s.jointEntity, ecs.JointVelocityCmd)
	if velCmdComp == nil {
		s.ecm.CreateComponent(s.jointEntity, ecs.JointVelocityCmd, []float64{target})
	} else {
		velCmdComp[0] = target
	}
}
