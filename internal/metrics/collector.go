package metrics

import (
	"github.com/san-kum/jointsim/internal/ecs"
	"github.com/san-kum/jointsim/internal/sim"
)

// Collector observes the runner and records one Sample per unpaused step,
// feeding every registered metric and keeping the full trace for storage
// and plotting.
type Collector struct {
	joint   ecs.Entity
	ecm     *ecs.Manager
	target  func() float64
	metrics []Metric

	Trace []Sample
}

func NewCollector(joint ecs.Entity, ecm *ecs.Manager, target func() float64) *Collector {
	return &Collector{joint: joint, ecm: ecm, target: target}
}

func (c *Collector) Add(m Metric) { c.metrics = append(c.metrics, m) }

func (c *Collector) OnStep(info sim.UpdateInfo) {
	if info.Paused {
		return
	}

	s := Sample{T: info.SimTime, Target: c.target()}
	if vel := c.ecm.Component(c.joint, ecs.JointVelocity); vel != nil {
		s.Measured = vel[0]
	}
	if f := c.ecm.Component(c.joint, ecs.JointForceCmd); f != nil {
		s.Cmd = f[0]
	} else if v := c.ecm.Component(c.joint, ecs.JointVelocityCmd); v != nil {
		s.Cmd = v[0]
	}

	for _, m := range c.metrics {
		m.Observe(s)
	}
	c.Trace = append(c.Trace, s)
}

// Values returns the current value of every metric by name.
func (c *Collector) Values() map[string]float64 {
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (c *Collector) Reset() {
	for _, m := range c.metrics {
		m.Reset()
	}
	c.Trace = c.Trace[:0]
}
