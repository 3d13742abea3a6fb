// Package metrics aggregates per-step samples of the controlled joint.
package metrics

import "math"

// Sample is one step's view of the loop: measured velocity, the command
// target it should track, and the actuation value written for it.
type Sample struct {
	T        float64
	Measured float64
	Target   float64
	Cmd      float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(s Sample) {
	c.sum += math.Abs(s.Cmd)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// TrackingError reports the RMS deviation of measured velocity from target.
type TrackingError struct {
	sumSq   float64
	samples int
}

func NewTrackingError() *TrackingError {
	return &TrackingError{}
}

func (t *TrackingError) Name() string { return "tracking_error_rms" }

func (t *TrackingError) Observe(s Sample) {
	e := s.Measured - s.Target
	t.sumSq += e * e
	t.samples++
}

func (t *TrackingError) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return math.Sqrt(t.sumSq / float64(t.samples))
}

func (t *TrackingError) Reset() {
	t.sumSq = 0
	t.samples = 0
}
