// Package control implements the control laws used by actuation systems.
package control

type PIDConfig struct {
	P         float64
	I         float64
	D         float64
	IMax      float64
	IMin      float64
	CmdMax    float64
	CmdMin    float64
	CmdOffset float64
}

// DefaultPIDConfig matches the defaults applied when force commands are
// selected without explicit gains.
func DefaultPIDConfig() PIDConfig {
	return PIDConfig{
		P:      1.0,
		I:      0.0,
		D:      0.0,
		IMax:   1.0,
		IMin:   -1.0,
		CmdMax: 1000.0,
		CmdMin: -1000.0,
	}
}

// PID tracks an error signal and produces a saturated command.
//
// The integral accumulator holds the raw error*dt sum and is clamped to
// [IMin, IMax] after every accumulation; the I gain is applied when terms
// are combined. Not safe for concurrent use.
type PID struct {
	cfg PIDConfig

	integral float64
	prevErr  float64
	first    bool
}

func NewPID(cfg PIDConfig) *PID {
	return &PID{cfg: cfg, first: true}
}

// Update advances the controller with the current error and time step and
// returns the clamped command. The output depends only on the error, dt and
// the accumulated state.
func (p *PID) Update(err, dt float64) float64 {
	pTerm := p.cfg.P * err

	if dt > 0 {
		p.integral += err * dt
		p.integral = clamp(p.integral, p.cfg.IMin, p.cfg.IMax)
	}

	dTerm := 0.0
	if !p.first && dt > 0 {
		dTerm = p.cfg.D * (err - p.prevErr) / dt
	}
	p.prevErr = err
	p.first = false

	out := pTerm + p.cfg.I*p.integral + dTerm + p.cfg.CmdOffset
	return clamp(out, p.cfg.CmdMin, p.cfg.CmdMax)
}

// Integral exposes the accumulator for inspection.
func (p *PID) Integral() float64 { return p.integral }

// Reset clears accumulated state, keeping the configuration.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
