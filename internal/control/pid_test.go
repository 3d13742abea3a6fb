package control

import (
	"math"
	"testing"
)

func TestPIDProportionalSaturation(t *testing.T) {
	cfg := DefaultPIDConfig()
	cfg.P = 2.0
	cfg.CmdMax = 10.0
	cfg.CmdMin = -10.0

	pid := NewPID(cfg)

	out := pid.Update(100.0, 1.0)
	if out != 10.0 {
		t.Errorf("expected output clamped to 10, got %f", out)
	}

	out = pid.Update(-100.0, 1.0)
	if out != -10.0 {
		t.Errorf("expected output clamped to -10, got %f", out)
	}
}

func TestPIDAntiWindup(t *testing.T) {
	cfg := DefaultPIDConfig()
	cfg.P = 0
	cfg.I = 1.0
	cfg.IMax = 1.0
	cfg.IMin = -1.0

	pid := NewPID(cfg)

	pid.Update(5.0, 1.0)
	if pid.Integral() != 1.0 {
		t.Errorf("accumulator should clamp to 1 after first update, got %f", pid.Integral())
	}

	out := pid.Update(5.0, 1.0)
	if pid.Integral() != 1.0 {
		t.Errorf("accumulator should stay at 1, got %f", pid.Integral())
	}
	if out != 1.0 {
		t.Errorf("integral contribution should saturate at 1, got %f", out)
	}

	// Sustained negative error walks the accumulator down to the lower bound.
	for i := 0; i < 10; i++ {
		pid.Update(-5.0, 1.0)
	}
	if pid.Integral() != -1.0 {
		t.Errorf("accumulator should clamp to -1, got %f", pid.Integral())
	}
}

func TestPIDFirstCallDerivativeSuppressed(t *testing.T) {
	cfg := DefaultPIDConfig()
	cfg.P = 0
	cfg.D = 100.0

	pid := NewPID(cfg)

	out := pid.Update(50.0, 0.1)
	if out != 0 {
		t.Errorf("first update must have zero derivative term, got %f", out)
	}

	out = pid.Update(51.0, 0.1)
	expected := 100.0 * (51.0 - 50.0) / 0.1
	if math.Abs(out-expected) > 1e-9 {
		t.Errorf("expected derivative output %f, got %f", expected, out)
	}
}

func TestPIDNonPositiveDt(t *testing.T) {
	cfg := DefaultPIDConfig()
	cfg.P = 1.0
	cfg.I = 1.0
	cfg.D = 1.0

	pid := NewPID(cfg)
	pid.Update(1.0, 0.1)

	// dt <= 0 must not integrate and must drop the derivative term, but the
	// previous error is still recorded.
	out := pid.Update(3.0, 0)
	if math.Abs(out-(3.0+0.1)) > 1e-9 {
		t.Errorf("expected P term plus held integral, got %f", out)
	}

	out = pid.Update(3.0, 0.1)
	if math.Abs(out-(3.0+0.4)) > 1e-9 {
		t.Errorf("derivative should be zero after equal errors, got %f", out)
	}
}

func TestPIDOffset(t *testing.T) {
	cfg := DefaultPIDConfig()
	cfg.P = 1.0
	cfg.CmdOffset = 2.5

	pid := NewPID(cfg)
	out := pid.Update(1.0, 0.1)
	if math.Abs(out-3.5) > 1e-9 {
		t.Errorf("expected offset applied before clamping, got %f", out)
	}
}

func TestPIDDeterminism(t *testing.T) {
	cfg := DefaultPIDConfig()
	cfg.P = 1.5
	cfg.I = 0.3
	cfg.D = 0.1

	inputs := []struct{ err, dt float64 }{
		{1.0, 0.01}, {0.8, 0.01}, {-0.2, 0.02}, {0.0, 0.01}, {0.5, -0.01}, {0.5, 0.01},
	}

	run := func() []float64 {
		pid := NewPID(cfg)
		out := make([]float64, 0, len(inputs))
		for _, in := range inputs {
			out = append(out, pid.Update(in.err, in.dt))
		}
		return out
	}

	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("output %d differs between runs: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestPIDReset(t *testing.T) {
	cfg := DefaultPIDConfig()
	cfg.I = 1.0

	pid := NewPID(cfg)
	pid.Update(1.0, 1.0)
	pid.Reset()

	if pid.Integral() != 0 {
		t.Errorf("reset should clear accumulator, got %f", pid.Integral())
	}

	cfg2 := cfg
	cfg2.D = 10.0
	pid2 := NewPID(cfg2)
	first := pid2.Update(1.0, 1.0)
	pid2.Reset()
	again := pid2.Update(1.0, 1.0)
	if first != again {
		t.Errorf("reset controller should repeat its first output: %f vs %f", first, again)
	}
}
