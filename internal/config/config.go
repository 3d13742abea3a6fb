package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/jointsim/internal/control"
)

const (
	DefaultDt         = 0.001
	DefaultDuration   = 10.0
	DefaultIntegrator = "rk4"
)

// Scenario describes one simulation: the model, its joint, the controller
// attached to it, and run timing.
type Scenario struct {
	Model      string           `yaml:"model"`
	Joint      JointConfig      `yaml:"joint"`
	Controller ControllerConfig `yaml:"controller"`
	Integrator string           `yaml:"integrator"`
	Dt         float64          `yaml:"dt"`
	Duration   float64          `yaml:"duration"`
}

type JointConfig struct {
	Name    string  `yaml:"name"`
	Inertia float64 `yaml:"inertia"`
	Damping float64 `yaml:"damping"`
}

// ControllerConfig carries the controller's key/value surface. Zero values
// are replaced by defaults in DefaultScenario before unmarshalling, so a
// loaded file only overrides what it names.
type ControllerConfig struct {
	JointName        string  `yaml:"joint_name"`
	Topic            string  `yaml:"topic"`
	InitialVelocity  float64 `yaml:"initial_velocity"`
	UseForceCommands bool    `yaml:"use_force_commands"`
	PGain            float64 `yaml:"p_gain"`
	IGain            float64 `yaml:"i_gain"`
	DGain            float64 `yaml:"d_gain"`
	IMax             float64 `yaml:"i_max"`
	IMin             float64 `yaml:"i_min"`
	CmdMax           float64 `yaml:"cmd_max"`
	CmdMin           float64 `yaml:"cmd_min"`
	CmdOffset        float64 `yaml:"cmd_offset"`
}

func DefaultScenario() *Scenario {
	pid := control.DefaultPIDConfig()
	return &Scenario{
		Model: "arm",
		Joint: JointConfig{
			Name:    "shoulder",
			Inertia: 1.0,
			Damping: 0.1,
		},
		Controller: ControllerConfig{
			JointName: "shoulder",
			PGain:     pid.P,
			IMax:      pid.IMax,
			IMin:      pid.IMin,
			CmdMax:    pid.CmdMax,
			CmdMin:    pid.CmdMin,
		},
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultScenario()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Scenario) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Scenario) Validate() error {
	if c.Joint.Name == "" {
		return fmt.Errorf("joint name must not be empty")
	}
	if c.Joint.Inertia <= 0 {
		return fmt.Errorf("joint inertia must be positive, got %f", c.Joint.Inertia)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	return nil
}
