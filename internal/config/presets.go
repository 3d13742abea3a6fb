package config

import "sort"

// Presets are ready-made scenarios. Force presets use negative gains: the
// controller sums its terms over error = measured - target, so a stable
// loop needs the force to oppose the error.
var Presets = map[string]*Scenario{
	"velocity": {
		Model:      "arm",
		Joint:      JointConfig{Name: "shoulder", Inertia: 1.0, Damping: 0.1},
		Integrator: "rk4",
		Dt:         0.001,
		Duration:   10.0,
		Controller: ControllerConfig{
			JointName:       "shoulder",
			InitialVelocity: 1.0,
		},
	},
	"force": {
		Model:      "arm",
		Joint:      JointConfig{Name: "shoulder", Inertia: 1.0, Damping: 0.1},
		Integrator: "rk4",
		Dt:         0.001,
		Duration:   10.0,
		Controller: ControllerConfig{
			JointName:        "shoulder",
			InitialVelocity:  1.0,
			UseForceCommands: true,
			PGain:            -50.0,
			IGain:            -20.0,
			IMax:             10.0,
			IMin:             -10.0,
			CmdMax:           1000.0,
			CmdMin:           -1000.0,
		},
	},
	"force-heavy": {
		Model:      "flywheel",
		Joint:      JointConfig{Name: "axle", Inertia: 8.0, Damping: 0.5},
		Integrator: "euler",
		Dt:         0.001,
		Duration:   20.0,
		Controller: ControllerConfig{
			JointName:        "axle",
			InitialVelocity:  2.0,
			UseForceCommands: true,
			PGain:            -200.0,
			IGain:            -80.0,
			IMax:             20.0,
			IMin:             -20.0,
			CmdMax:           500.0,
			CmdMin:           -500.0,
		},
	},
}

func GetPreset(name string) *Scenario {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
