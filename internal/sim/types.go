package sim

// UpdateInfo carries per-step timing and pause state into systems.
// Dt is in seconds and may be negative on a backward time jump.
type UpdateInfo struct {
	SimTime float64
	Dt      float64
	Paused  bool
}

// System is anything added to a Runner. Behavior comes from the optional
// interfaces below.
type System interface{}

// Configurer runs once, before stepping starts. A configuration error is
// logged by the Runner and the system is kept; systems go inert on their own
// when configuration fails.
type Configurer interface {
	Configure() error
}

// PreUpdater runs once per step with the current timing info.
type PreUpdater interface {
	PreUpdate(info UpdateInfo)
}

// Observer is notified after each completed step.
type Observer interface {
	OnStep(info UpdateInfo)
}

type Config struct {
	Dt       float64
	Duration float64
}
