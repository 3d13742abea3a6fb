package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/jointsim/internal/physics"
)

var factories = map[string]func() physics.Integrator{
	"euler": func() physics.Integrator { return NewEuler() },
	"rk4":   func() physics.Integrator { return NewRK4() },
}

// New returns a fresh integrator by name.
func New(name string) (physics.Integrator, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func List() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
