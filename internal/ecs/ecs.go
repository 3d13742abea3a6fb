// Package ecs holds simulation state as entities with scalar components.
// Systems read and write component data through the Manager; the Manager
// itself is only touched from the simulation step goroutine.
package ecs

import "fmt"

type Entity uint64

// Null marks an entity that has not been resolved yet.
const Null Entity = 0

type Kind int

const (
	KindModel Kind = iota
	KindJoint
)

// ComponentType keys a scalar-slice component slot on an entity.
type ComponentType string

const (
	JointVelocity    ComponentType = "joint_velocity"
	JointVelocityCmd ComponentType = "joint_velocity_cmd"
	JointForceCmd    ComponentType = "joint_force_cmd"
)

type Manager struct {
	next   Entity
	kinds  map[Entity]Kind
	names  map[Entity]string
	parent map[Entity]Entity
	comps  map[ComponentType]map[Entity][]float64
}

func NewManager() *Manager {
	return &Manager{
		kinds:  make(map[Entity]Kind),
		names:  make(map[Entity]string),
		parent: make(map[Entity]Entity),
		comps:  make(map[ComponentType]map[Entity][]float64),
	}
}

func (m *Manager) create(kind Kind, name string, parent Entity) Entity {
	m.next++
	e := m.next
	m.kinds[e] = kind
	m.names[e] = name
	m.parent[e] = parent
	return e
}

func (m *Manager) CreateModel(name string) Entity {
	return m.create(KindModel, name, Null)
}

func (m *Manager) CreateJoint(name string, parent Entity) Entity {
	return m.create(KindJoint, name, parent)
}

func (m *Manager) HasEntity(e Entity) bool {
	_, ok := m.kinds[e]
	return ok
}

func (m *Manager) Name(e Entity) string { return m.names[e] }

func (m *Manager) Kind(e Entity) (Kind, bool) {
	k, ok := m.kinds[e]
	return k, ok
}

// Component returns the data slice for the given slot, or nil if the entity
// has no such component. The slice is live: writes through it are visible to
// later readers within the same step sequence.
func (m *Manager) Component(e Entity, t ComponentType) []float64 {
	byEntity, ok := m.comps[t]
	if !ok {
		return nil
	}
	return byEntity[e]
}

// CreateComponent attaches a new component slot to an entity. It fails when
// the entity does not exist or the slot is already present.
func (m *Manager) CreateComponent(e Entity, t ComponentType, data []float64) error {
	if !m.HasEntity(e) {
		return fmt.Errorf("ecs: no entity %d", e)
	}
	byEntity, ok := m.comps[t]
	if !ok {
		byEntity = make(map[Entity][]float64)
		m.comps[t] = byEntity
	}
	if _, exists := byEntity[e]; exists {
		return fmt.Errorf("ecs: entity %d already has component %s", e, t)
	}
	c := make([]float64, len(data))
	copy(c, data)
	byEntity[e] = c
	return nil
}
