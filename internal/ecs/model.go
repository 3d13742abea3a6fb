package ecs

// Model wraps a composite entity and exposes lookups scoped to it.
type Model struct {
	entity Entity
}

func NewModel(e Entity) Model {
	return Model{entity: e}
}

func (m Model) Entity() Entity { return m.entity }

// Valid reports whether the wrapped entity exists and is a model.
func (m Model) Valid(ecm *Manager) bool {
	k, ok := ecm.Kind(m.entity)
	return ok && k == KindModel
}

func (m Model) Name(ecm *Manager) string {
	return ecm.Name(m.entity)
}

// JointByName returns the model's joint with the given name, or Null if the
// model has no such joint.
func (m Model) JointByName(ecm *Manager, name string) Entity {
	for e, k := range ecm.kinds {
		if k == KindJoint && ecm.parent[e] == m.entity && ecm.names[e] == name {
			return e
		}
	}
	return Null
}
