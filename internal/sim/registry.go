package sim

import (
	"fmt"

	"wingsim/internal/phys"
)

// Entity binds a level-authoring id to the physics handles behind it plus
// the metadata round-tripped to the renderer each frame. A nil Entity in
// the registry means the id exists in the level but is not simulated
// (render-only scenery).
type Entity struct {
	Body        phys.BodyHandle
	Collider    phys.ColliderHandle
	HasCollider bool
	Metadata    Metadata
}

// Registry maps entity ids to their physics bindings. It lives entirely on
// the physics goroutine; ids are unique within a loaded level and insertion
// is append-only during a session.
type Registry struct {
	entities map[string]*Entity
	order    []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]*Entity)}
}

// Insert registers an entity under id. A nil entity marks a render-only id.
// Duplicate ids are an authoring error.
func (r *Registry) Insert(id string, e *Entity) error {
	if _, exists := r.entities[id]; exists {
		return fmt.Errorf("duplicate entity id %q", id)
	}
	r.entities[id] = e
	r.order = append(r.order, id)
	return nil
}

// Get resolves an id. The bool reports whether the id is known at all; a
// known id may still map to nil (not simulated).
func (r *Registry) Get(id string) (*Entity, bool) {
	e, ok := r.entities[id]
	return e, ok
}

// Each visits every registered id in insertion order.
func (r *Registry) Each(fn func(id string, e *Entity)) {
	for _, id := range r.order {
		fn(id, r.entities[id])
	}
}

// Len returns the number of registered ids.
func (r *Registry) Len() int {
	return len(r.entities)
}
