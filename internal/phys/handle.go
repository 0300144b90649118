package phys

// BodyHandle is a stable reference to a rigid body inside a World. Handles
// are index+generation pairs: a handle minted by one body set never resolves
// against a slot that has since been reused. The zero value is invalid.
type BodyHandle struct {
	index      uint32
	generation uint32
}

// IsValid reports whether the handle was ever issued by a set.
func (h BodyHandle) IsValid() bool {
	return h.generation != 0
}

// ColliderHandle is a stable reference to a collider inside a World.
// The zero value is invalid.
type ColliderHandle struct {
	index      uint32
	generation uint32
}

func (h ColliderHandle) IsValid() bool {
	return h.generation != 0
}

type bodySlot struct {
	body       RigidBody
	generation uint32
}

// BodySet owns rigid bodies and issues handles for them. Insertion is
// append-only for the lifetime of a loaded level.
type BodySet struct {
	slots []bodySlot
}

func NewBodySet() *BodySet {
	return &BodySet{}
}

// Insert adds a body and returns its handle.
func (s *BodySet) Insert(body RigidBody) BodyHandle {
	s.slots = append(s.slots, bodySlot{body: body, generation: 1})
	return BodyHandle{index: uint32(len(s.slots) - 1), generation: 1}
}

// Get resolves a handle. Absence means "not simulated", not an error.
func (s *BodySet) Get(h BodyHandle) (*RigidBody, bool) {
	if !h.IsValid() || int(h.index) >= len(s.slots) {
		return nil, false
	}
	slot := &s.slots[h.index]
	if slot.generation != h.generation {
		return nil, false
	}
	return &slot.body, true
}

// Len returns the number of bodies in the set.
func (s *BodySet) Len() int {
	return len(s.slots)
}

type colliderSlot struct {
	collider   Collider
	generation uint32
}

// ColliderSet owns colliders, keyed by handle like BodySet.
type ColliderSet struct {
	slots []colliderSlot
}

func NewColliderSet() *ColliderSet {
	return &ColliderSet{}
}

// Insert adds a collider attached to the given body and returns its handle.
func (s *ColliderSet) Insert(c Collider) ColliderHandle {
	s.slots = append(s.slots, colliderSlot{collider: c, generation: 1})
	return ColliderHandle{index: uint32(len(s.slots) - 1), generation: 1}
}

func (s *ColliderSet) Get(h ColliderHandle) (*Collider, bool) {
	if !h.IsValid() || int(h.index) >= len(s.slots) {
		return nil, false
	}
	slot := &s.slots[h.index]
	if slot.generation != h.generation {
		return nil, false
	}
	return &slot.collider, true
}

func (s *ColliderSet) Len() int {
	return len(s.slots)
}

// each iterates over live colliders with their handles.
func (s *ColliderSet) each(fn func(ColliderHandle, *Collider) bool) {
	for i := range s.slots {
		h := ColliderHandle{index: uint32(i), generation: s.slots[i].generation}
		if !fn(h, &s.slots[i].collider) {
			return
		}
	}
}
