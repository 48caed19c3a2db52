// Package ecs provides the entity and component storage substrate for the
// scene: generational entity handles, sparse-set component storages, and
// cursor-read change logs over component mutations.
package ecs

// Entity is an opaque handle to a scene object.
// It packs a slot index and a generation counter, so a handle kept across the
// destruction and reuse of its slot is detected as stale instead of aliasing
// the new occupant.
type Entity struct {
	index      uint32
	generation uint32
}

// Index returns the dense slot index of the entity, usable as a key into
// per-slot structures such as bitsets.
func (e Entity) Index() uint32 {
	return e.index
}

// Generation returns the generation counter of the entity's slot at the time
// the handle was created.
func (e Entity) Generation() uint32 {
	return e.generation
}

// IsZero reports whether e is the zero handle, which never names a live entity.
func (e Entity) IsZero() bool {
	return e.generation == 0
}

// Registry allocates and recycles entity handles.
type Registry struct {
	// generation per slot, 0 means the slot was never allocated
	generations []uint32
	alive       []bool
	free        []uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Create allocates a new entity, reusing a destroyed slot when one is free.
func (r *Registry) Create() Entity {
	if n := len(r.free); n > 0 {
		index := r.free[n-1]
		r.free = r.free[:n-1]
		r.generations[index]++
		r.alive[index] = true
		return Entity{index: index, generation: r.generations[index]}
	}

	index := uint32(len(r.generations))
	r.generations = append(r.generations, 1)
	r.alive = append(r.alive, true)

	return Entity{index: index, generation: 1}
}

// Destroy releases the entity's slot for reuse. Handles to the destroyed
// entity become stale. Destroying an already-stale handle is a no-op.
func (r *Registry) Destroy(e Entity) {
	if !r.Alive(e) {
		return
	}
	r.alive[e.index] = false
	r.free = append(r.free, e.index)
}

// Alive reports whether the handle still names a live entity.
func (r *Registry) Alive(e Entity) bool {
	return int(e.index) < len(r.generations) &&
		r.alive[e.index] &&
		r.generations[e.index] == e.generation
}

// At returns the live entity currently occupying the given slot index.
func (r *Registry) At(index uint32) (Entity, bool) {
	if int(index) >= len(r.generations) || !r.alive[index] {
		return Entity{}, false
	}
	return Entity{index: index, generation: r.generations[index]}, true
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.generations) - len(r.free)
}
