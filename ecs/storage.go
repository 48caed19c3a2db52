package ecs

// Storage is a sparse-set component storage: O(1) insert, lookup and removal
// by entity, with the components packed densely for iteration. Mutations made
// through Set and Remove are recorded in the storage's change log.
type Storage[T any] struct {
	// slot index -> dense index, -1 when the slot holds no component
	sparse []int32
	dense  []Entity
	values []T
	log    ChangeLog
}

// NewStorage creates an empty component storage.
func NewStorage[T any]() *Storage[T] {
	return &Storage[T]{}
}

// Has reports whether the entity currently holds a component.
func (s *Storage[T]) Has(e Entity) bool {
	if int(e.index) >= len(s.sparse) {
		return false
	}
	i := s.sparse[e.index]
	return i >= 0 && s.dense[i] == e
}

// Get returns a copy of the entity's component.
func (s *Storage[T]) Get(e Entity) (T, bool) {
	if !s.Has(e) {
		var zero T
		return zero, false
	}
	return s.values[s.sparse[e.index]], true
}

// Ref returns a pointer to the entity's component, or nil. Writes through the
// pointer bypass change tracking; the pointer is invalidated by the next
// Set or Remove on this storage.
func (s *Storage[T]) Ref(e Entity) *T {
	if !s.Has(e) {
		return nil
	}
	return &s.values[s.sparse[e.index]]
}

// Set inserts or overwrites the entity's component and records an Inserted or
// Modified event accordingly. A write through a stale handle whose slot now
// holds another entity's component is ignored, so a kept-around handle can
// never overwrite or orphan the slot's new occupant.
func (s *Storage[T]) Set(e Entity, value T) {
	for int(e.index) >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}

	if i := s.sparse[e.index]; i >= 0 {
		if s.dense[i] != e {
			// slot recycled under a newer generation
			return
		}
		s.values[i] = value
		s.log.Record(Modified, e)
		return
	}

	s.sparse[e.index] = int32(len(s.dense))
	s.dense = append(s.dense, e)
	s.values = append(s.values, value)
	s.log.Record(Inserted, e)
}

// Remove takes the component off the entity, recording a Removed event.
// It reports whether a component was present.
func (s *Storage[T]) Remove(e Entity) bool {
	if !s.Has(e) {
		return false
	}

	i := s.sparse[e.index]
	last := int32(len(s.dense) - 1)

	// move the last dense element into the vacated position
	s.dense[i] = s.dense[last]
	s.values[i] = s.values[last]
	s.sparse[s.dense[i].index] = i

	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[e.index] = -1

	s.log.Record(Removed, e)
	return true
}

// Each calls fn for every stored component. fn must not insert or remove
// components on this storage.
func (s *Storage[T]) Each(fn func(Entity, *T)) {
	for i, e := range s.dense {
		fn(e, &s.values[i])
	}
}

// Len returns the number of stored components.
func (s *Storage[T]) Len() int {
	return len(s.dense)
}

// Watch registers a change log reader over this storage's mutations.
func (s *Storage[T]) Watch() ReaderID {
	return s.log.Register()
}

// Events drains the events recorded since the reader's previous call.
func (s *Storage[T]) Events(id ReaderID) []Event {
	return s.log.Read(id)
}
