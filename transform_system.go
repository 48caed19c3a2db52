package vkengine

import (
	"github.com/TurboCartPig/vkengine/ecs"
	"github.com/bits-and-blooms/bitset"
)

// TransformSystem keeps a TransformMatrix in sync for every entity that holds
// a Transform.
//
// The system is incremental: it recomputes matrices only for entities whose
// effective transform changed since the previous pass, found by draining the
// Transform storage's change log and the hierarchy index's change stream, and
// widening over all transitive descendants. The only state carried between
// frames is the two reader cursors; the dirty set is rebuilt every pass.
//
// World matrices compose parent-first: for a child C under parent P,
// world(C) = P.Mat4() * C.Mat4(). Each dirty entity is recomputed by walking
// its ancestor chain from raw local transforms, so the result does not depend
// on the order entities are processed within a pass.
type TransformSystem struct {
	dirty           *bitset.BitSet
	transformReader ecs.ReaderID
	hierarchyReader ecs.ReaderID
}

// NewTransformSystem creates the system and registers its readers over the
// world's change streams. Mutations made before this call are not observed.
func NewTransformSystem(w *World) *TransformSystem {
	return &TransformSystem{
		dirty:           bitset.New(8),
		transformReader: w.Transforms.Watch(),
		hierarchyReader: w.Hierarchy.Watch(),
	}
}

// Run executes one sync pass. It must run after Hierarchy.Maintain within the
// same frame, and never concurrently with transform or link edits.
func (s *TransformSystem) Run(w *World) {
	// Add a TransformMatrix to every entity that has a Transform but no
	// matrix yet, covering entities created since the last pass
	w.Transforms.Each(func(e ecs.Entity, t *Transform) {
		if !w.Matrices.Has(e) {
			w.Matrices.Set(e, TransformMatrix{Mat: t.Mat4()})
			s.dirty.Set(uint(e.Index()))
		}
	})

	// New or modified transforms are dirty; a removed transform drops its
	// matrix instead
	for _, event := range w.Transforms.Events(s.transformReader) {
		switch event.Kind {
		case ecs.Inserted, ecs.Modified:
			s.dirty.Set(uint(event.Entity.Index()))
		case ecs.Removed:
			w.Matrices.Remove(event.Entity)
		}
	}

	// Relinked entities are dirty; entities gone from the scene are torn down
	for _, event := range w.Hierarchy.Events(s.hierarchyReader) {
		switch event.Kind {
		case ecs.Modified:
			s.dirty.Set(uint(event.Entity.Index()))
		case ecs.Removed:
			w.Links.Remove(event.Entity)
			w.Transforms.Remove(event.Entity)
			w.Matrices.Remove(event.Entity)
		}
	}

	// A dirty entity invalidates the cached matrices of all its descendants.
	// AllChildren is already transitive, so one pass over the collected set
	// reaches the fixed point.
	expanded := s.dirty.Clone()
	for i, ok := s.dirty.NextSet(0); ok; i, ok = s.dirty.NextSet(i + 1) {
		if e, alive := w.Registry.At(uint32(i)); alive {
			expanded.InPlaceUnion(w.Hierarchy.AllChildren(e))
		}
	}
	s.dirty = expanded

	// Resolve output slots serially; the recompute below only reads local
	// transforms and parent links and writes disjoint matrices, so it can
	// fan out over the worker pool
	type target struct {
		entity ecs.Entity
		matrix *TransformMatrix
	}
	targets := make([]target, 0, s.dirty.Count())
	for i, ok := s.dirty.NextSet(0); ok; i, ok = s.dirty.NextSet(i + 1) {
		e, alive := w.Registry.At(uint32(i))
		if !alive {
			continue
		}
		if m := w.Matrices.Ref(e); m != nil && w.Transforms.Has(e) {
			targets = append(targets, target{entity: e, matrix: m})
		}
	}

	task(max(DEFAULT_WORKERS, w.Workers), targets, func(tg target) {
		t, _ := w.Transforms.Get(tg.entity)
		mat := t.Mat4()

		// Walk the ancestor chain, composing raw local transforms upward.
		// A parent that no longer resolves ends the walk, leaving the
		// entity rooted for this pass.
		cursor := tg.entity
		for {
			parent, ok := w.Hierarchy.Parent(cursor)
			if !ok {
				break
			}
			cursor = parent
			if pt, ok := w.Transforms.Get(parent); ok {
				mat = pt.Mat4().Mul4(mat)
			}
		}

		tg.matrix.Mat = mat
	})

	// Reset; the reader cursors only ever advance
	s.dirty.ClearAll()
}
