// Package vkengine maintains world-space transforms for a dynamic scene
// forest: every entity owns a local Transform and an optional parent link,
// and a frame-stepped sync pass derives a composed TransformMatrix per
// entity, recomputing only what actually changed.
package vkengine

import (
	"fmt"

	"github.com/TurboCartPig/vkengine/ecs"
	"github.com/TurboCartPig/vkengine/hierarchy"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// World owns the scene: the entity registry, the component storages, the
// hierarchy index and the transform sync system.
//
// The frame loop is single-threaded and cooperative: gameplay and authoring
// code edit transforms and links freely between Step calls, and Step runs the
// ordered pipeline that settles every world matrix for the frame. Nothing may
// edit the scene while Step runs.
type World struct {
	Registry   *ecs.Registry
	Transforms *ecs.Storage[Transform]
	Matrices   *ecs.Storage[TransformMatrix]
	Links      *ecs.Storage[hierarchy.Link]
	Hierarchy  *hierarchy.Index
	Workers    int

	transforms *TransformSystem
}

// NewWorld creates an empty scene world.
func NewWorld() *World {
	w := &World{
		Registry:   ecs.NewRegistry(),
		Transforms: ecs.NewStorage[Transform](),
		Matrices:   ecs.NewStorage[TransformMatrix](),
		Links:      ecs.NewStorage[hierarchy.Link](),
	}
	w.Hierarchy = hierarchy.NewIndex(w.Registry, w.Links)
	w.transforms = NewTransformSystem(w)

	return w
}

// CreateObject allocates an entity holding the given local transform. Its
// world matrix materializes on the next Step.
func (w *World) CreateObject(t Transform) ecs.Entity {
	e := w.Registry.Create()
	w.Transforms.Set(e, t)
	return e
}

// DestroyObject removes the entity and everything it owns. Children keep
// their own components and become roots on the next Step.
func (w *World) DestroyObject(e ecs.Entity) {
	w.Links.Remove(e)
	w.Transforms.Remove(e)
	w.Matrices.Remove(e)
	w.Registry.Destroy(e)
}

// SetParent links child under parent. It validates against the pending link
// state — the Links storage, which reflects edits made earlier in the same
// frame — so an acyclic edit sequence such as unlinking a child and relinking
// its old parent beneath it is accepted, and a cycle assembled across several
// same-frame edits is rejected here rather than at Step time.
func (w *World) SetParent(child, parent ecs.Entity) error {
	for cursor := parent; ; {
		if cursor == child {
			return fmt.Errorf("vkengine: linking entity %d under %d would create a cycle", child.Index(), parent.Index())
		}
		link, ok := w.Links.Get(cursor)
		if !ok {
			break
		}
		cursor = link.Parent
	}
	w.Links.Set(child, hierarchy.NewLink(parent))
	return nil
}

// RemoveParent makes child a root.
func (w *World) RemoveParent(child ecs.Entity) {
	w.Links.Remove(child)
}

// SetTransform overwrites the entity's local transform, marking it for
// resync on the next Step. Writes through a stale handle are ignored.
func (w *World) SetTransform(e ecs.Entity, t Transform) {
	if !w.Registry.Alive(e) {
		return
	}
	w.Transforms.Set(e, t)
}

// Transform returns a copy of the entity's local transform.
func (w *World) Transform(e ecs.Entity) (Transform, bool) {
	return w.Transforms.Get(e)
}

// WorldMatrix returns the entity's composed world matrix as of the last
// Step. It is false for an entity whose matrix has not materialized yet.
func (w *World) WorldMatrix(e ecs.Entity) (mgl64.Mat4, bool) {
	m, ok := w.Matrices.Get(e)
	return m.Mat, ok
}

// Step runs one frame: hierarchy maintenance, then transform sync. All edits
// for the frame must be done before Step; consumers read world matrices after
// it returns.
func (w *World) Step() {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)

	w.Hierarchy.Maintain()
	w.transforms.Run(w)
}
