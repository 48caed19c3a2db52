// Package hierarchy maintains a derived index over parent links between scene
// entities: constant-time parent lookup, child lists, transitive descendant
// sets, and a change stream consumed by the transform sync pass.
package hierarchy

import (
	"fmt"

	"github.com/TurboCartPig/vkengine/ecs"
	"github.com/bits-and-blooms/bitset"
)

// Link is the parent-link component. An entity without one is a forest root.
type Link struct {
	Parent ecs.Entity
}

// NewLink creates a link to the given parent entity.
func NewLink(parent ecs.Entity) Link {
	return Link{Parent: parent}
}

// Index is the authoritative read-model of the scene forest.
//
// It is rebuilt incrementally once per frame by Maintain, which drains the
// Link storage's change log. Between Maintain calls the index is a consistent
// snapshot: queries are unaffected by link edits made later in the frame.
//
// The index emits its own change stream. Modified(e) means e's parent was
// set, cleared, repointed, or found dangling (treated as cleared); Removed(e)
// means the entity itself no longer exists and should be torn down by
// consumers.
type Index struct {
	registry *ecs.Registry
	links    *ecs.Storage[Link]

	linkReader ecs.ReaderID

	parents  map[ecs.Entity]ecs.Entity
	children map[ecs.Entity][]ecs.Entity

	log ecs.ChangeLog
}

// NewIndex creates an index over the given link storage. The index owns a
// reader into the storage's change log, so it must be created before any link
// it should observe is written.
func NewIndex(registry *ecs.Registry, links *ecs.Storage[Link]) *Index {
	return &Index{
		registry:   registry,
		links:      links,
		linkReader: links.Watch(),
		parents:    make(map[ecs.Entity]ecs.Entity),
		children:   make(map[ecs.Entity][]ecs.Entity),
	}
}

// Parent returns the entity's current parent per the last Maintain.
func (x *Index) Parent(e ecs.Entity) (ecs.Entity, bool) {
	p, ok := x.parents[e]
	return p, ok
}

// Children returns the entity's direct children per the last Maintain. The
// returned slice is owned by the index and must not be mutated.
func (x *Index) Children(e ecs.Entity) []ecs.Entity {
	return x.children[e]
}

// AllChildren returns the slot indices of every transitive descendant of e,
// as a bitset.
func (x *Index) AllChildren(e ecs.Entity) *bitset.BitSet {
	descendants := bitset.New(8)
	x.collect(e, descendants)
	return descendants
}

func (x *Index) collect(e ecs.Entity, into *bitset.BitSet) {
	for _, child := range x.children[e] {
		if !x.registry.Alive(child) {
			continue
		}
		into.Set(uint(child.Index()))
		x.collect(child, into)
	}
}

// WouldCycle reports whether making parent the parent of child would close a
// cycle in the forest. Authoring code should check this before writing a
// link; a cycle that reaches Maintain is a hard failure.
func (x *Index) WouldCycle(child, parent ecs.Entity) bool {
	for cursor, ok := parent, true; ok; cursor, ok = x.parents[cursor] {
		if cursor == child {
			return true
		}
	}
	return false
}

// Watch registers a reader over the index's change stream.
func (x *Index) Watch() ecs.ReaderID {
	return x.log.Register()
}

// Events drains the index events recorded since the reader's previous call.
func (x *Index) Events(id ecs.ReaderID) []ecs.Event {
	return x.log.Read(id)
}

// Maintain brings the index up to date with the link storage and detects
// dangling parents. It must run once per frame, before any consumer of the
// index runs, and never concurrently with link edits.
func (x *Index) Maintain() {
	for _, event := range x.links.Events(x.linkReader) {
		e := event.Entity
		switch event.Kind {
		case ecs.Inserted, ecs.Modified:
			link, ok := x.links.Get(e)
			if !ok {
				// removed later in the same frame; the Removed event follows
				continue
			}
			x.detach(e)
			x.attach(e, link.Parent)
			x.log.Record(ecs.Modified, e)
		case ecs.Removed:
			_, tracked := x.parents[e]
			x.detach(e)
			if x.registry.Alive(e) {
				x.log.Record(ecs.Modified, e)
			} else if tracked || len(x.children[e]) > 0 {
				delete(x.children, e)
				x.log.Record(ecs.Removed, e)
			}
		}
	}

	x.sweep()
}

// sweep detects links whose parent entity was destroyed this frame. The child
// is detached and reported as modified, making it a root until the link is
// edited again. Children destroyed without their link being removed are
// reported as removed.
func (x *Index) sweep() {
	for child, parent := range x.parents {
		if !x.registry.Alive(child) {
			x.detach(child)
			delete(x.children, child)
			x.log.Record(ecs.Removed, child)
			continue
		}
		if !x.registry.Alive(parent) {
			x.detach(child)
			x.log.Record(ecs.Modified, child)
		}
	}
}

func (x *Index) attach(child, parent ecs.Entity) {
	if parent == child || x.WouldCycle(child, parent) {
		panic(fmt.Sprintf("hierarchy: linking entity %d under %d would create a cycle", child.Index(), parent.Index()))
	}
	x.parents[child] = parent
	x.children[parent] = append(x.children[parent], child)
}

func (x *Index) detach(child ecs.Entity) {
	parent, ok := x.parents[child]
	if !ok {
		return
	}
	delete(x.parents, child)

	siblings := x.children[parent]
	for i, c := range siblings {
		if c == child {
			x.children[parent] = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	if len(x.children[parent]) == 0 {
		delete(x.children, parent)
	}
}
