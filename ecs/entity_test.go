package ecs

import "testing"

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry()

	e1 := r.Create()
	e2 := r.Create()

	if e1 == e2 {
		t.Errorf("Create returned the same entity twice: %v", e1)
	}
	if !r.Alive(e1) || !r.Alive(e2) {
		t.Error("freshly created entities should be alive")
	}
	if e1.IsZero() {
		t.Error("a created entity should not be the zero handle")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistryDestroy(t *testing.T) {
	r := NewRegistry()
	e := r.Create()

	r.Destroy(e)

	if r.Alive(e) {
		t.Error("destroyed entity should not be alive")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}

	// destroying a stale handle is a no-op
	r.Destroy(e)
	if r.Len() != 0 {
		t.Errorf("Len() after double destroy = %d, want 0", r.Len())
	}
}

func TestRegistrySlotReuse(t *testing.T) {
	r := NewRegistry()
	old := r.Create()
	r.Destroy(old)

	reused := r.Create()

	if reused.Index() != old.Index() {
		t.Errorf("expected slot %d to be reused, got %d", old.Index(), reused.Index())
	}
	if reused.Generation() == old.Generation() {
		t.Error("reused slot should carry a newer generation")
	}
	if r.Alive(old) {
		t.Error("stale handle should not alias the slot's new occupant")
	}
	if !r.Alive(reused) {
		t.Error("new occupant should be alive")
	}
}

func TestRegistryAt(t *testing.T) {
	r := NewRegistry()
	e := r.Create()

	got, ok := r.At(e.Index())
	if !ok || got != e {
		t.Errorf("At(%d) = %v, %v, want %v, true", e.Index(), got, ok, e)
	}

	r.Destroy(e)
	if _, ok := r.At(e.Index()); ok {
		t.Error("At should not resolve a destroyed slot")
	}

	if _, ok := r.At(99); ok {
		t.Error("At should not resolve an unallocated slot")
	}
}

func TestZeroEntity(t *testing.T) {
	r := NewRegistry()

	var zero Entity
	if !zero.IsZero() {
		t.Error("zero value handle should report IsZero")
	}
	if r.Alive(zero) {
		t.Error("zero value handle should never be alive")
	}
}
