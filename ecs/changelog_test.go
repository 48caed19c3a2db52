package ecs

import "testing"

func TestChangeLogCursor(t *testing.T) {
	var log ChangeLog
	var r Registry

	e1 := r.Create()
	e2 := r.Create()

	reader := log.Register()

	log.Record(Inserted, e1)
	log.Record(Modified, e2)

	events := log.Read(reader)
	if len(events) != 2 {
		t.Fatalf("Read returned %d events, want 2", len(events))
	}
	if events[0] != (Event{Kind: Inserted, Entity: e1}) {
		t.Errorf("events[0] = %v", events[0])
	}
	if events[1] != (Event{Kind: Modified, Entity: e2}) {
		t.Errorf("events[1] = %v", events[1])
	}

	// the cursor advanced past everything already read
	if events := log.Read(reader); len(events) != 0 {
		t.Errorf("second Read returned %d events, want 0", len(events))
	}
}

func TestChangeLogNoReaders(t *testing.T) {
	var log ChangeLog
	var r Registry

	// no readers registered yet, recording is skipped
	log.Record(Inserted, r.Create())

	reader := log.Register()
	if events := log.Read(reader); len(events) != 0 {
		t.Errorf("reader observed %d events recorded before registration, want 0", len(events))
	}
}

func TestChangeLogIndependentReaders(t *testing.T) {
	var log ChangeLog
	var r Registry

	e := r.Create()

	first := log.Register()
	second := log.Register()

	log.Record(Inserted, e)

	if events := log.Read(first); len(events) != 1 {
		t.Fatalf("first reader got %d events, want 1", len(events))
	}
	// draining one cursor must not advance the other
	if events := log.Read(second); len(events) != 1 {
		t.Fatalf("second reader got %d events, want 1", len(events))
	}

	log.Record(Modified, e)
	if events := log.Read(second); len(events) != 1 || events[0].Kind != Modified {
		t.Errorf("second reader got %v, want one Modified event", events)
	}
}

func TestChangeLogCompaction(t *testing.T) {
	var log ChangeLog
	var r Registry

	reader := log.Register()

	for i := 0; i < 100; i++ {
		log.Record(Modified, r.Create())
		log.Read(reader)
	}

	if len(log.events) != 0 {
		t.Errorf("fully-consumed log still buffers %d events", len(log.events))
	}
	if log.origin != 100 {
		t.Errorf("origin = %d, want 100", log.origin)
	}
}

func TestChangeLogUnknownReader(t *testing.T) {
	var log ChangeLog

	defer func() {
		if recover() == nil {
			t.Error("Read with a forged reader id should panic")
		}
	}()
	log.Read(ReaderID(7))
}
