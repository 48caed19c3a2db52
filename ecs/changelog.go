package ecs

import "fmt"

// EventKind classifies a component mutation.
type EventKind uint8

const (
	// Inserted means the component was added to an entity that did not have one.
	Inserted EventKind = iota
	// Modified means an existing component's value was overwritten.
	Modified
	// Removed means the component was taken off the entity.
	Removed
)

func (k EventKind) String() string {
	switch k {
	case Inserted:
		return "Inserted"
	case Modified:
		return "Modified"
	case Removed:
		return "Removed"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// Event is one entry of a change log.
type Event struct {
	Kind   EventKind
	Entity Entity
}

// ReaderID is a consumer's cursor into a ChangeLog. Each consumer registers
// its own reader and drains events independently of the others.
type ReaderID int

// ChangeLog is an ordered, replayable log of component mutation events.
//
// Events are appended as mutations happen and read through per-consumer
// cursors; a prefix is dropped once every registered reader has consumed it.
// While no reader is registered, recording is skipped entirely, so storages
// nobody watches cost nothing.
type ChangeLog struct {
	events []Event
	// absolute position of events[0] since the log was created
	origin  uint64
	readers []uint64
}

// Register creates a new reader cursor positioned at the current end of the
// log, so it only observes events recorded after registration.
func (l *ChangeLog) Register() ReaderID {
	l.readers = append(l.readers, l.origin+uint64(len(l.events)))
	return ReaderID(len(l.readers) - 1)
}

// Record appends an event. No-op while the log has no readers.
func (l *ChangeLog) Record(kind EventKind, e Entity) {
	if len(l.readers) == 0 {
		return
	}
	l.events = append(l.events, Event{Kind: kind, Entity: e})
}

// Read returns all events recorded since the reader's last Read and advances
// its cursor past them. The returned slice is only valid until the next
// Record on this log.
//
// Reading with an id this log never issued is a programming error; compaction
// never outruns a registered reader's cursor.
func (l *ChangeLog) Read(id ReaderID) []Event {
	if int(id) < 0 || int(id) >= len(l.readers) {
		panic(fmt.Sprintf("ecs: unknown change log reader %d", id))
	}

	pos := l.readers[id]
	events := l.events[pos-l.origin:]
	l.readers[id] = l.origin + uint64(len(l.events))
	l.compact()

	return events
}

// compact drops the prefix of events every reader has already consumed.
func (l *ChangeLog) compact() {
	minPos := l.readers[0]
	for _, pos := range l.readers[1:] {
		if pos < minPos {
			minPos = pos
		}
	}

	if n := minPos - l.origin; n > 0 {
		l.events = l.events[n:]
		l.origin = minPos
	}
}
