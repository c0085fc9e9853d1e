package metrics

import (
	"time"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
)

// SnapshotEvent is one simulation frame.
type SnapshotEvent struct {
	RunID    string
	Snapshot circuit.Snapshot
	Time     time.Time
}

// Sink records circuit snapshots.
type Sink interface {
	RecordSnapshot(ev SnapshotEvent) error
}

// TransitionEvent records a change of the switch connection.
type TransitionEvent struct {
	RunID   string
	From    circuit.ConnectionState
	To      circuit.ConnectionState
	Elapsed time.Duration
	Time    time.Time
}

// TransitionRecorder is implemented by sinks that track connection changes.
type TransitionRecorder interface {
	RecordTransition(ev TransitionEvent) error
}

// Closer is implemented by sinks holding network resources.
type Closer interface {
	Close() error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordSnapshot(SnapshotEvent) error     { return nil }
func (NopSink) RecordTransition(TransitionEvent) error { return nil }
