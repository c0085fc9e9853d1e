package metrics

import "errors"

// MultiSink fans events out to several sinks. Every sink sees every event;
// the errors are joined.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink combines sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) RecordSnapshot(ev SnapshotEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordSnapshot(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordTransition forwards to the sinks that track transitions.
func (m *MultiSink) RecordTransition(ev TransitionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(TransitionRecorder); ok {
			if err := r.RecordTransition(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks holding resources.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
