package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordSink struct {
	snapshots   int
	transitions int
	closed      bool
	err         error
}

func (r *recordSink) RecordSnapshot(SnapshotEvent) error {
	r.snapshots++
	return r.err
}

func (r *recordSink) RecordTransition(TransitionEvent) error {
	r.transitions++
	return r.err
}

func (r *recordSink) Close() error {
	r.closed = true
	return nil
}

type snapshotOnly struct{ n int }

func (s *snapshotOnly) RecordSnapshot(SnapshotEvent) error { s.n++; return nil }

func TestMultiSinkForwards(t *testing.T) {
	s1, s2, s3 := &recordSink{}, &recordSink{}, &snapshotOnly{}
	m := NewMultiSink(s1, s2, s3)

	require.NoError(t, m.RecordSnapshot(SnapshotEvent{}))
	require.NoError(t, m.RecordTransition(TransitionEvent{}))
	require.NoError(t, m.Close())

	for _, s := range []*recordSink{s1, s2} {
		assert.Equal(t, 1, s.snapshots)
		assert.Equal(t, 1, s.transitions)
		assert.True(t, s.closed)
	}
	assert.Equal(t, 1, s3.n)
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	failing, ok := &recordSink{err: boom}, &recordSink{}
	m := NewMultiSink(failing, ok)

	err := m.RecordSnapshot(SnapshotEvent{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, ok.snapshots, "later sinks still receive the event")
}
