package metrics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
	"github.com/phetsims/capacitor-lab-basics-sub000/core/factory"
	coremetrics "github.com/phetsims/capacitor-lab-basics-sub000/core/metrics"
)

func TestSQLiteSinkPersistsRun(t *testing.T) {
	sink, err := NewSQLiteSink(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })

	now := time.Now()
	for i, state := range []circuit.ConnectionState{circuit.BatteryConnected, circuit.OpenCircuit} {
		snap := circuit.Snapshot{
			Elapsed:      time.Duration(i+1) * 16 * time.Millisecond,
			Connection:   state,
			PlateVoltage: 1.5,
			Capacitance:  3.32e-13,
			SwitchAngle:  float64(i),
		}
		require.NoError(t, sink.RecordSnapshot(coremetrics.SnapshotEvent{RunID: "r1", Snapshot: snap, Time: now}))
	}
	require.NoError(t, sink.RecordSnapshot(coremetrics.SnapshotEvent{RunID: "other", Time: now}))
	require.NoError(t, sink.RecordTransition(coremetrics.TransitionEvent{
		RunID: "r1", From: circuit.BatteryConnected, To: circuit.OpenCircuit, Elapsed: 32 * time.Millisecond, Time: now,
	}))

	snaps, err := sink.Snapshots(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, 16*time.Millisecond, snaps[0].Elapsed)
	assert.Equal(t, circuit.OpenCircuit, snaps[1].Connection)
	assert.Equal(t, 1.5, snaps[1].PlateVoltage)
	assert.Equal(t, 3.32e-13, snaps[1].Capacitance)
	assert.Equal(t, 1.0, snaps[1].SwitchAngle)

	trans, err := sink.Transitions(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, trans, 1)
	assert.Equal(t, circuit.BatteryConnected, trans[0].From)
	assert.Equal(t, circuit.OpenCircuit, trans[0].To)
	assert.Equal(t, 32*time.Millisecond, trans[0].Elapsed)
}

func TestSQLiteSinkRequiresPath(t *testing.T) {
	_, err := NewSQLiteSink("")
	assert.Error(t, err)
}

func TestSQLiteSinkRegistered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reg.db")
	sink, err := coremetrics.NewSink([]factory.ModuleConfig{{Type: "sqlite", Conf: map[string]any{"path": path}}})
	require.NoError(t, err)
	s, ok := sink.(*SQLiteSink)
	require.True(t, ok)
	require.NoError(t, s.Close())
	assert.Contains(t, coremetrics.SinkTypes(), "sqlite")
}
