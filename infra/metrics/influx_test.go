package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
	coremetrics "github.com/phetsims/capacitor-lab-basics-sub000/core/metrics"
)

type lineRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (l *lineRecorder) handler(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	l.mu.Lock()
	l.bodies = append(l.bodies, strings.TrimSpace(string(data)))
	l.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func TestInfluxSinkRecordSnapshot(t *testing.T) {
	rec := &lineRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()

	now := time.Unix(1700000000, 0)
	ev := coremetrics.SnapshotEvent{
		RunID: "run1",
		Snapshot: circuit.Snapshot{
			Elapsed:      time.Second,
			Connection:   circuit.LightBulbConnected,
			PlateVoltage: 0.9,
			Capacitance:  3.32e-13,
		},
		Time: now,
	}
	require.NoError(t, sink.RecordSnapshot(ev))

	require.Len(t, rec.bodies, 1)
	body := rec.bodies[0]
	assert.True(t, strings.HasPrefix(body, "circuit_state,"))
	assert.Contains(t, body, "connection=light_bulb_connected")
	assert.Contains(t, body, "run_id=run1")
	assert.Contains(t, body, "plate_voltage=0.9")
	assert.Contains(t, body, "elapsed_s=1")
	assert.Contains(t, body, "capacitance=")
	assert.True(t, strings.HasSuffix(body, " 1700000000000000000"))

	fields := snapshotPoint(ev).FieldList()
	var capacitance any
	for _, f := range fields {
		if f.Key == "capacitance" {
			capacitance = f.Value
		}
	}
	assert.Equal(t, 3.32e-13, capacitance)
}

func TestInfluxSinkRecordTransition(t *testing.T) {
	rec := &lineRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Org: "org", Bucket: "bucket"})
	defer sink.Close()

	require.NoError(t, sink.RecordTransition(coremetrics.TransitionEvent{
		RunID: "r", From: circuit.OpenCircuit, To: circuit.BatteryConnected,
		Elapsed: 1500 * time.Millisecond, Time: time.Unix(1700000000, 0),
	}))
	require.Len(t, rec.bodies, 1)
	assert.True(t, strings.HasPrefix(rec.bodies[0], "circuit_transition,"))
	assert.Contains(t, rec.bodies[0], "from=open_circuit")
	assert.Contains(t, rec.bodies[0], "to=battery_connected")
	assert.True(t, strings.HasSuffix(rec.bodies[0], " elapsed_s=1.5 1700000000000000000"))
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	assert.IsType(t, coremetrics.NopSink{}, sink)
	assert.True(t, called)
}
