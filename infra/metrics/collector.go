package metrics

import (
	"context"
	"time"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
	coremetrics "github.com/phetsims/capacitor-lab-basics-sub000/core/metrics"
	"github.com/phetsims/capacitor-lab-basics-sub000/infra/logger"
	"github.com/phetsims/capacitor-lab-basics-sub000/internal/observable"
)

// StartCollector subscribes to the snapshot stream and forwards every frame
// to sink, emitting a transition whenever the connection differs from the
// previous frame. It stops when ctx is canceled or the stream is closed; the
// returned channel is closed once the goroutine has exited.
func StartCollector(ctx context.Context, stream *observable.Stream[circuit.Snapshot], sink coremetrics.Sink, runID string, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if stream == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := stream.Subscribe()
	recorder, _ := sink.(coremetrics.TransitionRecorder)
	go func() {
		defer close(done)
		defer stream.Unsubscribe(sub)
		var prev *circuit.ConnectionState
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-sub:
				if !ok {
					return
				}
				now := time.Now()
				if prev != nil && *prev != snap.Connection && recorder != nil {
					if err := recorder.RecordTransition(coremetrics.TransitionEvent{
						RunID: runID, From: *prev, To: snap.Connection, Elapsed: snap.Elapsed, Time: now,
					}); err != nil {
						log.Warnf("record transition: %v", err)
					}
				}
				state := snap.Connection
				prev = &state
				if err := sink.RecordSnapshot(coremetrics.SnapshotEvent{RunID: runID, Snapshot: snap, Time: now}); err != nil {
					log.Warnf("record snapshot: %v", err)
				}
			}
		}
	}()
	return done
}
