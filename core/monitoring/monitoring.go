// Package monitoring forwards unexpected errors and panics to an error
// tracker. Until Init is called every function is a no-op.
package monitoring

import (
	"sync"
	"time"
)

// Monitor reports errors to an external tracker.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	// Recover reports a panic in progress and re-panics.
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init installs m as the process-wide monitor. A nil m restores the no-op.
func Init(m Monitor) {
	mu.Lock()
	defer mu.Unlock()
	if m == nil {
		m = NopMonitor{}
	}
	current = m
}

// Current returns the installed monitor.
func Current() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException records err with optional tags such as run_id.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	Current().CaptureException(err, tags)
}

// Recover must be deferred directly; it reports a panic and re-panics.
func Recover() {
	if r := recover(); r != nil {
		m := Current()
		if rec, ok := m.(interface{ RecoverValue(any) }); ok {
			rec.RecoverValue(r)
		}
		m.Flush(2 * time.Second)
		panic(r)
	}
}

// Flush waits up to d for buffered events to be sent.
func Flush(d time.Duration) { Current().Flush(d) }
