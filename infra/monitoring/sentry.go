package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"

	coremon "github.com/phetsims/capacitor-lab-basics-sub000/core/monitoring"
)

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	Release          string  `json:"release"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
}

// NewSentryMonitor initializes the Sentry SDK. An empty DSN yields the
// no-op monitor.
func NewSentryMonitor(cfg SentryConfig) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          cfg.Release,
	})
	if err != nil {
		return nil, err
	}
	return &sentryMonitor{hub: sentry.CurrentHub()}, nil
}

type sentryMonitor struct {
	hub *sentry.Hub
}

func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	if len(tags) == 0 {
		s.hub.CaptureException(err)
		return
	}
	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		s.hub.CaptureException(err)
	})
}

func (s *sentryMonitor) Recover() {
	if r := recover(); r != nil {
		s.RecoverValue(r)
		s.Flush(2 * time.Second)
		panic(r)
	}
}

// RecoverValue reports a panic value already recovered by the caller.
func (s *sentryMonitor) RecoverValue(r any) { s.hub.Recover(r) }

func (s *sentryMonitor) Flush(timeout time.Duration) { s.hub.Flush(timeout) }
