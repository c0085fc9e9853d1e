// Package metrics defines the sinks that record circuit snapshots and
// connection transitions. Implementations live in infra/metrics and
// infra/mqtt and register themselves by name; NewSink combines several
// configured sinks into a MultiSink.
package metrics
