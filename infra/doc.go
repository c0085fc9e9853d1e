// Package infra contains the technical adapters of the simulator: the
// zerolog logger, metric and snapshot sinks, the MQTT publisher and error
// monitoring. These packages depend only on the interfaces defined in the
// core packages.
package infra
