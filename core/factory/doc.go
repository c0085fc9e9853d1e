// Package factory provides a generic registry used to build pluggable
// components, such as metrics sinks, from configuration.
package factory
