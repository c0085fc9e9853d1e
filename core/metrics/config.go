package metrics

import "github.com/phetsims/capacitor-lab-basics-sub000/core/factory"

// Config lists the sinks to build and where to expose Prometheus metrics.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// ListenAddr serves /metrics when set, e.g. ":9100".
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
}
