package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/factory"
	coremetrics "github.com/phetsims/capacitor-lab-basics-sub000/core/metrics"
)

// init registers the built-in sinks.
func init() {
	_ = coremetrics.RegisterSink("nop", func(map[string]any) (coremetrics.Sink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.Sink, error) {
		s, err := NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
		if err != nil {
			return nil, err
		}
		return s, nil
	})

	_ = coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.Sink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})

	_ = coremetrics.RegisterSink("sqlite", func(conf map[string]any) (coremetrics.Sink, error) {
		var c SQLiteConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		s, err := NewSQLiteSink(c.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
