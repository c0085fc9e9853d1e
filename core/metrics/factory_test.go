package metrics_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/factory"
	"github.com/phetsims/capacitor-lab-basics-sub000/core/metrics"
	_ "github.com/phetsims/capacitor-lab-basics-sub000/infra/metrics"
)

func TestNewSinkBuiltins(t *testing.T) {
	s, err := metrics.NewSink(nil)
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)

	s, err = metrics.NewSink([]factory.ModuleConfig{{Type: "nop"}})
	require.NoError(t, err)
	assert.NotNil(t, s)

	s, err = metrics.NewSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}})
	require.NoError(t, err)
	m, ok := s.(*metrics.MultiSink)
	require.True(t, ok)
	assert.Len(t, m.Sinks, 2)

	_, err = metrics.NewSink([]factory.ModuleConfig{{Type: "missing"}})
	assert.Error(t, err)
	assert.Contains(t, metrics.SinkTypes(), "prometheus")
}

func TestMetricsConfigDecodeYAML(t *testing.T) {
	data := `sinks:
  - type: nop
  - type: nop
listen_addr: ":9100"
`
	var cfg metrics.Config
	require.NoError(t, yaml.Unmarshal([]byte(data), &cfg))
	assert.Len(t, cfg.Sinks, 2)

	s, err := metrics.NewSink(cfg.Sinks)
	require.NoError(t, err)
	assert.IsType(t, &metrics.MultiSink{}, s)
}

func TestMetricsConfigDecodeJSONInvalid(t *testing.T) {
	var cfg metrics.Config
	require.NoError(t, json.Unmarshal([]byte(`{"sinks":[{"type":"missing"}]}`), &cfg))
	_, err := metrics.NewSink(cfg.Sinks)
	assert.Error(t, err)
}
