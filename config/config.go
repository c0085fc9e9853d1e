package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
	"github.com/phetsims/capacitor-lab-basics-sub000/core/metrics"
	"github.com/phetsims/capacitor-lab-basics-sub000/infra/mqtt"
)

type Config struct {
	Circuit    circuit.Config   `json:"circuit"`
	Simulation SimulationConfig `json:"simulation"`
	Voltmeter  VoltmeterConfig  `json:"voltmeter"`
	Metrics    metrics.Config   `json:"metrics"`
	MQTT       mqtt.Config      `json:"mqtt"`
	Logging    LoggingConfig    `json:"logging"`
	Monitoring MonitoringConfig `json:"monitoring"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults fills unset fields of every section.
func (c *Config) SetDefaults() {
	c.Circuit.SetDefaults()
	c.Simulation.SetDefaults()
	c.Voltmeter.SetDefaults()
	c.Logging.SetDefaults()
	if c.MQTT.Broker != "" {
		c.MQTT.SetDefaults()
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Circuit.Validate(); err != nil {
		return fmt.Errorf("circuit: %w", err)
	}
	if err := c.Simulation.Validate(c.Circuit); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := c.Voltmeter.Validate(); err != nil {
		return fmt.Errorf("voltmeter: %w", err)
	}
	if c.MQTT.Broker != "" {
		if err := c.MQTT.Validate(); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Monitoring.Validate(); err != nil {
		return fmt.Errorf("monitoring: %w", err)
	}
	return nil
}

// Load reads a YAML or JSON file, applies K_ environment overrides such as
// K_CIRCUIT__BATTERY_VOLTAGE__DEFAULT, then fills defaults and validates.
// An empty path loads only the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
