// Package zoneconfig loads and validates the irrigation zone
// configuration file and supports hot reloading it.
package zoneconfig

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dpktjf/etozone/etocalc"
)

// ErrAlreadyConfigured is returned when two zones share a name.
var ErrAlreadyConfigured = errors.New("zone already configured")

// Defaults for optional zone parameters, matching the setup flow.
const (
	DefaultThroughputMMPerHour = 10
	DefaultScalePercent        = 100
	DefaultMaxMinutes          = 30
)

// Parameter bounds enforced by the setup flow.
const (
	minThroughput = 5
	maxThroughput = 20
	minScale      = 1
	maxScale      = 100
	minMaxMinutes = 1
	maxMaxMinutes = 60
)

// Zone describes a single irrigation zone.
type Zone struct {
	Name                string  `yaml:"name" json:"name"`
	EToEntityID         string  `yaml:"eto_entity_id" json:"eto_entity_id"`
	RainEntityID        string  `yaml:"rain_entity_id" json:"rain_entity_id"`
	ThroughputMMPerHour float64 `yaml:"throughput_mm_h" json:"throughput_mm_h"`
	ScalePercent        float64 `yaml:"scale" json:"scale"`
	MaxMinutes          int     `yaml:"max_mins" json:"max_mins"`
}

// RuntimeParams converts the zone's watering parameters for etocalc.
func (z *Zone) RuntimeParams() etocalc.RuntimeParams {
	return etocalc.RuntimeParams{
		ThroughputMMPerHour: z.ThroughputMMPerHour,
		ScalePercent:        z.ScalePercent,
		MaxMinutes:          z.MaxMinutes,
	}
}

func (z *Zone) applyDefaults() {
	if z.ThroughputMMPerHour == 0 {
		z.ThroughputMMPerHour = DefaultThroughputMMPerHour
	}
	if z.ScalePercent == 0 {
		z.ScalePercent = DefaultScalePercent
	}
	if z.MaxMinutes == 0 {
		z.MaxMinutes = DefaultMaxMinutes
	}
}

func (z *Zone) validate() error {
	if z.Name == "" {
		return errors.New("zone name must not be empty")
	}
	if z.EToEntityID == "" {
		return fmt.Errorf("zone %q: eto_entity_id must not be empty", z.Name)
	}
	if z.RainEntityID == "" {
		return fmt.Errorf("zone %q: rain_entity_id must not be empty", z.Name)
	}
	if z.ThroughputMMPerHour < minThroughput || z.ThroughputMMPerHour > maxThroughput {
		return fmt.Errorf("zone %q: throughput_mm_h %g outside range %d-%d",
			z.Name, z.ThroughputMMPerHour, minThroughput, maxThroughput)
	}
	if z.ScalePercent < minScale || z.ScalePercent > maxScale {
		return fmt.Errorf("zone %q: scale %g outside range %d-%d",
			z.Name, z.ScalePercent, minScale, maxScale)
	}
	if z.MaxMinutes < minMaxMinutes || z.MaxMinutes > maxMaxMinutes {
		return fmt.Errorf("zone %q: max_mins %d outside range %d-%d",
			z.Name, z.MaxMinutes, minMaxMinutes, maxMaxMinutes)
	}
	return nil
}

// Config is the full zone configuration.
type Config struct {
	Zones []Zone `yaml:"zones" json:"zones"`
}

// Find returns the zone with the given name.
func (c Config) Find(name string) (*Zone, bool) {
	for i := range c.Zones {
		if c.Zones[i].Name == name {
			return &c.Zones[i], true
		}
	}

	return nil, false
}

// Validate checks all zones and rejects duplicate names.
func Validate(cfg Config) error {
	seen := map[string]bool{}

	for i := range cfg.Zones {
		z := &cfg.Zones[i]

		if err := z.validate(); err != nil {
			return err
		}

		if seen[z.Name] {
			return fmt.Errorf("%w: %s", ErrAlreadyConfigured, z.Name)
		}
		seen[z.Name] = true
	}

	return nil
}

// Load reads, defaults and validates the configuration file.
func Load(path string) (Config, error) {
	var cfg Config

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	for i := range cfg.Zones {
		cfg.Zones[i].applyDefaults()
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
