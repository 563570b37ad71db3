// Package config loads the application configuration from a YAML or JSON
// file, a .env file and FM_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/facilitymetrics/core/metrics"
	"github.com/kilianp07/facilitymetrics/infra/audit"
	"github.com/kilianp07/facilitymetrics/infra/monitoring"
	"github.com/kilianp07/facilitymetrics/infra/mqtt"
	"github.com/kilianp07/facilitymetrics/infra/store"
)

// EnvPrefix prefixes environment overrides. Nested keys are separated by a
// double underscore, e.g. FM_MODELS__MODE=synthetic.
const EnvPrefix = "FM_"

type Config struct {
	Stores     store.Paths       `json:"stores"`
	Facilities FacilitiesConfig  `json:"facilities"`
	Models     ModelsConfig      `json:"models"`
	Watch      WatchConfig       `json:"watch"`
	Metrics    metrics.Config    `json:"metrics"`
	Audit      audit.Config      `json:"audit"`
	MQTT       mqtt.Config       `json:"mqtt"`
	Logging    LoggingConfig     `json:"logging"`
	Sentry     monitoring.Config `json:"sentry"`
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	def := store.DefaultPaths()
	if c.Stores.Charts == "" {
		c.Stores.Charts = def.Charts
	}
	if c.Stores.Forecasts == "" {
		c.Stores.Forecasts = def.Forecasts
	}
	if c.Stores.Facilities == "" {
		c.Stores.Facilities = def.Facilities
	}
	c.Facilities.SetDefaults()
	c.Models.SetDefaults()
	c.Watch.SetDefaults()
	c.Audit.SetDefaults()
	c.MQTT.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	return errors.Join(
		c.Facilities.Validate(),
		c.Models.Validate(),
		c.Watch.Validate(),
		c.Audit.Validate(),
		c.MQTT.Validate(),
		c.Logging.Validate(),
	)
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// Load reads the configuration at path. A missing file yields the defaults
// with environment overrides applied. Variables from a .env file in the
// working directory are loaded first without overriding the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			parser, err := parserFor(path)
			if err != nil {
				return nil, err
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
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

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

func envKey(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
