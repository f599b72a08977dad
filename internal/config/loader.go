package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all settings.
const envPrefix = "CBOMMATCH"

// newViper builds a pre-configured viper instance: YAML file type,
// CBOMMATCH_ env prefix, automatic env binding, and a key replacer mapping
// "." to "_" so nested keys like "matching.strategy" resolve to
// "CBOMMATCH_MATCHING_STRATEGY".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Registering every key makes env-only overrides visible to Unmarshal;
	// viper resolves unknown keys against the environment only when they are
	// known from a file, a default, or an explicit binding.
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{"stderr"})
	v.SetDefault("matching.strategy", DefaultStrategy)
	v.SetDefault("matching.cost_model", DefaultCostModel)
	v.SetDefault("matching.cost_threshold", DefaultCostThreshold)
	v.SetDefault("matching.distance_bound", DefaultDistanceBound)
	v.SetDefault("matching.sentinel_cost", DefaultSentinelCost)
	v.SetDefault("matching.sort_keys", false)
	v.SetDefault("matching.workers", 0)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", DefaultNamespace)
	return v
}

// Load reads the YAML file at configPath, merges CBOMMATCH_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from CBOMMATCH_* environment
// variables and defaults, with no config file required.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}
