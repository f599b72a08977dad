// Package config provides configuration loading, defaults, and validation
// for the CBOM matching tool.
package config

import (
	"fmt"

	apperrors "github.com/SEG-UNIBE/BF-CBOM/pkg/errors"
)

// Strategy names accepted by MatchingConfig.Strategy.
const (
	StrategyPivot    = "pivot"
	StrategyAllPairs = "all"
)

// Cost model names accepted by MatchingConfig.CostModel.
const (
	CostModelUnit  = "unit"
	CostModelLabel = "label"
)

// Config is the root configuration object.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Matching MatchingConfig `mapstructure:"matching"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// MatchingConfig controls the matching pipeline.
type MatchingConfig struct {
	// Strategy selects how documents are paired: "pivot" compares every
	// document against the largest one, "all" compares every ordered pair.
	Strategy string `mapstructure:"strategy"`

	// CostModel selects edit-operation pricing: "unit" or "label".
	CostModel string `mapstructure:"cost_model"`

	// CostThreshold is the maximum assignment cost at which a component
	// pairing is accepted (inclusive).
	CostThreshold float64 `mapstructure:"cost_threshold"`

	// DistanceBound is the exclusive upper bound passed to the similarity
	// index; component pairs at or above it never reach the cost matrix.
	DistanceBound float64 `mapstructure:"distance_bound"`

	// SentinelCost fills unreachable cost-matrix cells and prices renames
	// across label types.
	SentinelCost float64 `mapstructure:"sentinel_cost"`

	// SortKeys makes the bracket encoding order-insensitive for object
	// members.
	SortKeys bool `mapstructure:"sort_keys"`

	// Workers bounds the number of document pairs compared concurrently.
	// Zero means one worker per CPU.
	Workers int `mapstructure:"workers"`
}

// MetricsConfig controls the Prometheus metrics dump.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Validate checks the configuration for values the pipeline cannot run
// with.  It assumes ApplyDefaults has already run.
func (c *Config) Validate() error {
	switch c.Matching.Strategy {
	case StrategyPivot, StrategyAllPairs:
	default:
		return apperrors.Newf(apperrors.ErrCodeMatchingConfigInvalid,
			"unknown matching strategy %q (want %q or %q)",
			c.Matching.Strategy, StrategyPivot, StrategyAllPairs)
	}

	switch c.Matching.CostModel {
	case CostModelUnit, CostModelLabel:
	default:
		return apperrors.Newf(apperrors.ErrCodeMatchingConfigInvalid,
			"unknown cost model %q (want %q or %q)",
			c.Matching.CostModel, CostModelUnit, CostModelLabel)
	}

	if c.Matching.CostThreshold < 0 {
		return apperrors.New(apperrors.ErrCodeMatchingConfigInvalid,
			"cost_threshold must not be negative").
			WithDetail(fmt.Sprintf("got %v", c.Matching.CostThreshold))
	}
	if c.Matching.DistanceBound <= 0 {
		return apperrors.New(apperrors.ErrCodeDistanceBoundInvalid,
			"distance_bound must be positive").
			WithDetail(fmt.Sprintf("got %v", c.Matching.DistanceBound))
	}
	if c.Matching.SentinelCost <= c.Matching.CostThreshold {
		return apperrors.New(apperrors.ErrCodeMatchingConfigInvalid,
			"sentinel_cost must exceed cost_threshold, otherwise vetoed pairings would be accepted")
	}
	if c.Matching.Workers < 0 {
		return apperrors.New(apperrors.ErrCodeMatchingConfigInvalid,
			"workers must not be negative")
	}
	return nil
}
