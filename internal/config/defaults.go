package config

// Default values applied by ApplyDefaults for unset fields.
const (
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultStrategy      = StrategyPivot
	DefaultCostModel     = CostModelUnit
	DefaultCostThreshold = 25.0
	DefaultDistanceBound = 100000.0
	DefaultSentinelCost  = 1e9
	DefaultNamespace     = "cbommatch"
)

// ApplyDefaults fills every unset field of cfg with its default value.
// Zero-valued numeric fields count as unset.
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}

	if cfg.Matching.Strategy == "" {
		cfg.Matching.Strategy = DefaultStrategy
	}
	if cfg.Matching.CostModel == "" {
		cfg.Matching.CostModel = DefaultCostModel
	}
	if cfg.Matching.CostThreshold == 0 {
		cfg.Matching.CostThreshold = DefaultCostThreshold
	}
	if cfg.Matching.DistanceBound == 0 {
		cfg.Matching.DistanceBound = DefaultDistanceBound
	}
	if cfg.Matching.SentinelCost == 0 {
		cfg.Matching.SentinelCost = DefaultSentinelCost
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultNamespace
	}
}

// NewDefault returns a Config with every field at its default.
func NewDefault() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
