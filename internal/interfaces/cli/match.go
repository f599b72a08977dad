package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appmatching "github.com/SEG-UNIBE/BF-CBOM/internal/application/matching"
	"github.com/SEG-UNIBE/BF-CBOM/internal/config"
	"github.com/SEG-UNIBE/BF-CBOM/internal/infrastructure/monitoring/logging"
	"github.com/SEG-UNIBE/BF-CBOM/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/SEG-UNIBE/BF-CBOM/pkg/errors"
)

// matchOptions holds the flags of the match subcommand.
type matchOptions struct {
	Strategy      string
	CostModel     string
	CostThreshold float64
	DistanceBound float64
	SortKeys      bool
	Workers       int
	Metrics       bool
}

// NewMatchCmd creates the match subcommand: it loads every CBOM document in
// a directory, matches their components, and prints the resulting matches
// and chains.
func NewMatchCmd() *cobra.Command {
	opts := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match <directory>",
		Short: "Match CBOM components across all JSON documents in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Strategy, "strategy", "", "pairing strategy (pivot, all)")
	f.StringVar(&opts.CostModel, "cost-model", "", "edit cost model (unit, label)")
	f.Float64Var(&opts.CostThreshold, "cost-thresh", 0, "maximum accepted assignment cost")
	f.Float64Var(&opts.DistanceBound, "distance-bound", 0, "exclusive distance bound for the similarity index")
	f.BoolVar(&opts.SortKeys, "sort-keys", false, "sort object keys before encoding")
	f.IntVar(&opts.Workers, "workers", 0, "concurrent document pairs (0 = one per CPU)")
	f.BoolVar(&opts.Metrics, "metrics", false, "dump Prometheus metrics to stderr after the run")

	return cmd
}

func runMatch(cmd *cobra.Command, dir string, opts *matchOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		cmd.SilenceUsage = false
		return apperrors.New(apperrors.ErrCodeDirectoryAccess,
			"not a readable directory").WithDetail(dir)
	}

	mcfg := resolveMatchingConfig(cmd, cliCtx.Config, opts)

	var collector prometheus.MetricsCollector
	var metrics *prometheus.PipelineMetrics
	if opts.Metrics || cliCtx.Config.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace: cliCtx.Config.Metrics.Namespace,
		}, cliCtx.Logger)
		if err != nil {
			return err
		}
		metrics = prometheus.NewPipelineMetrics(collector)
	}

	svc, err := appmatching.NewService(mcfg, cliCtx.Logger, metrics)
	if err != nil {
		return err
	}

	report, err := svc.MatchDirectory(cmd.Context(), dir)
	if err != nil {
		return err
	}
	if len(report.Files) == 0 {
		cmd.SilenceUsage = false
		return apperrors.New(apperrors.ErrCodeInsufficientDocuments,
			"no JSON documents found").WithDetail(dir)
	}

	if err := printReport(cmd, cliCtx.OutputFormat, report); err != nil {
		return err
	}

	if collector != nil {
		if err := collector.WriteText(os.Stderr); err != nil {
			cliCtx.Logger.Warn("failed to dump metrics", logging.Err(err))
		}
	}
	return nil
}

// resolveMatchingConfig layers explicitly-set flags over the loaded
// configuration.
func resolveMatchingConfig(cmd *cobra.Command, cfg *config.Config, opts *matchOptions) config.MatchingConfig {
	mcfg := cfg.Matching
	f := cmd.Flags()
	if f.Changed("strategy") {
		mcfg.Strategy = opts.Strategy
	}
	if f.Changed("cost-model") {
		mcfg.CostModel = opts.CostModel
	}
	if f.Changed("cost-thresh") {
		mcfg.CostThreshold = opts.CostThreshold
	}
	if f.Changed("distance-bound") {
		mcfg.DistanceBound = opts.DistanceBound
	}
	if f.Changed("sort-keys") {
		mcfg.SortKeys = opts.SortKeys
	}
	if f.Changed("workers") {
		mcfg.Workers = opts.Workers
	}
	return mcfg
}

func printReport(cmd *cobra.Command, format string, report *appmatching.Report) error {
	out := cmd.OutOrStdout()

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "Found %d JSON documents\n", len(report.Files))
	for i, f := range report.Files {
		fmt.Fprintf(out, "  [%d] %s\n", i, f)
	}
	fmt.Fprintf(out, "Strategy: %s", report.Strategy)
	if report.PivotDoc >= 0 {
		fmt.Fprintf(out, " (pivot document %d)", report.PivotDoc)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Matches: %d\n", len(report.Matches))
	for _, m := range report.Matches {
		fmt.Fprintf(out, "  (%d, %d) - (%d, %d), cost: %g\n",
			m.SourceDoc, m.SourceComp, m.TargetDoc, m.TargetComp, m.Cost)
	}

	fmt.Fprintf(out, "Chains: %d\n", len(report.Chains))
	for i, ch := range report.Chains {
		fmt.Fprintf(out, "  chain %d:", i)
		for _, id := range ch {
			fmt.Fprintf(out, " %s", id)
		}
		fmt.Fprintln(out)
	}
	return nil
}
