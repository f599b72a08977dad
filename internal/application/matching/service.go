// Package matching orchestrates the cross-document component matching
// pipeline: loading documents, running the indexed similarity join per
// document pair, solving the assignment, and clustering accepted matches
// into chains.
package matching

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SEG-UNIBE/BF-CBOM/internal/config"
	domain "github.com/SEG-UNIBE/BF-CBOM/internal/domain/matching"
	"github.com/SEG-UNIBE/BF-CBOM/internal/infrastructure/monitoring/logging"
	"github.com/SEG-UNIBE/BF-CBOM/internal/infrastructure/monitoring/prometheus"
	"github.com/SEG-UNIBE/BF-CBOM/internal/intelligence/treesim"
	apperrors "github.com/SEG-UNIBE/BF-CBOM/pkg/errors"
	types "github.com/SEG-UNIBE/BF-CBOM/pkg/types/matching"
)

// Report is the final output of a matching run.
type Report struct {
	RunID    string        `json:"run_id"`
	Strategy string        `json:"strategy"`
	Files    []string      `json:"files"`
	PivotDoc int           `json:"pivot_doc"` // -1 under the all-pairs strategy
	Matches  []types.Match `json:"matches"`
	Chains   []types.Chain `json:"chains"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Service runs the matching pipeline according to its configuration.
type Service struct {
	cfg     config.MatchingConfig
	logger  logging.Logger
	metrics *prometheus.PipelineMetrics
	cost    treesim.CostModel
	loader  *Loader
}

// NewService constructs a Service from a validated MatchingConfig.
func NewService(cfg config.MatchingConfig, logger logging.Logger, metrics *prometheus.PipelineMetrics) (*Service, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewPipelineMetrics(nil)
	}

	var cost treesim.CostModel
	switch cfg.CostModel {
	case config.CostModelUnit:
		cost = &treesim.UnitCostModel{Sentinel: cfg.SentinelCost}
	case config.CostModelLabel:
		cost = &treesim.LabelCostModel{Sentinel: cfg.SentinelCost}
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeMatchingConfigInvalid,
			"unknown cost model %q", cfg.CostModel)
	}

	if cfg.Strategy != config.StrategyPivot && cfg.Strategy != config.StrategyAllPairs {
		return nil, apperrors.Newf(apperrors.ErrCodeMatchingConfigInvalid,
			"unknown matching strategy %q", cfg.Strategy)
	}

	return &Service{
		cfg:     cfg,
		logger:  logger.Named("matching"),
		metrics: metrics,
		cost:    cost,
		loader:  NewLoader(logger, metrics, cfg.SortKeys),
	}, nil
}

// MatchDirectory loads every JSON document in dir and matches them.
func (s *Service) MatchDirectory(ctx context.Context, dir string) (*Report, error) {
	docs, err := s.loader.LoadDirectory(dir)
	if err != nil {
		return nil, err
	}
	return s.MatchDocuments(ctx, docs)
}

// MatchDocuments runs the configured strategy over docs and returns the
// accepted matches and the chains they induce.  Fewer than two documents
// yield an empty report rather than an error; the caller decides whether
// that is worth reporting.
func (s *Service) MatchDocuments(ctx context.Context, docs []types.Document) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:    uuid.NewString(),
		Strategy: s.cfg.Strategy,
		PivotDoc: -1,
		Matches:  []types.Match{},
		Chains:   []types.Chain{},
	}
	for _, d := range docs {
		report.Files = append(report.Files, d.Path)
	}

	log := s.logger.With(logging.String("run_id", report.RunID))
	if len(docs) < 2 {
		log.Warn("not enough documents to match", logging.Int("documents", len(docs)))
		report.Elapsed = time.Since(start)
		return report, nil
	}

	forests, err := s.parseForests(docs)
	if err != nil {
		return nil, err
	}

	var pairs []docPair
	switch s.cfg.Strategy {
	case config.StrategyPivot:
		pivot := pivotIndex(docs)
		report.PivotDoc = pivot
		for k := range docs {
			if k != pivot {
				pairs = append(pairs, docPair{source: pivot, target: k})
			}
		}
		log.Info("matching against pivot document",
			logging.Int("pivot", pivot),
			logging.Int("documents", len(docs)),
			logging.Int("pairs", len(pairs)))
	case config.StrategyAllPairs:
		for p := range docs {
			for k := range docs {
				if p != k {
					pairs = append(pairs, docPair{source: p, target: k})
				}
			}
		}
		log.Info("matching all document pairs",
			logging.Int("documents", len(docs)),
			logging.Int("pairs", len(pairs)))
	}

	matches, err := s.comparePairs(ctx, log, forests, pairs)
	if err != nil {
		return nil, err
	}
	report.Matches = matches
	report.Chains = domain.ClusterMatches(matches)
	report.Elapsed = time.Since(start)

	s.metrics.ChainsBuilt(len(report.Chains))
	log.Info("matching run complete",
		logging.Int("matches", len(report.Matches)),
		logging.Int("chains", len(report.Chains)),
		logging.Duration("elapsed", report.Elapsed))
	return report, nil
}

// docPair is one source/target comparison task.
type docPair struct {
	source int
	target int
}

// parseForests parses every document's bracket encodings into trees once,
// up front, so concurrent pair comparisons share read-only forests.
func (s *Service) parseForests(docs []types.Document) ([][]*treesim.Tree, error) {
	forests := make([][]*treesim.Tree, len(docs))
	for d, doc := range docs {
		trees := make([]*treesim.Tree, len(doc.Encodings))
		for i, enc := range doc.Encodings {
			t, err := treesim.ParseBracket(enc)
			if err != nil {
				return nil, apperrors.Wrap(err, apperrors.ErrCodeBracketParseFailed,
					"failed to parse component encoding").WithDetail(doc.Path)
			}
			trees[i] = t
		}
		forests[d] = trees
	}
	return forests, nil
}

// comparePairs runs every pair comparison, bounded by the configured worker
// count, and merges the per-pair match lists in pair order before the
// clustering phase.  Each slot of the results slice is written exactly once
// by its own task.
func (s *Service) comparePairs(ctx context.Context, log logging.Logger, forests [][]*treesim.Tree, pairs []docPair) ([]types.Match, error) {
	results := make([][]types.Match, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	limit := s.cfg.Workers
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g.SetLimit(limit)
	for slot, pair := range pairs {
		slot, pair := slot, pair
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[slot] = s.comparePair(log, forests, pair)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := []types.Match{}
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}

// comparePair builds the cost matrix for one document pair via indexed
// similarity lookups, solves the assignment, and applies the acceptance
// threshold.
func (s *Service) comparePair(log logging.Logger, forests [][]*treesim.Tree, pair docPair) []types.Match {
	started := time.Now()
	source := forests[pair.source]
	target := forests[pair.target]

	n := len(source)
	if len(target) > n {
		n = len(target)
	}
	if n == 0 {
		return nil
	}

	cost := newCostMatrix(n, s.cfg.SentinelCost)
	index := treesim.NewIndex(target)
	for i, tree := range source {
		hits, stats := index.Lookup(tree, s.cost, s.cfg.DistanceBound)
		s.metrics.DistancesComputed(stats.Verified)
		s.metrics.CandidatesPruned(stats.Pruned)
		for _, h := range hits {
			cost[i][h.Candidate] = h.Distance
		}
	}

	s.metrics.PairCompared(s.cfg.Strategy)
	defer func() {
		s.metrics.ObservePairDuration(s.cfg.Strategy, time.Since(started))
	}()

	assign, ok := treesim.Solve(cost)
	if !ok {
		err := apperrors.New(apperrors.ErrCodeAssignmentInfeasible,
			"assignment solver rejected the cost matrix")
		log.Error("no assignment for document pair",
			logging.Int("source_doc", pair.source),
			logging.Int("target_doc", pair.target),
			logging.Int("matrix_size", n),
			logging.Err(err))
		return nil
	}

	var matches []types.Match
	for i := 0; i < len(source); i++ {
		j := assign[i]
		if j >= len(target) {
			continue // padded column
		}
		if c := cost[i][j]; c <= s.cfg.CostThreshold {
			matches = append(matches, types.Match{
				SourceDoc:  pair.source,
				TargetDoc:  pair.target,
				SourceComp: i,
				TargetComp: j,
				Cost:       c,
			})
			s.metrics.MatchAccepted(s.cfg.Strategy)
		} else {
			s.metrics.MatchRejected(s.cfg.Strategy)
		}
	}
	return matches
}

// pivotIndex returns the index of the first document with the strictly
// largest component count.
func pivotIndex(docs []types.Document) int {
	pivot := 0
	size := 0
	for i, d := range docs {
		if d.Len() > size {
			pivot = i
			size = d.Len()
		}
	}
	return pivot
}

// MatchPivot matches every document against the one with the most components
// and returns the resulting chains.  It wraps a Service with the pivot
// strategy and otherwise default configuration.
func MatchPivot(ctx context.Context, docs []types.Document, costThresh float64) ([]types.Chain, error) {
	return matchWithStrategy(ctx, docs, config.StrategyPivot, costThresh)
}

// MatchAll compares every ordered pair of distinct documents and returns the
// resulting chains.  It wraps a Service with the all-pairs strategy and
// otherwise default configuration.
func MatchAll(ctx context.Context, docs []types.Document, costThresh float64) ([]types.Chain, error) {
	return matchWithStrategy(ctx, docs, config.StrategyAllPairs, costThresh)
}

func matchWithStrategy(ctx context.Context, docs []types.Document, strategy string, costThresh float64) ([]types.Chain, error) {
	cfg := config.NewDefault().Matching
	cfg.Strategy = strategy
	cfg.CostThreshold = costThresh

	svc, err := NewService(cfg, nil, nil)
	if err != nil {
		return nil, err
	}
	report, err := svc.MatchDocuments(ctx, docs)
	if err != nil {
		return nil, err
	}
	return report.Chains, nil
}
