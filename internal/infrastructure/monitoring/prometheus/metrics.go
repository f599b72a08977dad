package prometheus

import "time"

// PipelineMetrics bundles the metrics recorded by the matching pipeline.
// All methods are safe for concurrent use and no-ops when constructed over
// a nil collector, so callers never need to guard instrumentation sites.
type PipelineMetrics struct {
	documentsLoaded   CounterVec
	documentsSkipped  CounterVec
	componentsEncoded CounterVec
	pairsCompared     CounterVec
	distancesComputed CounterVec
	candidatesPruned  CounterVec
	matchesAccepted   CounterVec
	matchesRejected   CounterVec
	chainsBuilt       GaugeVec
	pairDuration      HistogramVec
}

// NewPipelineMetrics registers the pipeline's metrics on mc.  A nil mc
// yields a PipelineMetrics whose methods do nothing.
func NewPipelineMetrics(mc MetricsCollector) *PipelineMetrics {
	if mc == nil {
		return &PipelineMetrics{
			documentsLoaded:   noopCounterVec{},
			documentsSkipped:  noopCounterVec{},
			componentsEncoded: noopCounterVec{},
			pairsCompared:     noopCounterVec{},
			distancesComputed: noopCounterVec{},
			candidatesPruned:  noopCounterVec{},
			matchesAccepted:   noopCounterVec{},
			matchesRejected:   noopCounterVec{},
			chainsBuilt:       noopGaugeVec{},
			pairDuration:      noopHistogramVec{},
		}
	}
	return &PipelineMetrics{
		documentsLoaded: mc.RegisterCounter("documents_loaded_total",
			"Number of JSON documents loaded successfully."),
		documentsSkipped: mc.RegisterCounter("documents_skipped_total",
			"Number of JSON documents skipped because they could not be parsed."),
		componentsEncoded: mc.RegisterCounter("components_encoded_total",
			"Number of components converted to bracket notation."),
		pairsCompared: mc.RegisterCounter("document_pairs_compared_total",
			"Number of document pairs run through the similarity join.", "strategy"),
		distancesComputed: mc.RegisterCounter("tree_distances_computed_total",
			"Number of exact tree edit distances computed."),
		candidatesPruned: mc.RegisterCounter("index_candidates_pruned_total",
			"Number of index candidates discarded by the overlap lower bound."),
		matchesAccepted: mc.RegisterCounter("matches_accepted_total",
			"Number of component matches below the cost threshold.", "strategy"),
		matchesRejected: mc.RegisterCounter("matches_rejected_total",
			"Number of assignment pairings vetoed by the cost threshold.", "strategy"),
		chainsBuilt: mc.RegisterGauge("chains_built",
			"Number of component chains produced by the last run."),
		pairDuration: mc.RegisterHistogram("pair_compare_duration_seconds",
			"Wall time spent comparing one document pair.", nil, "strategy"),
	}
}

func (m *PipelineMetrics) DocumentLoaded()  { m.documentsLoaded.WithLabelValues().Inc() }
func (m *PipelineMetrics) DocumentSkipped() { m.documentsSkipped.WithLabelValues().Inc() }
func (m *PipelineMetrics) ChainsBuilt(n int) { m.chainsBuilt.WithLabelValues().Set(float64(n)) }

func (m *PipelineMetrics) ComponentsEncoded(n int) {
	m.componentsEncoded.WithLabelValues().Add(float64(n))
}

func (m *PipelineMetrics) DistancesComputed(n int) {
	m.distancesComputed.WithLabelValues().Add(float64(n))
}

func (m *PipelineMetrics) CandidatesPruned(n int) {
	m.candidatesPruned.WithLabelValues().Add(float64(n))
}

func (m *PipelineMetrics) PairCompared(strategy string) {
	m.pairsCompared.WithLabelValues(strategy).Inc()
}

func (m *PipelineMetrics) MatchAccepted(strategy string) {
	m.matchesAccepted.WithLabelValues(strategy).Inc()
}

func (m *PipelineMetrics) MatchRejected(strategy string) {
	m.matchesRejected.WithLabelValues(strategy).Inc()
}

func (m *PipelineMetrics) ObservePairDuration(strategy string, d time.Duration) {
	m.pairDuration.WithLabelValues(strategy).Observe(d.Seconds())
}
