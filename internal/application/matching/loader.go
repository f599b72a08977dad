package matching

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SEG-UNIBE/BF-CBOM/internal/infrastructure/monitoring/logging"
	"github.com/SEG-UNIBE/BF-CBOM/internal/infrastructure/monitoring/prometheus"
	"github.com/SEG-UNIBE/BF-CBOM/internal/intelligence/treesim"
	apperrors "github.com/SEG-UNIBE/BF-CBOM/pkg/errors"
	types "github.com/SEG-UNIBE/BF-CBOM/pkg/types/matching"
)

// cbomEnvelope extracts the components array from a CBOM document while
// leaving the elements untouched for the order-preserving encoder.
type cbomEnvelope struct {
	Components json.RawMessage `json:"components"`
}

// Loader reads CBOM documents from disk and converts their components to
// bracket notation.
type Loader struct {
	logger   logging.Logger
	metrics  *prometheus.PipelineMetrics
	sortKeys bool
}

// NewLoader constructs a Loader.  A nil logger or metrics falls back to
// no-op implementations.
func NewLoader(logger logging.Logger, metrics *prometheus.PipelineMetrics, sortKeys bool) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewPipelineMetrics(nil)
	}
	return &Loader{logger: logger, metrics: metrics, sortKeys: sortKeys}
}

// LoadDirectory loads every JSON file (case-insensitive ".json" extension)
// directly inside dir, in lexical filename order.  Files that fail to parse
// as JSON are logged and excluded from the result; files whose top level is
// not an object, or whose components field is missing or not an array,
// yield a document with zero components.
func (l *Loader) LoadDirectory(dir string) ([]types.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDirectoryAccess,
			"failed to read document directory").WithDetail(dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	docs := make([]types.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := l.loadFile(p)
		if err != nil {
			l.logger.Warn("skipping unparseable document",
				logging.String("path", p), logging.Err(err))
			l.metrics.DocumentSkipped()
			continue
		}
		l.metrics.DocumentLoaded()
		l.metrics.ComponentsEncoded(doc.Len())
		docs = append(docs, doc)
	}
	return docs, nil
}

// loadFile reads and encodes a single CBOM document.
func (l *Loader) loadFile(path string) (types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, apperrors.Wrap(err, apperrors.ErrCodeDirectoryAccess,
			"failed to read document file")
	}

	doc := types.Document{Path: path}
	var env cbomEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		if !json.Valid(data) {
			return types.Document{}, apperrors.Wrap(err, apperrors.ErrCodeCBOMParseFailed,
				"document is not valid JSON")
		}
		// Valid JSON whose top level is not an object (an array, a bare
		// string) carries no components array; keep the document so that
		// later files keep their indices.
		l.logger.Debug("document top level is not an object", logging.String("path", path))
		return doc, nil
	}
	if len(env.Components) == 0 {
		l.logger.Debug("document has no components array", logging.String("path", path))
		return doc, nil
	}

	encodings, err := treesim.EncodeComponents(env.Components, l.sortKeys)
	if err != nil {
		// A present but non-array components field counts as an empty
		// component list, same as a missing one.
		if apperrors.IsCode(err, apperrors.ErrCodeComponentsMissing) {
			l.logger.Debug("components field is not an array", logging.String("path", path))
			return doc, nil
		}
		return types.Document{}, err
	}
	doc.Encodings = encodings
	return doc, nil
}
