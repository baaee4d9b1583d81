package normalizer

import (
	"log/slog"
	"time"
)

// Stats aggregates the outcome of one batch run.
type Stats struct {
	Candidates int
	Normalized int
	Dropped    int
	Duration   time.Duration
}

// Result is the output of a batch run. URLs keeps extraction order and may
// contain duplicates.
type Result struct {
	URLs  []string
	Stats Stats
}

// Batch extracts candidates from its input and normalizes each of them.
type Batch struct {
	normalizer *Normalizer
	extractor  Extractor
	workers    int
	logger     *slog.Logger
	recorder   Recorder
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithWorkers sets how many candidates are normalized concurrently.
func WithWorkers(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithLogger sets the logger used to report dropped candidates.
func WithLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithRecorder attaches a Recorder, e.g. Prometheus metrics.
func WithRecorder(r Recorder) BatchOption {
	return func(b *Batch) {
		b.recorder = r
	}
}

// NewBatch returns a Batch that feeds the candidates found by ex through n.
func NewBatch(n *Normalizer, ex Extractor, opts ...BatchOption) *Batch {
	b := &Batch{
		normalizer: n,
		extractor:  ex,
		workers:    1,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NormalizeAll returns the canonical form of every URL found in inputs, in
// the order they were found. Candidates that cannot be normalized are
// silently left out.
func (b *Batch) NormalizeAll(inputs ...string) []string {
	return b.Run(inputs...).URLs
}

// Run is NormalizeAll with statistics.
func (b *Batch) Run(inputs ...string) Result {
	started := time.Now()

	candidates := b.extract(inputs)
	outcomes := b.normalizeCandidates(candidates)

	stats := Stats{Candidates: len(candidates)}
	urls := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.ok {
			stats.Dropped++
			continue
		}
		stats.Normalized++
		urls = append(urls, o.url)
	}
	stats.Duration = time.Since(started)

	if b.recorder != nil {
		b.recorder.RecordBatch(stats)
	}
	return Result{URLs: urls, Stats: stats}
}

func (b *Batch) extract(inputs []string) (candidates []string) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Extractor panicked.", "panic", r)
			candidates = nil
		}
	}()
	return b.extractor.Extract(inputs...)
}
