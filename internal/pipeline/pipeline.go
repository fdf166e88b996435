// Package pipeline orchestrates one batch run: extract canonical records
// from every configured source, enrich them, and hand the result to the
// export projectors.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/hamgrid/channel-data-etl/internal/domain"
	"github.com/hamgrid/channel-data-etl/internal/ingest"
	"github.com/hamgrid/channel-data-etl/internal/observability"
)

// ErrNoOutput means every configured source came up empty. Nothing can be
// exported, so the run as a whole fails.
var ErrNoOutput = errors.New("no records extracted from any source")

// Pipeline runs the extract and enrich stages over a fixed set of sources.
type Pipeline struct {
	sources []ingest.Source
	logger  *slog.Logger
	metrics *observability.Metrics

	records     atomic.Int64
	sourcesDone atomic.Int64
}

// New creates a Pipeline over the given sources.
func New(sources []ingest.Source, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{sources: sources, logger: logger, metrics: metrics}
}

// Progress reports how far the current run has come: records extracted
// so far and sources finished (successfully or not) out of the total.
func (p *Pipeline) Progress() (records, sourcesDone, sourcesTotal int) {
	return int(p.records.Load()), int(p.sourcesDone.Load()), len(p.sources)
}

// Run extracts from all sources and enriches every record. A source that
// fails is skipped and contributes nothing; the remaining sources still
// run. Returns ErrNoOutput when the whole batch comes up empty.
func (p *Pipeline) Run(ctx context.Context) ([]domain.CanonicalRecord, error) {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var records []domain.CanonicalRecord
	for _, src := range p.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		extracted, stats, err := src.Extract(ctx)
		p.sourcesDone.Add(1)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.metrics.SourcesFailed.Inc()
			if errors.Is(err, ingest.ErrSourceUnavailable) {
				p.logger.Error("source unavailable, skipping", "source", src.Name(), "error", err)
			} else {
				p.logger.Error("source failed, skipping", "source", src.Name(), "error", err)
			}
			continue
		}

		p.metrics.RecordsIngested.WithLabelValues(src.Name()).Add(float64(len(extracted)))
		p.metrics.RowsSkipped.WithLabelValues(src.Name()).Add(float64(stats.RowsSkipped))
		p.logger.Info("source extracted",
			"source", src.Name(),
			"records", len(extracted),
			"rows_read", stats.RowsRead,
			"rows_skipped", stats.RowsSkipped)

		for i := range extracted {
			enrich(&extracted[i], p.metrics)
		}
		records = append(records, extracted...)
		p.records.Store(int64(len(records)))
	}

	if len(records) == 0 {
		return nil, ErrNoOutput
	}
	return records, nil
}

// Dedupe collapses identity collisions and applies the optional ranking
// limit, counting everything that falls out.
func (p *Pipeline) Dedupe(records []domain.CanonicalRecord, identity domain.IdentityFunc, score domain.ScoreFunc, limit int) []domain.CanonicalRecord {
	out := domain.DedupeAndRank(records, identity, score, limit)
	if dropped := len(records) - len(out); dropped > 0 {
		p.metrics.RecordsDropped.Add(float64(dropped))
		p.logger.Info("dropped records", "count", dropped, "reason", "dedupe/limit")
	}
	return out
}

// FilterBands removes repeaters outside the supported band plan.
func (p *Pipeline) FilterBands(records []domain.CanonicalRecord) []domain.CanonicalRecord {
	kept, dropped := FilterSupportedBands(records)
	if dropped > 0 {
		p.metrics.RecordsDropped.Add(float64(dropped))
		p.logger.Info("dropped records", "count", dropped, "reason", "band filter")
	}
	return kept
}
