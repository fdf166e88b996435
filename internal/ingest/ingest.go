// Package ingest contains the source adapters that turn external datasets
// into canonical records: the canonical intermediate CSV, foreign-encoded
// vendor channel CSVs, the POTA park API, and SOTA summit exports.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamgrid/channel-data-etl/internal/domain"
)

// ErrSourceUnavailable marks a source that could not be read at all.
// The pipeline skips it, reports zero records, and continues with the
// remaining sources.
var ErrSourceUnavailable = errors.New("source unavailable")

// Stats counts the rows a source saw during one extraction.
type Stats struct {
	RowsRead    int
	RowsSkipped int
}

// Source extracts canonical records from one external dataset.
type Source interface {
	Name() string
	Extract(ctx context.Context) ([]domain.CanonicalRecord, Stats, error)
}

// RowError describes a single input row that failed to parse. Row errors
// are recoverable: the row is skipped and counted, the stream continues.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
