package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamgrid/channel-data-etl/internal/domain"
	"github.com/hamgrid/channel-data-etl/internal/ingest"
	"github.com/hamgrid/channel-data-etl/internal/observability"
)

type fakeSource struct {
	name    string
	records []domain.CanonicalRecord
	stats   ingest.Stats
	err     error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Extract(_ context.Context) ([]domain.CanonicalRecord, ingest.Stats, error) {
	return f.records, f.stats, f.err
}

func testPipeline(sources ...ingest.Source) *Pipeline {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(sources, logger, observability.NewMetricsForTesting())
}

func TestPipeline_Run_EnrichesRecords(t *testing.T) {
	src := &fakeSource{
		name: "test",
		records: []domain.CanonicalRecord{
			{
				IdentityKey: "AT-0001",
				DisplayName: "Käfer Park",
				GridLocator: "JN88EF",
				Mode:        domain.ModeGPSWaypoint,
			},
			{
				IdentityKey:  "OE1TEST/6m",
				DisplayName:  "Six Meters",
				FrequencyMHz: 51.0,
				Mode:         domain.ModeFM,
				Lat:          48.2,
				Lon:          16.3,
			},
		},
		stats: ingest.Stats{RowsRead: 2},
	}

	records, err := testPipeline(src).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	park := records[0]
	assert.Equal(t, "Kaefer Park", park.DisplayName, "names fold to ASCII")
	assert.True(t, park.HasCoordinates(), "grid locator fills missing coordinates")
	assert.InDelta(t, 48.23, park.Lat, 0.01)
	assert.False(t, park.LocExact)

	repeater := records[1]
	assert.Equal(t, 145.0, repeater.FrequencyMHz, "out-of-band frequency is repaired")
}

func TestPipeline_Run_FailedSourceSkipped(t *testing.T) {
	failing := &fakeSource{name: "down", err: ingest.ErrSourceUnavailable}
	working := &fakeSource{
		name:    "up",
		records: []domain.CanonicalRecord{{IdentityKey: "A", DisplayName: "A", Mode: domain.ModeFM, FrequencyMHz: 145.6}},
	}

	records, err := testPipeline(failing, working).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0].IdentityKey)
}

func TestPipeline_Progress(t *testing.T) {
	failing := &fakeSource{name: "down", err: ingest.ErrSourceUnavailable}
	working := &fakeSource{
		name:    "up",
		records: []domain.CanonicalRecord{{IdentityKey: "A", DisplayName: "A", Mode: domain.ModeFM, FrequencyMHz: 145.6}},
	}

	p := testPipeline(failing, working)

	records, done, total := p.Progress()
	assert.Zero(t, records)
	assert.Zero(t, done)
	assert.Equal(t, 2, total)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	records, done, total = p.Progress()
	assert.Equal(t, 1, records)
	assert.Equal(t, 2, done, "failed sources still count as finished")
	assert.Equal(t, 2, total)
}

func TestPipeline_Run_NoOutput(t *testing.T) {
	empty := &fakeSource{name: "empty"}
	failing := &fakeSource{name: "down", err: errors.New("boom")}

	_, err := testPipeline(empty, failing).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestPipeline_Run_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testPipeline(&fakeSource{name: "any"}).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_Dedupe(t *testing.T) {
	p := testPipeline()
	records := []domain.CanonicalRecord{
		{IdentityKey: "A", DisplayName: "Alpha"},
		{IdentityKey: "A", DisplayName: "Alpha Again"},
		{IdentityKey: "B", DisplayName: "Bravo"},
	}

	out := p.Dedupe(records, domain.KeyIdentity, func(domain.CanonicalRecord) float64 { return 0 }, 0)
	require.Len(t, out, 2)
	assert.Equal(t, "Alpha", out[0].DisplayName, "first seen wins")
	assert.Equal(t, "Bravo", out[1].DisplayName)
}

func TestFilterSupportedBands(t *testing.T) {
	records := []domain.CanonicalRecord{
		{IdentityKey: "2m", Mode: domain.ModeFM, FrequencyMHz: 145.6},
		{IdentityKey: "70cm", Mode: domain.ModeDSTAR, FrequencyMHz: 438.525},
		{IdentityKey: "out", Mode: domain.ModeFM, FrequencyMHz: 155.0},
		{IdentityKey: "park", Mode: domain.ModeGPSWaypoint},
	}

	kept, dropped := FilterSupportedBands(records)
	assert.Equal(t, 1, dropped)
	require.Len(t, kept, 3)
	assert.Equal(t, "2m", kept[0].IdentityKey)
	assert.Equal(t, "park", kept[2].IdentityKey, "waypoints pass through")
}
