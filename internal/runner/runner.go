// Package runner wires configuration, sources, the pipeline, and the
// export projectors into the operations the CLI exposes.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hamgrid/channel-data-etl/internal/adapter/csvio"
	"github.com/hamgrid/channel-data-etl/internal/adapter/httpserver"
	"github.com/hamgrid/channel-data-etl/internal/config"
	"github.com/hamgrid/channel-data-etl/internal/domain"
	"github.com/hamgrid/channel-data-etl/internal/export"
	"github.com/hamgrid/channel-data-etl/internal/ingest"
	"github.com/hamgrid/channel-data-etl/internal/observability"
	"github.com/hamgrid/channel-data-etl/internal/pipeline"
)

// Runner executes export operations against one loaded configuration.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	groups  *export.GroupConfig
}

// New creates a Runner.
func New(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		groups:  export.DefaultGroupConfig(),
	}
}

// All runs the channel and GPS exports in sequence. A run only fails when
// both operations fail to produce output.
func (r *Runner) All(ctx context.Context) error {
	chErr := r.Channels(ctx)
	if chErr != nil && !errors.Is(chErr, pipeline.ErrNoOutput) {
		return chErr
	}
	gpsErr := r.GPS(ctx)
	if gpsErr != nil && !errors.Is(gpsErr, pipeline.ErrNoOutput) {
		return gpsErr
	}
	if chErr != nil && gpsErr != nil {
		return pipeline.ErrNoOutput
	}
	return nil
}

// Channels runs the memory-channel export: repeater records from the
// canonical and vendor files, plus the broadcast and PMR supplements.
func (r *Runner) Channels(ctx context.Context) error {
	sources := r.repeaterSources()
	if len(sources) == 0 && r.cfg.BroadcastFile == "" && r.cfg.PMRFile == "" {
		return fmt.Errorf("%w: no channel inputs configured", pipeline.ErrNoOutput)
	}

	wrote := false
	if len(sources) > 0 {
		p := pipeline.New(sources, r.logger, r.metrics)
		stop := r.serveMetrics(p)
		defer stop()

		records, err := p.Run(ctx)
		if err != nil && !errors.Is(err, pipeline.ErrNoOutput) {
			return err
		}
		if err == nil {
			records = p.FilterBands(records)
			records = p.Dedupe(records, domain.KeyIdentity, func(domain.CanonicalRecord) float64 { return 0 }, r.cfg.ChannelLimit)

			if r.cfg.VendorFile != "" {
				path := filepath.Join(r.cfg.OutputDir, "canonical", "repeaters.csv")
				if err := ingest.WriteCanonical(path, records); err != nil {
					return fmt.Errorf("writing canonical file: %w", err)
				}
				r.logger.Info("wrote canonical file", "path", path, "records", len(records))
			}

			if err := r.writeRepeaterChannels(records); err != nil {
				return err
			}
			wrote = true
		}
	}

	if r.cfg.BroadcastFile != "" {
		n, err := r.writeBroadcastChannels(ctx)
		if err != nil {
			return err
		}
		wrote = wrote || n > 0
	}
	if r.cfg.PMRFile != "" {
		n, err := r.writePMRChannels(ctx)
		if err != nil {
			return err
		}
		wrote = wrote || n > 0
	}

	if !wrote {
		return pipeline.ErrNoOutput
	}
	return nil
}

// GPS runs the waypoint export: POTA parks from the API and SOTA summits
// from their file.
func (r *Runner) GPS(ctx context.Context) error {
	sources := r.waypointSources()
	if len(sources) == 0 {
		return fmt.Errorf("%w: no waypoint inputs configured", pipeline.ErrNoOutput)
	}

	p := pipeline.New(sources, r.logger, r.metrics)
	stop := r.serveMetrics(p)
	defer stop()

	records, err := p.Run(ctx)
	if err != nil {
		return err
	}
	records = p.Dedupe(records, domain.KeyIdentity, func(domain.CanonicalRecord) float64 { return 0 }, 0)

	return r.writeGPSWaypoints(records)
}

// writeRepeaterChannels writes one file per dataset and country plus a
// combined file per dataset.
func (r *Runner) writeRepeaterChannels(records []domain.CanonicalRecord) error {
	byDataset := map[export.Dataset][]domain.CanonicalRecord{}
	for _, rec := range records {
		ds := export.DatasetFM
		if rec.Mode == domain.ModeDSTAR {
			ds = export.DatasetDSTAR
		}
		byDataset[ds] = append(byDataset[ds], rec)
	}

	for _, ds := range []export.Dataset{export.DatasetFM, export.DatasetDSTAR} {
		recs := byDataset[ds]
		if len(recs) == 0 {
			continue
		}

		var combined [][]string
		for _, group := range r.groupRecords(ds, recs) {
			rows := export.ProjectRepeaterChannels(group.records, group.assignment, r.groups.UTCOffset(group.country))
			combined = append(combined, rows...)

			path := filepath.Join(r.cfg.OutputDir, "channels",
				fmt.Sprintf("%s_%s.csv", ds, strings.ToLower(group.country)))
			if err := r.writeChannelFile(path, rows); err != nil {
				return err
			}
		}

		path := filepath.Join(r.cfg.OutputDir, "channels", fmt.Sprintf("%s_combined.csv", ds))
		if err := r.writeChannelFile(path, combined); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) writeBroadcastChannels(ctx context.Context) (int, error) {
	src := ingest.NewCanonicalSource(r.cfg.BroadcastFile, ingest.CanonicalOptions{}, r.logger)
	p := pipeline.New([]ingest.Source{src}, r.logger, r.metrics)
	records, err := p.Run(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoOutput) {
			return 0, nil
		}
		return 0, err
	}

	ranking := export.BroadcastRanking{
		RefLat:     r.cfg.BroadcastRefLat,
		RefLon:     r.cfg.BroadcastRefLon,
		RadiusKm:   r.cfg.BroadcastRadiusKm,
		Limit:      r.cfg.BroadcastLimit,
		Priorities: export.DefaultBroadcastPriorities(),
	}
	selected := ranking.Select(records)
	if dropped := len(records) - len(selected); dropped > 0 {
		r.metrics.RecordsDropped.Add(float64(dropped))
	}

	group, _ := r.groups.Assignment(export.DatasetBroadcast, "")
	rows := export.ProjectBroadcastChannels(selected, group, r.groups.UTCOffset(""))

	path := filepath.Join(r.cfg.OutputDir, "channels", "broadcast_fm.csv")
	if err := r.writeChannelFile(path, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *Runner) writePMRChannels(ctx context.Context) (int, error) {
	src := ingest.NewCanonicalSource(r.cfg.PMRFile, ingest.CanonicalOptions{}, r.logger)
	p := pipeline.New([]ingest.Source{src}, r.logger, r.metrics)
	records, err := p.Run(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoOutput) {
			return 0, nil
		}
		return 0, err
	}

	group, _ := r.groups.Assignment(export.DatasetPMR, "")
	rows := export.ProjectPMRChannels(records, group, r.groups.UTCOffset(""))

	path := filepath.Join(r.cfg.OutputDir, "channels", "pmr.csv")
	if err := r.writeChannelFile(path, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *Runner) writeGPSWaypoints(records []domain.CanonicalRecord) error {
	for _, ds := range []export.Dataset{export.DatasetPOTA, export.DatasetSOTA} {
		var dsRecords []domain.CanonicalRecord
		for _, rec := range records {
			if waypointDataset(rec) == ds {
				dsRecords = append(dsRecords, rec)
			}
		}
		if len(dsRecords) == 0 {
			continue
		}

		var combined [][]string
		for _, group := range r.groupRecords(ds, dsRecords) {
			rows := export.ProjectGPSWaypoints(group.records, group.assignment)
			combined = append(combined, rows...)

			path := filepath.Join(r.cfg.OutputDir, "gps",
				fmt.Sprintf("%s_%s.csv", ds, strings.ToLower(group.country)))
			if err := r.writeGPSFile(path, rows); err != nil {
				return err
			}
		}

		path := filepath.Join(r.cfg.OutputDir, "gps", fmt.Sprintf("%s_all.csv", ds))
		if err := r.writeGPSFile(path, combined); err != nil {
			return err
		}
	}
	return nil
}

// waypointDataset tells park and summit records apart by provenance.
func waypointDataset(r domain.CanonicalRecord) export.Dataset {
	if strings.HasPrefix(r.SourceDescriptor, "pota-api") {
		return export.DatasetPOTA
	}
	return export.DatasetSOTA
}

type countryGroup struct {
	country    string
	assignment export.GroupAssignment
	records    []domain.CanonicalRecord
}

// groupRecords buckets records by country, dropping records of countries
// the dataset has no group assignment for. Groups come back in country
// order so combined files are byte-stable across runs.
func (r *Runner) groupRecords(ds export.Dataset, records []domain.CanonicalRecord) []countryGroup {
	byCountry := map[string]*countryGroup{}
	for _, rec := range records {
		assignment, ok := r.groups.Assignment(ds, rec.CountryCode)
		if !ok {
			r.logger.Warn("no group assignment, dropping record",
				"dataset", string(ds), "country", rec.CountryCode, "key", rec.IdentityKey)
			r.metrics.RecordsDropped.Inc()
			continue
		}
		key := countryKey(rec.CountryCode)
		g, seen := byCountry[key]
		if !seen {
			g = &countryGroup{country: key, assignment: assignment}
			byCountry[key] = g
		}
		g.records = append(g.records, rec)
	}

	out := make([]countryGroup, 0, len(byCountry))
	for _, g := range byCountry {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].country < out[j].country })
	return out
}

func countryKey(code string) string {
	switch code {
	case "AUT":
		return "AT"
	case "SVK":
		return "SK"
	case "SGP":
		return "SG"
	case "JPN":
		return "JP"
	}
	return code
}

func (r *Runner) writeChannelFile(path string, rows [][]string) error {
	if err := csvio.WriteFile(path, export.ChannelHeader, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	r.metrics.RecordsExported.WithLabelValues("channels").Add(float64(len(rows)))
	r.logger.Info("wrote channel export", "path", path, "rows", len(rows))
	return nil
}

func (r *Runner) writeGPSFile(path string, rows [][]string) error {
	if err := csvio.WriteFile(path, export.GPSHeader, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	r.metrics.RecordsExported.WithLabelValues("gps").Add(float64(len(rows)))
	r.logger.Info("wrote gps export", "path", path, "rows", len(rows))
	return nil
}

// serveMetrics starts the observability endpoints when configured. The
// returned stop function shuts the server down; it is a no-op when the
// endpoint is disabled.
func (r *Runner) serveMetrics(p *pipeline.Pipeline) func() {
	if r.cfg.MetricsAddr == "" {
		return func() {}
	}

	srv := httpserver.NewServer(r.cfg.MetricsAddr, p, r.logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("http server error", "error", err)
		}
	}()
	return func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			r.logger.Error("http server shutdown error", "error", err)
		}
	}
}
