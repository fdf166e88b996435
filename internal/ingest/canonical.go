package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hamgrid/channel-data-etl/internal/adapter/csvio"
	"github.com/hamgrid/channel-data-etl/internal/domain"
)

// CanonicalHeader is the column order of the canonical intermediate CSV.
// Order is significant: downstream tooling reads these files positionally.
var CanonicalHeader = []string{
	"callsign", "name", "band", "freq_tx", "freq_rx", "ctcss_tx", "ctcss_rx",
	"c4fm", "dmr", "dmr_id", "dmr_cc", "dstar", "dstar_rpt1", "dstar_rpt2",
	"fm", "landmark", "state", "country", "country_code", "loc_exact",
	"lat", "long", "locator", "sea_level", "skip", "scan_group",
	"source_id", "source_name", "source_provider", "source_type",
	"source_license", "source_url", "offset", "dup", "ctcss",
	"simplex", "split", "multimode", "name_formatted", "distance", "heading",
}

// CanonicalOptions narrows which rows of a canonical CSV are extracted.
type CanonicalOptions struct {
	// Countries keeps only rows whose country or country_code column
	// matches one of the given values. Empty means all countries.
	Countries []string

	// Mode keeps only rows flagged for the given operating mode
	// (ModeFM checks the fm column, ModeDSTAR the dstar column).
	// Empty means all rows.
	Mode domain.Mode
}

// CanonicalSource reads repeater records from a canonical intermediate CSV.
type CanonicalSource struct {
	path   string
	opts   CanonicalOptions
	logger *slog.Logger
}

// NewCanonicalSource creates a source reading the canonical CSV at path.
func NewCanonicalSource(path string, opts CanonicalOptions, logger *slog.Logger) *CanonicalSource {
	return &CanonicalSource{path: path, opts: opts, logger: logger}
}

func (s *CanonicalSource) Name() string {
	return "canonical:" + filepath.Base(s.path)
}

// Extract reads and filters the file. Rows that fail to parse are skipped
// and counted; an unreadable file is reported as ErrSourceUnavailable.
func (s *CanonicalSource) Extract(ctx context.Context) ([]domain.CanonicalRecord, Stats, error) {
	var stats Stats

	f, err := os.Open(s.path)
	if err != nil {
		return nil, stats, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("%w: reading header of %s: %v", ErrSourceUnavailable, s.path, err)
	}
	cols, err := indexColumns(header, "name", "callsign", "lat", "long")
	if err != nil {
		return nil, stats, fmt.Errorf("canonical csv %s: %w", s.path, err)
	}

	var records []domain.CanonicalRecord
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		row, err := reader.Read()
		if err != nil {
			break
		}
		line++
		stats.RowsRead++

		rec, rowErr := s.parseRow(cols, row, line)
		if rowErr != nil {
			stats.RowsSkipped++
			s.logger.Warn("skipping canonical row", "source", s.Name(), "error", rowErr)
			continue
		}
		if rec == nil {
			continue // filtered, not an error
		}
		records = append(records, *rec)
	}

	return records, stats, nil
}

// parseRow maps one CSV row to a canonical record. A nil record with nil
// error means the row was filtered out by the configured options.
func (s *CanonicalSource) parseRow(cols map[string]int, row []string, line int) (*domain.CanonicalRecord, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	name := get("name")
	callsign := get("callsign")
	if name == "" && callsign == "" {
		return nil, &RowError{Line: line, Err: fmt.Errorf("missing name and callsign")}
	}

	if len(s.opts.Countries) > 0 &&
		!containsFold(s.opts.Countries, get("country")) &&
		!containsFold(s.opts.Countries, get("country_code")) {
		return nil, nil
	}
	isDSTAR := parseBool(get("dstar"))
	isFM := parseBool(get("fm"))
	switch s.opts.Mode {
	case domain.ModeDSTAR:
		if !isDSTAR {
			return nil, nil
		}
	case domain.ModeFM:
		if !isFM {
			return nil, nil
		}
	}

	lat, err := parseFloat(get("lat"))
	if err != nil {
		return nil, &RowError{Line: line, Err: fmt.Errorf("lat: %v", err)}
	}
	lon, err := parseFloat(get("long"))
	if err != nil {
		return nil, &RowError{Line: line, Err: fmt.Errorf("long: %v", err)}
	}
	freqRx, err := parseFloat(get("freq_rx"))
	if err != nil {
		return nil, &RowError{Line: line, Err: fmt.Errorf("freq_rx: %v", err)}
	}
	freqTx, err := parseFloat(get("freq_tx"))
	if err != nil {
		return nil, &RowError{Line: line, Err: fmt.Errorf("freq_tx: %v", err)}
	}
	if freqRx == 0 {
		freqRx = freqTx
	}
	offset, err := parseFloat(get("offset"))
	if err != nil {
		offset = 0
	}

	mode := domain.ModeFM
	if isDSTAR {
		mode = domain.ModeDSTAR
	}

	rec := domain.CanonicalRecord{
		IdentityKey:      canonicalIdentity(callsign, name, get("band")),
		DisplayName:      name,
		SubLabel:         get("landmark"),
		Callsign:         callsign,
		Lat:              lat,
		Lon:              lon,
		GridLocator:      get("locator"),
		LocExact:         parseBool(get("loc_exact")),
		FrequencyMHz:     freqRx,
		FreqTxMHz:        freqTx,
		DuplexOffsetMHz:  offset,
		DuplexDirection:  domain.DuplexDirection(get("dup")),
		Mode:             mode,
		Band:             get("band"),
		CountryCode:      get("country_code"),
		RegionLabel:      get("country"),
		State:            get("state"),
		SourceDescriptor: get("source_id"),
	}

	if tone := get("ctcss_tx"); tone != "" {
		hz, err := parseFloat(tone)
		if err == nil && hz > 0 {
			rec.Tone = domain.ToneCTCSS
			rec.ToneHz = hz
		}
	}
	if rec.Tone == "" {
		rec.Tone = domain.ToneOff
	}

	if err := rec.Validate(); err != nil {
		return nil, &RowError{Line: line, Err: err}
	}
	return &rec, nil
}

// WriteCanonical writes records back out in the canonical column order,
// so a processed dataset can feed later runs as an input file.
func WriteCanonical(path string, records []domain.CanonicalRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		isDSTAR := r.Mode == domain.ModeDSTAR
		hasTone := r.Tone == domain.ToneCTCSS

		row := make([]string, len(CanonicalHeader))
		set := func(name, value string) {
			for i, col := range CanonicalHeader {
				if col == name {
					row[i] = value
					return
				}
			}
		}

		set("callsign", r.Callsign)
		set("name", r.DisplayName)
		set("band", r.Band)
		set("freq_tx", formatFloat(r.FreqTxMHz))
		set("freq_rx", formatFloat(r.FrequencyMHz))
		if hasTone {
			set("ctcss_tx", formatFloat(r.ToneHz))
			set("ctcss_rx", formatFloat(r.ToneHz))
		}
		set("c4fm", "False")
		set("dmr", "False")
		set("dstar", formatBool(isDSTAR))
		if isDSTAR {
			set("dstar_rpt1", r.Callsign)
			set("dstar_rpt2", domain.GatewayCallsign(r.Callsign))
		}
		set("fm", formatBool(r.Mode == domain.ModeFM || isDSTAR))
		set("landmark", r.SubLabel)
		set("state", r.State)
		set("country", r.RegionLabel)
		set("country_code", r.CountryCode)
		set("loc_exact", formatBool(r.LocExact))
		set("lat", formatFloat(r.Lat))
		set("long", formatFloat(r.Lon))
		set("locator", r.GridLocator)
		set("skip", "False")
		set("source_id", r.SourceDescriptor)
		set("offset", formatFloat(r.DuplexOffsetMHz))
		set("dup", string(r.DuplexDirection))
		set("ctcss", formatBool(hasTone))
		set("simplex", formatBool(r.DuplexDirection == domain.DuplexNone))
		set("split", "False")
		set("multimode", formatBool(isDSTAR))
		set("name_formatted", domain.FoldASCII(r.DisplayName))

		rows = append(rows, row)
	}
	return csvio.WriteFile(path, CanonicalHeader, rows)
}

// indexColumns maps column names to positions and checks the required
// columns are present.
func indexColumns(header []string, required ...string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return cols, nil
}

func canonicalIdentity(callsign, name, band string) string {
	if callsign == "" {
		return name
	}
	if band == "" {
		return callsign
	}
	// The same station often runs repeaters on several bands.
	return callsign + "/" + band
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "1":
		return true
	}
	return false
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
