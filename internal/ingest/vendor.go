package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/hamgrid/channel-data-etl/internal/adapter/csvio"
	"github.com/hamgrid/channel-data-etl/internal/domain"
)

// VendorSource reads a vendor-distributed channel CSV of unknown text
// encoding, such as the repeater list Icom Japan ships with its radios.
// The file is decoded by trying a configured list of candidate encodings
// in order; the first clean decode wins.
type VendorSource struct {
	path        string
	encodings   []string
	country     string
	countryCode string
	logger      *slog.Logger
}

// NewVendorSource creates a source for the vendor CSV at path. country and
// countryCode label every extracted record; the vendor files carry no
// country column of their own.
func NewVendorSource(path string, encodings []string, country, countryCode string, logger *slog.Logger) *VendorSource {
	return &VendorSource{
		path:        path,
		encodings:   encodings,
		country:     country,
		countryCode: countryCode,
		logger:      logger,
	}
}

func (s *VendorSource) Name() string {
	return "vendor:" + filepath.Base(s.path)
}

// Extract decodes and parses the vendor file. Failure to decode with any
// candidate encoding means the encoding list is misconfigured for this
// file and is fatal for the source.
func (s *VendorSource) Extract(ctx context.Context) ([]domain.CanonicalRecord, Stats, error) {
	var stats Stats

	content, err := csvio.DecodeFile(s.path, s.encodings)
	if err != nil {
		return nil, stats, fmt.Errorf("decoding %s: %w", s.path, err)
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("%w: reading header of %s: %v", ErrSourceUnavailable, s.path, err)
	}
	cols, err := indexColumns(header, "Name", "Frequency")
	if err != nil {
		return nil, stats, fmt.Errorf("vendor csv %s: %w", s.path, err)
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
			s.logger.Warn("skipping vendor row", "source", s.Name(), "error", rowErr)
			continue
		}
		records = append(records, *rec)
	}

	return records, stats, nil
}

func (s *VendorSource) parseRow(cols map[string]int, row []string, line int) (*domain.CanonicalRecord, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	freq, err := parseFloat(get("Frequency"))
	if err != nil || freq == 0 {
		return nil, &RowError{Line: line, Err: fmt.Errorf("frequency %q", get("Frequency"))}
	}

	// The vendor file lists the repeater's transmit frequency; the receive
	// side is reconstructed from the duplex column and offset.
	offset, err := parseFloat(get("Offset"))
	if err != nil {
		offset = 0
	}
	var dir domain.DuplexDirection
	freqRx := freq
	switch get("Dup") {
	case "DUP+":
		dir = domain.DuplexPositive
		freqRx = freq - offset
	case "DUP-":
		dir = domain.DuplexNegative
		freqRx = freq + offset
	default:
		dir = domain.DuplexNone
		offset = 0
	}

	mode := domain.ModeFM
	if get("Mode") == "DV" {
		mode = domain.ModeDSTAR
	}

	rec := domain.CanonicalRecord{
		DisplayName:      get("Name"),
		SubLabel:         get("Sub Name"),
		Callsign:         domain.StripModuleSuffix(get("Repeater Call Sign")),
		LocExact:         get("Position") == "Exact",
		FrequencyMHz:     freqRx,
		FreqTxMHz:        freq,
		DuplexOffsetMHz:  abs(offset),
		DuplexDirection:  dir,
		Mode:             mode,
		Band:             vendorBand(freq),
		CountryCode:      s.countryCode,
		RegionLabel:      s.country,
		State:            get("Group Name"),
		SourceDescriptor: s.Name(),
	}
	if rec.DisplayName == "" && rec.Callsign == "" {
		return nil, &RowError{Line: line, Err: fmt.Errorf("missing name and callsign")}
	}
	rec.IdentityKey = canonicalIdentity(rec.Callsign, rec.DisplayName, rec.Band)

	lat, err := parseFloat(get("Latitude"))
	if err != nil {
		return nil, &RowError{Line: line, Err: fmt.Errorf("latitude: %v", err)}
	}
	lon, err := parseFloat(get("Longitude"))
	if err != nil {
		return nil, &RowError{Line: line, Err: fmt.Errorf("longitude: %v", err)}
	}
	rec.Lat, rec.Lon = lat, lon

	rec.Tone = domain.ToneOff
	if get("TONE") != "" && get("TONE") != "OFF" {
		rec.Tone = domain.ToneCTCSS
		rec.ToneHz = parseToneHz(get("Repeater Tone"))
	}

	if err := rec.Validate(); err != nil {
		return nil, &RowError{Line: line, Err: err}
	}
	return &rec, nil
}

// vendorBand labels the band the way the vendor files do, with the wider
// national allocations (144-148, 430-450) rather than the export band plan.
func vendorBand(freqMHz float64) string {
	switch {
	case freqMHz >= 28 && freqMHz <= 30:
		return "10m"
	case freqMHz >= 50 && freqMHz <= 54:
		return "6m"
	case freqMHz >= 144 && freqMHz <= 148:
		return "2m"
	case freqMHz >= 430 && freqMHz <= 450:
		return "70cm"
	case freqMHz >= 1240 && freqMHz <= 1300:
		return "23cm"
	}
	return "unknown"
}

// parseToneHz reads a tone value like "88.5Hz", defaulting to 88.5 when
// the field is malformed.
func parseToneHz(s string) float64 {
	hz, err := parseFloat(strings.TrimSuffix(s, "Hz"))
	if err != nil || hz == 0 {
		return 88.5
	}
	return hz
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
