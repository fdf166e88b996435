package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hamgrid/channel-data-etl/internal/domain"
)

// SOTASource reads summit waypoints from a canonical-like SOTA summits
// CSV. Summits without a name or without real coordinates are useless as
// waypoints and are skipped.
type SOTASource struct {
	path         string
	countryCodes []string
	logger       *slog.Logger
}

// NewSOTASource creates a source reading the summits file at path,
// keeping only summits in the given ISO country codes ("AUT", "SVK").
// Empty countryCodes keeps every summit.
func NewSOTASource(path string, countryCodes []string, logger *slog.Logger) *SOTASource {
	return &SOTASource{path: path, countryCodes: countryCodes, logger: logger}
}

func (s *SOTASource) Name() string {
	return "sota:" + filepath.Base(s.path)
}

func (s *SOTASource) Extract(ctx context.Context) ([]domain.CanonicalRecord, Stats, error) {
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
	cols, err := indexColumns(header, "name", "lat", "long", "country_code")
	if err != nil {
		return nil, stats, fmt.Errorf("sota csv %s: %w", s.path, err)
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

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		code := strings.ToUpper(get("country_code"))
		if len(s.countryCodes) > 0 && !containsFold(s.countryCodes, code) {
			continue
		}

		name := get("name")
		lat, latErr := parseFloat(get("lat"))
		lon, lonErr := parseFloat(get("long"))
		if name == "" || latErr != nil || lonErr != nil || (lat == 0 && lon == 0) {
			stats.RowsSkipped++
			s.logger.Warn("skipping summit", "source", s.Name(), "line", line, "name", name)
			continue
		}

		rec := domain.CanonicalRecord{
			IdentityKey:      summitIdentity(get("source_id"), name, code),
			DisplayName:      name,
			SubLabel:         get("state"),
			Lat:              lat,
			Lon:              lon,
			GridLocator:      get("locator"),
			LocExact:         true,
			Mode:             domain.ModeGPSWaypoint,
			CountryCode:      code,
			RegionLabel:      get("country"),
			State:            get("state"),
			SourceDescriptor: s.Name(),
		}
		if err := rec.Validate(); err != nil {
			stats.RowsSkipped++
			s.logger.Warn("skipping summit", "source", s.Name(), "line", line, "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records, stats, nil
}

// summitIdentity prefers the upstream summit reference when the file
// carries one, falling back to name plus country.
func summitIdentity(sourceID, name, code string) string {
	if sourceID != "" && sourceID != "sota-summits" {
		return sourceID
	}
	return code + ":" + strings.ToLower(strings.Join(strings.Fields(name), ""))
}
