package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hamgrid/channel-data-etl/internal/adapter/pota"
	"github.com/hamgrid/channel-data-etl/internal/domain"
)

// ParkLister is the slice of the POTA API client this source needs.
type ParkLister interface {
	Locations(ctx context.Context, prefixes []string) ([]pota.Location, error)
	ParksForLocation(ctx context.Context, descriptor string) ([]pota.Park, error)
}

// POTASource extracts park waypoints from the POTA API, one location
// descriptor at a time. A location whose park list cannot be fetched is
// skipped; the remaining locations still contribute.
type POTASource struct {
	client   ParkLister
	prefixes []string
	logger   *slog.Logger
}

// NewPOTASource creates a source fetching parks for the countries named
// by the given descriptor prefixes ("AT", "SK", "SG").
func NewPOTASource(client ParkLister, prefixes []string, logger *slog.Logger) *POTASource {
	return &POTASource{client: client, prefixes: prefixes, logger: logger}
}

func (s *POTASource) Name() string { return "pota-api" }

func (s *POTASource) Extract(ctx context.Context) ([]domain.CanonicalRecord, Stats, error) {
	var stats Stats

	locations, err := s.client.Locations(ctx, s.prefixes)
	if err != nil {
		return nil, stats, fmt.Errorf("%w: fetching POTA locations: %v", ErrSourceUnavailable, err)
	}

	var records []domain.CanonicalRecord
	for _, loc := range locations {
		parks, err := s.client.ParksForLocation(ctx, loc.Descriptor)
		if err != nil {
			if ctx.Err() != nil {
				return nil, stats, ctx.Err()
			}
			s.logger.Warn("skipping POTA location", "descriptor", loc.Descriptor, "error", err)
			continue
		}
		s.logger.Debug("fetched POTA location",
			"descriptor", loc.Descriptor, "name", loc.Name, "parks", len(parks))

		for _, park := range parks {
			stats.RowsRead++
			rec, rowErr := parkRecord(park, loc)
			if rowErr != nil {
				stats.RowsSkipped++
				s.logger.Warn("skipping POTA park", "descriptor", loc.Descriptor, "error", rowErr)
				continue
			}
			records = append(records, *rec)
		}
	}

	return records, stats, nil
}

func parkRecord(park pota.Park, loc pota.Location) (*domain.CanonicalRecord, error) {
	if park.Reference == "" || park.Name == "" {
		return nil, fmt.Errorf("park %q: missing reference or name", park.Reference)
	}

	rec := domain.CanonicalRecord{
		IdentityKey:      park.Reference,
		DisplayName:      ParkDisplayName(park.Reference, park.Name),
		SubLabel:         loc.Name,
		Lat:              park.Latitude,
		Lon:              park.Longitude,
		GridLocator:      park.Grid,
		LocExact:         park.Latitude != 0 || park.Longitude != 0,
		Mode:             domain.ModeGPSWaypoint,
		CountryCode:      countryPrefix(loc.Descriptor),
		RegionLabel:      loc.Name,
		SourceDescriptor: "pota-api:" + loc.Descriptor,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ParkDisplayName builds the waypoint label shown on the device: the park
// number with leading zeros stripped, then the park name. "AT-0001" with
// name "Kaefer Park" becomes "1 Kaefer Park".
func ParkDisplayName(reference, name string) string {
	number := reference
	if i := strings.LastIndex(reference, "-"); i >= 0 {
		number = reference[i+1:]
	}
	number = strings.TrimLeft(number, "0")
	if number == "" {
		number = "0"
	}
	return number + " " + name
}

func countryPrefix(descriptor string) string {
	if i := strings.Index(descriptor, "-"); i > 0 {
		return descriptor[:i]
	}
	return descriptor
}
