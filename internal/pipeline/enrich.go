package pipeline

import (
	"github.com/hamgrid/channel-data-etl/internal/domain"
	"github.com/hamgrid/channel-data-etl/internal/observability"
)

// enrich applies the per-record normalization steps: display text is
// folded to ASCII, coordinates are filled from the grid locator when
// absent, and repeater frequencies are repaired against the band plan.
func enrich(r *domain.CanonicalRecord, metrics *observability.Metrics) {
	r.DisplayName = domain.FoldASCII(r.DisplayName)
	r.SubLabel = domain.FoldASCII(r.SubLabel)

	if !r.HasCoordinates() && r.GridLocator != "" {
		if lat, lon, ok := domain.GridToLatLon(r.GridLocator); ok {
			r.Lat, r.Lon = lat, lon
			r.LocExact = false
			metrics.GridGeocodeFills.Inc()
		}
	}

	// Broadcast FM is a recognized range of its own; the repair heuristic
	// only guesses at malformed amateur repeater data.
	if repeaterMode(r.Mode) && r.FrequencyMHz > 0 && !domain.BroadcastFM.Contains(r.FrequencyMHz) {
		repaired := domain.RepairFrequency(r.FrequencyMHz)
		if repaired != r.FrequencyMHz {
			r.FrequencyMHz = repaired
			metrics.FrequencyRepairs.Inc()
		}
	}
}

func repeaterMode(m domain.Mode) bool {
	return m == domain.ModeFM || m == domain.ModeDSTAR
}

// FilterSupportedBands drops repeater records whose frequency classifies
// into no supported band. Waypoint records carry no frequency and pass
// through untouched.
func FilterSupportedBands(records []domain.CanonicalRecord) (kept []domain.CanonicalRecord, dropped int) {
	kept = make([]domain.CanonicalRecord, 0, len(records))
	for _, r := range records {
		if repeaterMode(r.Mode) {
			if _, ok := domain.ClassifyFrequency(r.FrequencyMHz); !ok {
				dropped++
				continue
			}
		}
		kept = append(kept, r)
	}
	return kept, dropped
}
