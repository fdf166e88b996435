package export

import (
	"github.com/hamgrid/channel-data-etl/internal/domain"
)

// BroadcastRanking selects the broadcast FM stations worth a memory slot
// around a reference point. Stations are filtered to the broadcast band
// and radius, deduplicated by name, then ranked by network priority plus
// a proximity bonus.
type BroadcastRanking struct {
	RefLat   float64
	RefLon   float64
	RadiusKm float64
	Limit    int

	// Priorities scores well-known stations by name; unknown stations
	// rank purely on proximity.
	Priorities map[string]float64
}

// DefaultBroadcastPriorities scores the major Austrian networks for the
// Vienna-area export.
func DefaultBroadcastPriorities() map[string]float64 {
	return map[string]float64{
		"Ö1":               100,
		"Ö3":               95,
		"FM4":              90,
		"Kronehit":         85,
		"ENERGY":           80,
		"oe24":             75,
		"Hitradio Ö3":      70,
		"Radio Wien":       65,
		"ROCK ANTENNE":     60,
		"Life Radio":       55,
		"Stadtradio Krems": 95,
	}
}

// Select returns the ranked station list. Records without coordinates or
// outside the broadcast band never qualify.
func (b BroadcastRanking) Select(records []domain.CanonicalRecord) []domain.CanonicalRecord {
	candidates := make([]domain.CanonicalRecord, 0, len(records))
	for _, r := range records {
		if !r.HasCoordinates() || !domain.BroadcastFM.Contains(r.FrequencyMHz) {
			continue
		}
		if domain.Haversine(b.RefLat, b.RefLon, r.Lat, r.Lon) > b.RadiusKm {
			continue
		}
		candidates = append(candidates, r)
	}

	// Enrichment folds station names to ASCII before ranking runs, so
	// the lookup folds both sides: "Ö3" in the table must match a record
	// carrying "Oe3".
	priorities := make(map[string]float64, len(b.Priorities))
	for name, p := range b.Priorities {
		priorities[domain.FoldASCII(name)] = p
	}

	score := func(r domain.CanonicalRecord) float64 {
		dist := domain.Haversine(b.RefLat, b.RefLon, r.Lat, r.Lon)
		return priorities[domain.FoldASCII(r.DisplayName)] + domain.ProximityBonus(dist)
	}
	return domain.DedupeAndRank(candidates, domain.NameIdentity, score, b.Limit)
}
