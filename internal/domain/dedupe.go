package domain

import (
	"math"
	"sort"
	"strings"
)

// IdentityFunc derives the collision key for deduplication.
type IdentityFunc func(r CanonicalRecord) string

// ScoreFunc assigns a ranking priority; higher scores sort first.
type ScoreFunc func(r CanonicalRecord) float64

// NameIdentity is the default identity: the display name, lowercased and
// stripped of whitespace, so "Radio Wien" and "radio wien " collide.
func NameIdentity(r CanonicalRecord) string {
	return strings.ToLower(strings.Join(strings.Fields(r.DisplayName), ""))
}

// KeyIdentity collides records on their canonical identity key.
func KeyIdentity(r CanonicalRecord) string {
	return r.IdentityKey
}

// DedupeAndRank collapses colliding records and orders the survivors by
// descending score. The first-seen record wins a collision regardless of
// score: ingestion order is the authority on identity, ranking only
// orders the survivors. The sort is stable, so equal scores keep
// ingestion order. A positive limit truncates the result. The input
// slice and its records are never mutated.
func DedupeAndRank(records []CanonicalRecord, identity IdentityFunc, score ScoreFunc, limit int) []CanonicalRecord {
	if identity == nil {
		identity = NameIdentity
	}

	seen := make(map[string]struct{}, len(records))
	out := make([]CanonicalRecord, 0, len(records))
	for _, r := range records {
		key := identity(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}

	if score != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return score(out[i]) > score(out[j])
		})
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// earthRadiusKm is the mean Earth radius used by Haversine.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// WGS84 points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// ProximityBonus converts a distance to a ranking bonus: 50 points at the
// reference location, fading linearly to zero at 50 km.
func ProximityBonus(distanceKm float64) float64 {
	return math.Max(0, 50-distanceKm)
}
