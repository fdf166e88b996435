package domain

import "math"

// Maidenhead cell sizes in degrees, per resolution step.
const (
	fieldLonDeg    = 20.0
	fieldLatDeg    = 10.0
	squareLonDeg   = 2.0
	squareLatDeg   = 1.0
	subsqLonDeg    = 5.0 / 60.0  // 5 minutes
	subsqLatDeg    = 2.5 / 60.0  // 2.5 minutes
	extendedLonDeg = 0.5 / 60.0  // 30 seconds
	extendedLatDeg = 0.25 / 60.0 // 15 seconds
)

// GridToLatLon converts a Maidenhead grid locator to the WGS84 center of
// the smallest cell the locator resolves. Supported lengths are 4, 6 and
// 8 characters (field+square, +subsquare, +extended square); a trailing
// odd character is ignored. Locators shorter than 4 characters or with a
// character outside the valid alphabet for its position yield ok=false.
//
// This is a one-way conversion; the pipeline never needs point-to-grid.
func GridToLatLon(grid string) (lat, lon float64, ok bool) {
	if len(grid) < 4 {
		return 0, 0, false
	}
	g := []byte(grid)
	for i := range g {
		if g[i] >= 'a' && g[i] <= 'z' {
			g[i] -= 'a' - 'A'
		}
	}

	// Field: letters A-R spanning the whole globe.
	if !inRange(g[0], 'A', 'R') || !inRange(g[1], 'A', 'R') {
		return 0, 0, false
	}
	lon = float64(g[0]-'A')*fieldLonDeg - 180
	lat = float64(g[1]-'A')*fieldLatDeg - 90

	// Square: digits.
	if !inRange(g[2], '0', '9') || !inRange(g[3], '0', '9') {
		return 0, 0, false
	}
	lon += float64(g[2]-'0') * squareLonDeg
	lat += float64(g[3]-'0') * squareLatDeg
	cellLon, cellLat := squareLonDeg, squareLatDeg

	// Subsquare: letters A-X.
	if len(g) >= 6 {
		if !inRange(g[4], 'A', 'X') || !inRange(g[5], 'A', 'X') {
			return 0, 0, false
		}
		lon += float64(g[4]-'A') * subsqLonDeg
		lat += float64(g[5]-'A') * subsqLatDeg
		cellLon, cellLat = subsqLonDeg, subsqLatDeg
	}

	// Extended square: digits.
	if len(g) >= 8 {
		if !inRange(g[6], '0', '9') || !inRange(g[7], '0', '9') {
			return 0, 0, false
		}
		lon += float64(g[6]-'0') * extendedLonDeg
		lat += float64(g[7]-'0') * extendedLatDeg
		cellLon, cellLat = extendedLonDeg, extendedLatDeg
	}

	// Shift from the cell's southwest corner to its center.
	lon += cellLon / 2
	lat += cellLat / 2

	return round6(lat), round6(lon), true
}

func inRange(c, lo, hi byte) bool {
	return c >= lo && c <= hi
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
