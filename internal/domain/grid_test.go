package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cellBounds returns the southwest corner and size of the cell a locator
// prefix resolves, computed independently of GridToLatLon.
func cellBounds(grid string) (lonSW, latSW, lonW, latH float64) {
	lonSW = float64(grid[0]-'A')*20 - 180
	latSW = float64(grid[1]-'A')*10 - 90
	lonW, latH = 20, 10
	if len(grid) >= 4 {
		lonSW += float64(grid[2]-'0') * 2
		latSW += float64(grid[3] - '0')
		lonW, latH = 2, 1
	}
	if len(grid) >= 6 {
		lonSW += float64(grid[4]-'A') * 5 / 60
		latSW += float64(grid[5]-'A') * 2.5 / 60
		lonW, latH = 5.0/60, 2.5/60
	}
	if len(grid) >= 8 {
		lonSW += float64(grid[6]-'0') * 0.5 / 60
		latSW += float64(grid[7]-'0') * 0.25 / 60
		lonW, latH = 0.5/60, 0.25/60
	}
	return lonSW, latSW, lonW, latH
}

func TestGridToLatLon_KnownLocators(t *testing.T) {
	tests := []struct {
		name string
		grid string
		lat  float64
		lon  float64
	}{
		// JN88 square center: lon 16+1, lat 48+0.5.
		{"vienna square", "JN88", 48.5, 17.0},
		// JN88ef subsquare: lon 16+4*5/60+2.5/60, lat 48+5*2.5/60+1.25/60.
		{"vienna subsquare", "JN88EF", 48.229167, 16.375},
		{"lowercase accepted", "jn88ef", 48.229167, 16.375},
		{"singapore", "OJ11", 1.5, 103.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, ok := GridToLatLon(tt.grid)
			require.True(t, ok)
			assert.InDelta(t, tt.lat, lat, 1e-6)
			assert.InDelta(t, tt.lon, lon, 1e-6)
		})
	}
}

func TestGridToLatLon_CenterInsideCell(t *testing.T) {
	for _, grid := range []string{"JN88", "JN88EF", "JN88EF12", "AA00", "RR99XX", "OJ11AA55"} {
		t.Run(grid, func(t *testing.T) {
			lat, lon, ok := GridToLatLon(grid)
			require.True(t, ok)

			lonSW, latSW, lonW, latH := cellBounds(grid)
			assert.GreaterOrEqual(t, lon, lonSW)
			assert.LessOrEqual(t, lon, lonSW+lonW)
			assert.GreaterOrEqual(t, lat, latSW)
			assert.LessOrEqual(t, lat, latSW+latH)
		})
	}
}

// Longer locators must resolve strictly smaller cells, each nested inside
// the shorter locator's cell.
func TestGridToLatLon_ResolutionIncreases(t *testing.T) {
	lat4, lon4, ok := GridToLatLon("JN88")
	require.True(t, ok)
	lat6, lon6, ok := GridToLatLon("JN88EF")
	require.True(t, ok)
	lat8, lon8, ok := GridToLatLon("JN88EF12")
	require.True(t, ok)

	lonSW4, latSW4, lonW4, latH4 := cellBounds("JN88")
	lonSW6, latSW6, lonW6, latH6 := cellBounds("JN88EF")
	lonSW8, latSW8, lonW8, latH8 := cellBounds("JN88EF12")

	assert.Less(t, lonW6, lonW4)
	assert.Less(t, latH6, latH4)
	assert.Less(t, lonW8, lonW6)
	assert.Less(t, latH8, latH6)

	within := func(lat, lon, lonSW, latSW, w, h float64) bool {
		return lon >= lonSW && lon <= lonSW+w && lat >= latSW && lat <= latSW+h
	}
	assert.True(t, within(lat6, lon6, lonSW4, latSW4, lonW4, latH4))
	assert.True(t, within(lat8, lon8, lonSW6, latSW6, lonW6, latH6))
	assert.True(t, within(lat4, lon4, lonSW4, latSW4, lonW4, latH4))
	assert.True(t, within(lat8, lon8, lonSW8, latSW8, lonW8, latH8))
}

func TestGridToLatLon_Invalid(t *testing.T) {
	tests := []struct {
		name string
		grid string
	}{
		{"empty", ""},
		{"too short", "JN8"},
		{"field out of alphabet", "ZZ88"},
		{"digit in field", "J888"},
		{"letter in square", "JNXX"},
		{"subsquare out of alphabet", "JN88YZ"},
		{"letter in extended square", "JN88EFXY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := GridToLatLon(tt.grid)
			assert.False(t, ok)
		})
	}
}
