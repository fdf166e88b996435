package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamgrid/channel-data-etl/internal/domain"
)

const summitsCSV = `callsign,name,band,state,country,country_code,lat,long,locator,source_id
,Schneeberg,,NÖ,Austria,AUT,47.767,15.808,JN77UT,OE/NO-001
,Chopok,,Banska Bystrica,Slovakia,SVK,48.94,19.59,,OM/BB-001
,Zugspitze,,Bayern,Germany,DEU,47.421,10.985,,DL/WS-001
,No Coordinates,,NÖ,Austria,AUT,0,0,,OE/NO-099
,,Unnamed,NÖ,Austria,AUT,47.0,15.0,,OE/NO-098
`

func TestSOTASource_Extract(t *testing.T) {
	path := writeTempCSV(t, summitsCSV)
	src := NewSOTASource(path, []string{"AUT", "SVK"}, discardLogger())

	records, stats, err := src.Extract(context.Background())
	require.NoError(t, err)

	// Germany filtered before counting skips; the two bad Austrian rows skip.
	assert.Equal(t, 5, stats.RowsRead)
	assert.Equal(t, 2, stats.RowsSkipped)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "OE/NO-001", first.IdentityKey)
	assert.Equal(t, "Schneeberg", first.DisplayName)
	assert.Equal(t, domain.ModeGPSWaypoint, first.Mode)
	assert.Equal(t, "AUT", first.CountryCode)
	assert.Equal(t, 47.767, first.Lat)
	assert.Equal(t, "JN77UT", first.GridLocator)

	assert.Equal(t, "OM/BB-001", records[1].IdentityKey)
}

func TestSOTASource_NoCountryFilter(t *testing.T) {
	path := writeTempCSV(t, summitsCSV)
	src := NewSOTASource(path, nil, discardLogger())

	records, _, err := src.Extract(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSOTASource_MissingFile(t *testing.T) {
	src := NewSOTASource("does-not-exist.csv", nil, discardLogger())
	_, _, err := src.Extract(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}
