package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/hamgrid/channel-data-etl/internal/adapter/csvio"
	"github.com/hamgrid/channel-data-etl/internal/domain"
)

const japanVendorCSV = `Group No,Group Name,Name,Sub Name,Repeater Call Sign,Gateway Call Sign,Frequency,Dup,Offset,Mode,TONE,Repeater Tone,RPT1USE,Position,Latitude,Longitude,UTC Offset
1,北海道,旭川,旭川市,JP8YDU A,JP8YDU G,439.66,DUP-,5.0,DV,OFF,88.5Hz,YES,Approximate,43.7706,142.368,+9:00
1,北海道,札幌,札幌市,JR8WD B,JR8WD G,145.65,DUP-,0.6,FM,TONE,123.0Hz,YES,Exact,43.0621,141.3544,+9:00
1,北海道,broken,,,,not-a-freq,,,FM,OFF,88.5Hz,NO,Approximate,0,0,+9:00
`

func writeShiftJIS(t *testing.T, content string) string {
	t.Helper()
	enc, err := japanese.ShiftJIS.NewEncoder().String(content)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "rpt.csv")
	require.NoError(t, os.WriteFile(path, []byte(enc), 0o644))
	return path
}

func TestVendorSource_Extract(t *testing.T) {
	path := writeShiftJIS(t, japanVendorCSV)
	src := NewVendorSource(path, []string{"shift_jis", "utf-8", "cp932"}, "Japan", "JPN", discardLogger())

	records, stats, err := src.Extract(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.RowsRead)
	assert.Equal(t, 1, stats.RowsSkipped)
	require.Len(t, records, 2)

	dv := records[0]
	assert.Equal(t, "旭川", dv.DisplayName)
	assert.Equal(t, "JP8YDU", dv.Callsign, "module letter must be stripped")
	assert.Equal(t, domain.ModeDSTAR, dv.Mode)
	assert.Equal(t, 439.66, dv.FreqTxMHz)
	assert.InDelta(t, 444.66, dv.FrequencyMHz, 1e-9, "DUP- listens above the repeater output")
	assert.Equal(t, domain.DuplexNegative, dv.DuplexDirection)
	assert.Equal(t, 5.0, dv.DuplexOffsetMHz)
	assert.Equal(t, "70cm", dv.Band)
	assert.Equal(t, "JPN", dv.CountryCode)
	assert.Equal(t, domain.ToneOff, dv.Tone)
	assert.False(t, dv.LocExact)

	fm := records[1]
	assert.Equal(t, "JR8WD", fm.Callsign)
	assert.Equal(t, domain.ModeFM, fm.Mode)
	assert.Equal(t, domain.ToneCTCSS, fm.Tone)
	assert.Equal(t, 123.0, fm.ToneHz)
	assert.Equal(t, "2m", fm.Band)
	assert.True(t, fm.LocExact)
}

func TestVendorSource_UndecodableFile(t *testing.T) {
	path := writeShiftJIS(t, japanVendorCSV)
	src := NewVendorSource(path, []string{"utf-8"}, "Japan", "JPN", discardLogger())

	_, _, err := src.Extract(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, csvio.ErrUndecodable))
}

func TestVendorSource_MissingFile(t *testing.T) {
	src := NewVendorSource(filepath.Join(t.TempDir(), "nope.csv"), []string{"utf-8"}, "Japan", "JPN", discardLogger())
	_, _, err := src.Extract(context.Background())
	require.Error(t, err)
}
