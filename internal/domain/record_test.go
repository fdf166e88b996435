package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalRecord_HasCoordinates(t *testing.T) {
	r := CanonicalRecord{Lat: 48.2, Lon: 16.3}
	assert.True(t, r.HasCoordinates())

	// (0,0) is the "absent" sentinel.
	r = CanonicalRecord{}
	assert.False(t, r.HasCoordinates())

	// A single zero component is still a position.
	r = CanonicalRecord{Lat: 0, Lon: 103.8}
	assert.True(t, r.HasCoordinates())
}

func TestCanonicalRecord_Validate(t *testing.T) {
	valid := CanonicalRecord{IdentityKey: "AT-0001", Lat: 48.2, Lon: 16.3}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		rec  CanonicalRecord
	}{
		{"missing identity key", CanonicalRecord{DisplayName: "Käfer Park"}},
		{"latitude out of range", CanonicalRecord{IdentityKey: "x", Lat: 91, Lon: 10}},
		{"longitude out of range", CanonicalRecord{IdentityKey: "x", Lat: 10, Lon: -181}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.rec.Validate())
		})
	}
}
