package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripModuleSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"JP1YIU A", "JP1YIU"},
		{"JP1YIU B", "JP1YIU"},
		{"OE1XDS", "OE1XDS"},
		{"OE1XDS G", "OE1XDS G"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripModuleSuffix(tt.in), tt.in)
	}
}

func TestGatewayCallsign(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"module letter replaced", "JP1YIU A", "JP1YIU G"},
		{"short callsign appended", "OE1XDS", "OE1XDS G"},
		{"eight chars overwrites last", "OE1XDSRT", "OE1XDSRG"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GatewayCallsign(tt.in))
		})
	}
}
