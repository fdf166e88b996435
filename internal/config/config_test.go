package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, []string{"AT", "SK", "SG"}, cfg.Countries)
	assert.Empty(t, cfg.RepeaterFiles)
	assert.Empty(t, cfg.VendorFile)
	assert.Empty(t, cfg.SOTAFile)
	assert.True(t, cfg.POTAEnabled)
	assert.Equal(t, "https://api.pota.app", cfg.POTABaseURL)
	assert.Equal(t, 30*time.Second, cfg.POTATimeout)
	assert.Equal(t, 3, cfg.POTAAttempts)
	assert.Equal(t, time.Second, cfg.POTABackoff)
	assert.Equal(t, []string{"shift_jis", "utf-8", "cp932", "euc-jp", "iso-2022-jp"}, cfg.VendorEncodings)
	assert.Equal(t, 0, cfg.ChannelLimit)
	assert.InDelta(t, 48.2082, cfg.BroadcastRefLat, 1e-9)
	assert.InDelta(t, 16.3738, cfg.BroadcastRefLon, 1e-9)
	assert.InDelta(t, 150.0, cfg.BroadcastRadiusKm, 1e-9)
	assert.Equal(t, 50, cfg.BroadcastLimit)
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("log_level", "debug")
	v.Set("log_format", "json")
	v.Set("metrics_addr", ":9090")
	v.Set("output_dir", "/tmp/exports")
	v.Set("countries", []string{"AT"})
	v.Set("pota.timeout", "10s")
	v.Set("pota.attempts", 5)
	v.Set("pota.enabled", false)
	v.Set("inputs.repeaters", []string{"data/at.csv", "data/sk.csv"})
	v.Set("inputs.vendor", "data/rpt.csv")
	v.Set("channel_limit", 500)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, "/tmp/exports", cfg.OutputDir)
	assert.Equal(t, []string{"AT"}, cfg.Countries)
	assert.Equal(t, 10*time.Second, cfg.POTATimeout)
	assert.Equal(t, 5, cfg.POTAAttempts)
	assert.False(t, cfg.POTAEnabled)
	assert.Equal(t, []string{"data/at.csv", "data/sk.csv"}, cfg.RepeaterFiles)
	assert.Equal(t, "data/rpt.csv", cfg.VendorFile)
	assert.Equal(t, 500, cfg.ChannelLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"empty output dir", "output_dir", ""},
		{"no countries", "countries", []string{}},
		{"empty pota url", "pota.base_url", ""},
		{"zero pota timeout", "pota.timeout", "0s"},
		{"zero pota attempts", "pota.attempts", 0},
		{"zero pota backoff", "pota.backoff", "0s"},
		{"no encodings", "vendor.encodings", []string{}},
		{"negative channel limit", "channel_limit", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}
