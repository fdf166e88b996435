package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all pipeline settings, populated from the config file,
// environment variables (CHANNEL_ETL_*), and flags via Viper.
type Config struct {
	LogLevel    string
	LogFormat   string
	MetricsAddr string // empty disables the metrics endpoint
	OutputDir   string

	// Countries are ISO-3166 alpha-2 prefixes selecting which datasets
	// to ingest and export (e.g. AT, SK, SG).
	Countries []string

	// Input datasets. Sources with an empty path are not built.
	RepeaterFiles []string // canonical repeater CSVs
	VendorFile    string   // foreign-encoded vendor channel CSV
	SOTAFile      string   // SOTA summits CSV
	BroadcastFile string   // broadcast FM stations canonical CSV
	PMRFile       string   // PMR channels canonical CSV

	// POTA API settings.
	POTAEnabled  bool
	POTABaseURL  string
	POTATimeout  time.Duration
	POTAAttempts int
	POTABackoff  time.Duration

	// VendorEncodings is the ordered candidate list for decoding vendor
	// CSVs; the first successful decode wins.
	VendorEncodings []string

	// ChannelLimit bounds channel exports when the target device cannot
	// hold the full list. Zero means unlimited.
	ChannelLimit int

	// Broadcast-station ranking settings.
	BroadcastRefLat   float64
	BroadcastRefLon   float64
	BroadcastRadiusKm float64
	BroadcastLimit    int
}

// SetDefaults registers every config default on the given Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("output_dir", "out")
	v.SetDefault("countries", []string{"AT", "SK", "SG"})

	v.SetDefault("inputs.repeaters", []string{})
	v.SetDefault("inputs.vendor", "")
	v.SetDefault("inputs.sota", "")
	v.SetDefault("inputs.broadcast", "")
	v.SetDefault("inputs.pmr", "")

	v.SetDefault("pota.enabled", true)
	v.SetDefault("pota.base_url", "https://api.pota.app")
	v.SetDefault("pota.timeout", "30s")
	v.SetDefault("pota.attempts", 3)
	v.SetDefault("pota.backoff", "1s")

	v.SetDefault("vendor.encodings", []string{"shift_jis", "utf-8", "cp932", "euc-jp", "iso-2022-jp"})

	v.SetDefault("channel_limit", 0)

	// Vienna city center; the broadcast export ranks stations around it.
	v.SetDefault("broadcast.ref_lat", 48.2082)
	v.SetDefault("broadcast.ref_lon", 16.3738)
	v.SetDefault("broadcast.radius_km", 150.0)
	v.SetDefault("broadcast.limit", 50)
}

// Load reads configuration out of Viper, applying defaults and validating.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		LogLevel:          v.GetString("log_level"),
		LogFormat:         v.GetString("log_format"),
		MetricsAddr:       v.GetString("metrics_addr"),
		OutputDir:         v.GetString("output_dir"),
		Countries:         v.GetStringSlice("countries"),
		RepeaterFiles:     v.GetStringSlice("inputs.repeaters"),
		VendorFile:        v.GetString("inputs.vendor"),
		SOTAFile:          v.GetString("inputs.sota"),
		BroadcastFile:     v.GetString("inputs.broadcast"),
		PMRFile:           v.GetString("inputs.pmr"),
		POTAEnabled:       v.GetBool("pota.enabled"),
		POTABaseURL:       v.GetString("pota.base_url"),
		POTATimeout:       v.GetDuration("pota.timeout"),
		POTAAttempts:      v.GetInt("pota.attempts"),
		POTABackoff:       v.GetDuration("pota.backoff"),
		VendorEncodings:   v.GetStringSlice("vendor.encodings"),
		ChannelLimit:      v.GetInt("channel_limit"),
		BroadcastRefLat:   v.GetFloat64("broadcast.ref_lat"),
		BroadcastRefLon:   v.GetFloat64("broadcast.ref_lon"),
		BroadcastRadiusKm: v.GetFloat64("broadcast.radius_km"),
		BroadcastLimit:    v.GetInt("broadcast.limit"),
	}

	if cfg.OutputDir == "" {
		return nil, errors.New("output_dir is required")
	}
	if len(cfg.Countries) == 0 {
		return nil, errors.New("at least one country is required")
	}
	if cfg.POTABaseURL == "" {
		return nil, errors.New("pota.base_url is required")
	}
	if cfg.POTATimeout <= 0 {
		return nil, fmt.Errorf("invalid pota.timeout %v", cfg.POTATimeout)
	}
	if cfg.POTAAttempts < 1 {
		return nil, fmt.Errorf("pota.attempts must be at least 1, got %d", cfg.POTAAttempts)
	}
	if cfg.POTABackoff <= 0 {
		return nil, fmt.Errorf("invalid pota.backoff %v", cfg.POTABackoff)
	}
	if len(cfg.VendorEncodings) == 0 {
		return nil, errors.New("vendor.encodings must list at least one candidate")
	}
	if cfg.ChannelLimit < 0 {
		return nil, fmt.Errorf("channel_limit must not be negative, got %d", cfg.ChannelLimit)
	}

	return cfg, nil
}
