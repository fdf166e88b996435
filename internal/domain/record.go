package domain

import "fmt"

// Mode identifies what kind of entity a canonical record describes and
// which export projector may consume it.
type Mode string

const (
	ModeFM          Mode = "FM"
	ModeDSTAR       Mode = "DSTAR"
	ModeGPSWaypoint Mode = "GPS_WAYPOINT"
)

// DuplexDirection is the sign of a repeater's transmit offset.
type DuplexDirection string

const (
	DuplexNone     DuplexDirection = ""
	DuplexPositive DuplexDirection = "+"
	DuplexNegative DuplexDirection = "-"
)

// ToneMode is the CTCSS squelch setting of a channel.
type ToneMode string

const (
	ToneOff   ToneMode = "OFF"
	ToneCTCSS ToneMode = "TONE"
)

// CanonicalRecord is the unified internal representation of one location
// entity: a repeater, a park, a summit, or a broadcast station. Ingestion
// adapters produce it, enrichment mutates it in place, and projectors
// consume it read-only.
type CanonicalRecord struct {
	// IdentityKey is globally unique within one canonical dataset,
	// e.g. a POTA park reference ("AT-0001") or a repeater callsign.
	IdentityKey string

	DisplayName string
	SubLabel    string // location/landmark shown as the secondary display line
	Callsign    string

	// Lat/Lon are WGS84 degrees. (0,0) is the sentinel for "absent":
	// none of the supported deployment areas sit on the null island.
	Lat float64
	Lon float64

	// GridLocator is a 2-8 character Maidenhead locator, used as a
	// geocoding fallback when coordinates are absent.
	GridLocator string
	LocExact    bool

	// FrequencyMHz is the nominal receive frequency. Zero means absent
	// (GPS waypoints carry no frequency).
	FrequencyMHz    float64
	FreqTxMHz       float64
	DuplexOffsetMHz float64
	DuplexDirection DuplexDirection

	Tone   ToneMode
	ToneHz float64

	Mode Mode
	Band string

	CountryCode string
	RegionLabel string
	State       string

	// SourceDescriptor records provenance. Never emitted to the device.
	SourceDescriptor string
}

// HasCoordinates reports whether the record carries a real position.
// The (0,0) pair is the "absent" sentinel, never a real deployment site.
func (r *CanonicalRecord) HasCoordinates() bool {
	return r.Lat != 0 || r.Lon != 0
}

// Validate checks the record invariants that every adapter must establish.
func (r *CanonicalRecord) Validate() error {
	if r.IdentityKey == "" {
		return fmt.Errorf("record %q: missing identity key", r.DisplayName)
	}
	if r.HasCoordinates() {
		if r.Lat < -90 || r.Lat > 90 {
			return fmt.Errorf("record %s: latitude %v out of range", r.IdentityKey, r.Lat)
		}
		if r.Lon < -180 || r.Lon > 180 {
			return fmt.Errorf("record %s: longitude %v out of range", r.IdentityKey, r.Lon)
		}
	}
	return nil
}
