// Package export projects canonical records into the rigid CSV schemas
// the radio's import facility expects: memory channels and GPS waypoints.
package export

// Dataset distinguishes the exports that share one schema but occupy
// different memory groups on the device.
type Dataset string

const (
	DatasetFM        Dataset = "fm"
	DatasetDSTAR     Dataset = "dstar"
	DatasetPOTA      Dataset = "pota"
	DatasetSOTA      Dataset = "sota"
	DatasetPMR       Dataset = "pmr"
	DatasetBroadcast Dataset = "broadcast"
)

// GroupAssignment names the device memory group a dataset+country pair
// lands in. Number and Name drive channel exports, Letter drives GPS
// waypoint exports.
type GroupAssignment struct {
	Number int
	Name   string
	Letter string
}

// GroupConfig holds the device group assignments and UTC offsets per
// country. One instance is built at startup and passed into every
// projector, so group numbering lives in exactly one place.
type GroupConfig struct {
	assignments map[Dataset]map[string]GroupAssignment
	utcOffsets  map[string]string
}

// DefaultGroupConfig returns the standard group layout: repeater groups
// 32-34 per country, PMR at 80, broadcast FM at 81, GPS waypoint letters
// U/V/W for parks and X/Y/Z for summits.
func DefaultGroupConfig() *GroupConfig {
	return &GroupConfig{
		assignments: map[Dataset]map[string]GroupAssignment{
			DatasetFM: {
				"AT": {Number: 32, Name: "AT-Repeaters"},
				"SK": {Number: 33, Name: "SK-Repeaters"},
				"SG": {Number: 34, Name: "SG-Repeaters"},
				"JP": {Number: 35, Name: "JP-Repeaters"},
			},
			DatasetDSTAR: {
				"AT": {Number: 32, Name: "AT-DSTAR"},
				"SK": {Number: 33, Name: "SK-DSTAR"},
				"SG": {Number: 34, Name: "SG-DSTAR"},
				"JP": {Number: 35, Name: "JP-DSTAR"},
			},
			DatasetPOTA: {
				"AT": {Letter: "U", Name: "POTA-AT"},
				"SK": {Letter: "V", Name: "POTA-SK"},
				"SG": {Letter: "W", Name: "POTA-SG"},
			},
			DatasetSOTA: {
				"AT": {Letter: "X", Name: "SOTA-AT"},
				"SK": {Letter: "Y", Name: "SOTA-SK"},
				"SG": {Letter: "Z", Name: "SOTA-SG"},
			},
			DatasetPMR: {
				"": {Number: 80, Name: "PMR-Channels"},
			},
			DatasetBroadcast: {
				"": {Number: 81, Name: "Vienna-FM-Radio"},
			},
		},
		utcOffsets: map[string]string{
			"SG": "+8:00",
			"JP": "+9:00",
		},
	}
}

// iso3Aliases folds the ISO-3166 alpha-3 codes some sources carry onto
// the alpha-2 keys the group tables use.
var iso3Aliases = map[string]string{
	"AUT": "AT",
	"SVK": "SK",
	"SGP": "SG",
	"JPN": "JP",
	"DEU": "DE",
}

func normalizeCountry(code string) string {
	if alias, ok := iso3Aliases[code]; ok {
		return alias
	}
	return code
}

// Assignment looks up the group for a dataset and country. Datasets that
// span countries (PMR, broadcast) register under the empty country key.
func (g *GroupConfig) Assignment(ds Dataset, country string) (GroupAssignment, bool) {
	byCountry, ok := g.assignments[ds]
	if !ok {
		return GroupAssignment{}, false
	}
	if a, ok := byCountry[normalizeCountry(country)]; ok {
		return a, true
	}
	a, ok := byCountry[""]
	return a, ok
}

// UTCOffset returns the device UTC offset for a country. Europe is the
// default.
func (g *GroupConfig) UTCOffset(country string) string {
	if off, ok := g.utcOffsets[normalizeCountry(country)]; ok {
		return off
	}
	return "+1:00"
}
