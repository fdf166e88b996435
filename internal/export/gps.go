package export

import (
	"github.com/hamgrid/channel-data-etl/internal/domain"
)

// GPSHeader is the GPS-waypoint import schema, shared by the park and
// summit exports.
var GPSHeader = []string{
	"Group", "Group Name", "Name", "Date", "Time",
	"Latitude", "Longitude", "Altitude", "Alarm",
}

// gpsNameLimit is the longest waypoint name the device displays; longer
// names are cut and marked with an ellipsis.
const gpsNameLimit = 50

// ProjectGPSWaypoints maps waypoint records into GPS rows. Records
// without real coordinates are silently dropped: a waypoint without a
// position is useless on the device. The Date column carries the export
// date so imported lists are recognizable on the radio.
func ProjectGPSWaypoints(records []domain.CanonicalRecord, group GroupAssignment) [][]string {
	date := domain.Now().Format("01/02/2006")

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		if !r.HasCoordinates() {
			continue
		}
		rows = append(rows, []string{
			group.Letter,
			group.Name,
			gpsDisplayText(r.DisplayName),
			date,
			"00:00:00",
			formatCoord(r.Lat),
			formatCoord(r.Lon),
			"",
			"OFF",
		})
	}
	return rows
}

func gpsDisplayText(s string) string {
	folded := domain.FoldASCII(s)
	if len(folded) > gpsNameLimit {
		return folded[:gpsNameLimit-3] + "..."
	}
	return folded
}
