package export

import (
	"strconv"

	"github.com/hamgrid/channel-data-etl/internal/domain"
)

// ChannelHeader is the memory-channel import schema. Column order is fixed
// by the device firmware.
var ChannelHeader = []string{
	"Group No", "Group Name", "Name", "Sub Name", "Repeater Call Sign",
	"Gateway Call Sign", "Frequency", "Dup", "Offset", "Mode", "TONE",
	"Repeater Tone", "RPT1USE", "Position", "Latitude", "Longitude", "UTC Offset",
}

// channelNameLimit is the display width of the Name and Sub Name fields.
const channelNameLimit = 16

// defaultToneValue fills the Repeater Tone column when no tone is set;
// the device rejects an empty value.
const defaultToneValue = "88.5Hz"

// ProjectRepeaterChannels maps repeater records into channel rows. The
// record's mode selects FM or DV semantics: DV rows carry a gateway
// callsign and always set RPT1USE, FM rows set RPT1USE only when a CTCSS
// tone gates the repeater input.
func ProjectRepeaterChannels(records []domain.CanonicalRecord, group GroupAssignment, utcOffset string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, repeaterRow(r, group, utcOffset))
	}
	return rows
}

func repeaterRow(r domain.CanonicalRecord, group GroupAssignment, utcOffset string) []string {
	dup, offset := dupSymbol(r)

	tone := "OFF"
	toneValue := defaultToneValue
	rpt1use := "NO"
	gateway := ""
	mode := "FM"

	switch r.Mode {
	case domain.ModeDSTAR:
		mode = "DV"
		rpt1use = "YES"
		gateway = domain.GatewayCallsign(r.Callsign)
	default:
		if r.Tone == domain.ToneCTCSS && r.ToneHz > 0 {
			tone = "TONE"
			toneValue = strconv.FormatFloat(r.ToneHz, 'f', 1, 64) + "Hz"
			rpt1use = "YES"
		}
	}

	return []string{
		strconv.Itoa(group.Number),
		group.Name,
		displayText(r.DisplayName),
		displayText(r.SubLabel),
		r.Callsign,
		gateway,
		formatMHz(r.FrequencyMHz),
		dup,
		formatMHz(offset),
		mode,
		tone,
		toneValue,
		rpt1use,
		position(r),
		formatCoord(r.Lat),
		formatCoord(r.Lon),
		utcOffset,
	}
}

// ProjectBroadcastChannels maps broadcast FM stations into channel rows.
// Stations have no callsign and nothing to key the repeater list on, so
// RPT1USE stays NO.
func ProjectBroadcastChannels(records []domain.CanonicalRecord, group GroupAssignment, utcOffset string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(group.Number),
			group.Name,
			displayText(r.DisplayName),
			displayText(r.SubLabel),
			"",
			"",
			formatMHz(r.FrequencyMHz),
			"",
			"0",
			"FM",
			"OFF",
			defaultToneValue,
			"NO",
			position(r),
			formatCoord(r.Lat),
			formatCoord(r.Lon),
			utcOffset,
		})
	}
	return rows
}

// ProjectPMRChannels maps license-free simplex channels into channel rows.
// PMR channels are not tied to a site, so position data is blanked.
func ProjectPMRChannels(records []domain.CanonicalRecord, group GroupAssignment, utcOffset string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(group.Number),
			group.Name,
			displayText(r.DisplayName),
			"PMR",
			"",
			"",
			formatMHz(r.FrequencyMHz),
			"",
			"0",
			"FM",
			"OFF",
			defaultToneValue,
			"NO",
			"Approximate",
			"0",
			"0",
			utcOffset,
		})
	}
	return rows
}

// dupSymbol maps the duplex direction to the device's Dup column. Simplex
// channels report a zero offset regardless of what the record carries.
func dupSymbol(r domain.CanonicalRecord) (string, float64) {
	switch r.DuplexDirection {
	case domain.DuplexPositive:
		return "DUP+", r.DuplexOffsetMHz
	case domain.DuplexNegative:
		return "DUP-", r.DuplexOffsetMHz
	}
	return "", 0
}

func position(r domain.CanonicalRecord) string {
	if r.LocExact {
		return "Exact"
	}
	return "Approximate"
}

// displayText folds a name to ASCII and hard-truncates it to the device's
// display width. Folding runs first so the cut never lands inside a
// multi-character substitution.
func displayText(s string) string {
	folded := domain.FoldASCII(s)
	if len(folded) > channelNameLimit {
		return folded[:channelNameLimit]
	}
	return folded
}

func formatMHz(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
