// Package domain models amateur-radio location data and the pure
// transformations the export pipeline applies to it.
//
// # Data Sources
//
// Canonical records describe FM and D-STAR repeaters, POTA (Parks on the
// Air) park references, SOTA (Summits on the Air) summits, and broadcast
// FM stations. They arrive from three kinds of sources: vendor channel
// CSVs in unknown foreign encodings (the Japanese Icom repeater list is
// Shift_JIS), the public POTA HTTP API paginated by location descriptor,
// and hand-maintained CSVs already close to the canonical column set.
//
// # Display Text
//
// The target radios render 7-bit ASCII on a 16-character line. [FoldASCII]
// maps Germanic and Slavic diacritics to conventional ASCII expansions
// (ä→ae, ß→ss, č→c) and straightens curly punctuation; whatever remains
// non-ASCII after canonical decomposition is dropped. Projectors truncate
// only after folding, so a substitution can never be cut in half.
//
// # Maidenhead Locators
//
// Many park references carry no coordinates, only a Maidenhead grid
// locator ("JN88ef"). [GridToLatLon] resolves 4-, 6- and 8-character
// locators to the center of the smallest resolved cell. Conversion is
// one-way; the pipeline never produces locators.
//
// # Band Plan
//
// The supported device memory banks accept 2m (144-146), 70cm (430-440),
// 23cm (1240-1300) and 13cm (2300-2450 MHz). Some vendor exports carry
// frequencies shifted down into 6m or 10m by an earlier conversion bug;
// [RepairFrequency] undoes the known shifts and falls back to 145.0 MHz
// for anything unrecognizable below 2 GHz. The fallback is lossy and the
// repaired value is provisional; the repair count metric tracks how often
// it fires.
//
// # Deduplication
//
// Identity keys must be unique within one canonical dataset. When sources
// overlap, [DedupeAndRank] keeps the first-seen record (ingestion order
// is the authority) and orders survivors by a caller-supplied score, e.g.
// broadcast-station priority plus [ProximityBonus] of the Haversine
// distance to a reference point.
package domain
