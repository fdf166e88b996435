package domain

// Band is an inclusive amateur-radio frequency range in MHz.
type Band struct {
	Name string
	Min  float64
	Max  float64
}

// Contains reports whether f falls inside the band, edges included.
func (b Band) Contains(f float64) bool {
	return f >= b.Min && f <= b.Max
}

// SupportedBands are the VHF/UHF/SHF allocations the target radios cover.
var SupportedBands = []Band{
	{Name: "2m", Min: 144, Max: 146},
	{Name: "70cm", Min: 430, Max: 440},
	{Name: "23cm", Min: 1240, Max: 1300},
	{Name: "13cm", Min: 2300, Max: 2450},
}

// BroadcastFM is the FM broadcast band. It is recognized only by the
// broadcast-station projector, never as an amateur allocation.
var BroadcastFM = Band{Name: "FM broadcast", Min: 87.5, Max: 108}

// ClassifyFrequency resolves a frequency to exactly one supported amateur
// band. ok is false for unclassified frequencies.
func ClassifyFrequency(freqMHz float64) (Band, bool) {
	for _, b := range SupportedBands {
		if b.Contains(freqMHz) {
			return b, true
		}
	}
	return Band{}, false
}

// RepairFrequency corrects frequencies that vendor imports are known to
// mangle. The mapping is a best-effort guess for malformed data, not a
// verified transformation:
//
//   - already inside a supported band, or above 2 GHz: unchanged
//   - 50-54 (6m): shifted +94 MHz into 2m
//   - 28-29.7 (10m): shifted +116 MHz into 2m
//   - any other value below 144 and above 50: treated as a 6m shift
//   - 400-500 outside the 70cm edges: kept as-is
//   - anything else that still matches no band: 145.0 MHz
//
// The 145.0 fallback is a documented lossy default; callers needing
// strict correctness must treat repaired values as provisional.
// Repairing an already-valid frequency is a no-op, so the function is
// idempotent.
func RepairFrequency(freqMHz float64) float64 {
	if _, ok := ClassifyFrequency(freqMHz); ok {
		return freqMHz
	}
	if freqMHz > 2000 {
		return freqMHz
	}

	f := freqMHz
	switch {
	case f >= 50 && f <= 54:
		f += 94
	case f >= 28 && f <= 29.7:
		f += 116
	case f < 144 && f > 50:
		f += 94
	}

	if _, ok := ClassifyFrequency(f); ok {
		return f
	}
	if f >= 400 && f <= 500 {
		// Close enough to 70cm that a guess would lose more than it fixes.
		return f
	}
	return 145.0
}
