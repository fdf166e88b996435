package domain

import "strings"

// moduleSuffixes are the single-letter module designators D-STAR stacks
// append to a repeater callsign ("OE1XDS B" is module B of OE1XDS).
var moduleSuffixes = []string{" A", " B", " C", " D"}

// StripModuleSuffix removes a trailing module letter from a repeater
// callsign, leaving the bare station callsign.
func StripModuleSuffix(callsign string) string {
	s := strings.TrimSpace(callsign)
	for _, suf := range moduleSuffixes {
		s = strings.TrimSuffix(s, suf)
	}
	return strings.TrimSpace(s)
}

// GatewayCallsign derives the D-STAR gateway callsign for a repeater:
// the module letter is replaced by "G", or " G" is appended when the
// callsign carries no module letter. Callsigns longer than 7 characters
// have their last character overwritten to keep the 8-column field.
func GatewayCallsign(callsign string) string {
	s := strings.TrimSpace(callsign)
	if s == "" {
		return ""
	}
	for _, suf := range moduleSuffixes {
		if strings.HasSuffix(s, suf) {
			return strings.TrimSuffix(s, suf) + " G"
		}
	}
	if len(s) <= 7 {
		return s + " G"
	}
	return s[:len(s)-1] + "G"
}
