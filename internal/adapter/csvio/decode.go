// Package csvio reads and writes the pipeline's flat CSV files, including
// vendor files of unknown foreign encoding.
package csvio

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// ErrUndecodable reports that no candidate encoding produced a clean
// decode. Callers treat this as a configuration error: the candidate
// list does not match the file.
var ErrUndecodable = fmt.Errorf("no candidate encoding decodes the file")

// encodingsByName maps the configurable candidate names to decoders.
// CP932 is Microsoft's Shift_JIS variant; x/text's ShiftJIS table covers
// both for the repeater lists we see in practice.
var encodingsByName = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"shift_jis":    japanese.ShiftJIS,
	"cp932":        japanese.ShiftJIS,
	"euc-jp":       japanese.EUCJP,
	"iso-2022-jp":  japanese.ISO2022JP,
	"latin-1":      charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
}

// DecodeFile reads a file and decodes it to UTF-8 by trying each named
// candidate encoding in order; the first clean decode wins. A decode is
// clean when it introduces no replacement runes. When every candidate
// fails, ErrUndecodable is returned with the attempted names.
func DecodeFile(path string, candidates []string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeBytes(raw, candidates)
}

// DecodeBytes decodes raw bytes with the same candidate strategy as
// DecodeFile.
func DecodeBytes(raw []byte, candidates []string) (string, error) {
	for _, name := range candidates {
		enc, ok := encodingsByName[strings.ToLower(name)]
		if !ok {
			return "", fmt.Errorf("unknown encoding candidate %q", name)
		}

		if enc == unicode.UTF8 {
			if utf8.Valid(raw) {
				return string(raw), nil
			}
			continue
		}

		decoded, err := enc.NewDecoder().Bytes(raw)
		if err != nil || !cleanDecode(decoded) {
			continue
		}
		return string(decoded), nil
	}
	return "", fmt.Errorf("%w (tried %s)", ErrUndecodable, strings.Join(candidates, ", "))
}

// cleanDecode rejects output containing U+FFFD, which the x/text
// decoders substitute for bytes outside the source repertoire.
func cleanDecode(b []byte) bool {
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError {
			return false
		}
		b = b[size:]
	}
	return true
}
