package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// asciiFoldTable maps diacritics and stray Unicode punctuation to ASCII
// replacements understood by a radio's 7-bit display. Multi-character
// expansions (ae, oe, ue, ss) follow German convention; Slavic letters
// lose their háček/mäkčeň. No replacement value is itself a key, so the
// table order cannot affect the result.
var asciiFoldTable = map[rune]string{
	'ä': "ae", 'Ä': "Ae",
	'ö': "oe", 'Ö': "Oe",
	'ü': "ue", 'Ü': "Ue",
	'ß': "ss",
	'é': "e", 'É': "E", 'è': "e", 'È': "E", 'ê': "e", 'Ê': "E", 'ë': "e", 'Ë': "E",
	'á': "a", 'Á': "A", 'à': "a", 'À': "A", 'â': "a", 'Â': "A",
	'í': "i", 'Í': "I", 'ì': "i", 'Ì': "I", 'î': "i", 'Î': "I",
	'ó': "o", 'Ó': "O", 'ò': "o", 'Ò': "O",
	'ú': "u", 'Ú': "U", 'ù': "u", 'Ù': "U",
	'ñ': "n", 'Ñ': "N",
	'ç': "c", 'Ç': "C",
	'š': "s", 'Š': "S",
	'č': "c", 'Č': "C",
	'ž': "z", 'Ž': "Z",
	'ř': "r", 'Ř': "R",
	'ľ': "l", 'Ľ': "L",
	'ĺ': "l", 'Ĺ': "L",
	'ť': "t", 'Ť': "T",
	'ď': "d", 'Ď': "D",
	'ň': "n", 'Ň': "N",
	'ô': "o", 'Ô': "O",
	'ý': "y", 'Ý': "Y",
	'ě': "e", 'Ě': "E",
	'ů': "u", 'Ů': "U",
	'ą': "a", 'Ą': "A",
	'ę': "e", 'Ę': "E",
	'ł': "l", 'Ł': "L",
	'ś': "s", 'Ś': "S",
	'ź': "z", 'Ź': "Z",
	'ż': "z", 'Ż': "Z",
	'–': "-", '—': "-",
	'‘': "'", '’': "'",
	'“': `"`, '”': `"`,
	'…': "...",
	' ': " ",
}

// FoldASCII folds a display string down to plain ASCII. Mapped runes are
// substituted from asciiFoldTable; whatever remains is canonically
// decomposed (NFD) and any non-ASCII rune is dropped, so diacritic
// remnants and unmapped symbols vanish instead of being mangled.
// The function is idempotent: ASCII input passes through untouched.
func FoldASCII(s string) string {
	if s == "" {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
			continue
		}
		if repl, ok := asciiFoldTable[r]; ok {
			b.WriteString(repl)
			continue
		}
		for _, d := range norm.NFD.String(string(r)) {
			if d < 128 && !unicode.Is(unicode.Mn, d) {
				b.WriteRune(d)
			}
		}
	}
	return b.String()
}
