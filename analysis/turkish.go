package analysis

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// foldTable maps Turkish-specific lowercase runes to their ASCII
// alternates. Uppercase input is lowercased with Turkish casing rules
// before folding, so only lowercase entries are needed.
var foldTable = map[rune]rune{
	'ç': 'c',
	'ğ': 'g',
	'ı': 'i',
	'ö': 'o',
	'ş': 's',
	'ü': 'u',
}

// NormalizedText holds both retained forms of an input text.
type NormalizedText struct {
	// Canonical is the diacritic-preserving form: NFKC normalized,
	// Turkish-lowercased, punctuation replaced by spaces, whitespace
	// collapsed.
	Canonical string

	// Folded is Canonical with Turkish diacritics stripped.
	Folded string
}

// Empty reports whether normalization produced no usable text.
func (n NormalizedText) Empty() bool {
	return n.Canonical == ""
}

// Fold strips Turkish diacritics from an already lowercased string.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if folded, ok := foldTable[r]; ok {
			b.WriteRune(folded)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// lowerTurkish lowercases with Turkish casing rules, so that I maps to ı
// and İ maps to i.
func lowerTurkish(s string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, s)
}

// cleanText applies NFKC normalization, drops control characters and
// collapses runs of whitespace. Punctuation is kept; citation patterns
// depend on it.
func cleanText(s string) string {
	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	space := true // swallow leading whitespace
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !space {
				b.WriteRune(' ')
				space = true
			}
		case unicode.IsControl(r):
			// drop
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// canonicalize lowercases a cleaned string with Turkish rules and
// replaces punctuation with spaces.
func canonicalize(s string) string {
	s = lowerTurkish(s)

	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteRune(' ')
			space = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Token is one normalized lexical unit with its byte offsets into the
// string it was produced from. Offsets are used for highlighting.
type Token struct {
	Text  string // canonical form of the token
	Start int    // byte offset of the token in the source string
	End   int    // exclusive
}

// Folded returns the ASCII-folded alternate of the token text.
func (t Token) Folded() string {
	return Fold(t.Text)
}

// Tokenize splits text into tokens of letters and digits, carrying byte
// offsets into the input. Token text is Turkish-lowercased; offsets refer
// to the original input so callers can highlight raw text.
func Tokenize(text string) []Token {
	var tokens []Token
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token{
				Text:  lowerTurkish(text[start:i]),
				Start: start,
				End:   i,
			})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{
			Text:  lowerTurkish(text[start:]),
			Start: start,
			End:   len(text),
		})
	}
	return tokens
}
