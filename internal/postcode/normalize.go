package postcode

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// KeyLength is the length of a zero-padded Japanese postal code.
const KeyLength = 7

var separators = strings.NewReplacer("-", "", " ", "", "〒", "", "ー", "", "−", "", "‐", "")

// Normalize turns a postal code cell into its 7-digit key. Spreadsheet artefacts are
// tolerated: a decimal suffix ("1000001.0"), full-width digits, hyphens and a leading
// postal mark. Any non-empty value of at most seven characters is left-padded with zeros
// to exactly seven, digits or not. ok is false when the remainder is empty, not all
// digits or longer than seven characters; the cleaned value is still returned so callers
// can group on it.
func Normalize(raw string) (key string, ok bool) {
	s := width.Narrow.String(strings.TrimSpace(raw))
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	s = separators.Replace(s)
	n := utf8.RuneCountInString(s)
	if s == "" || n > KeyLength {
		return s, false
	}
	return strings.Repeat("0", KeyLength-n) + s, isDigits(s)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

const (
	townPlaceholder = "以下に掲載がない場合"
	townBlockSuffix = "の次に番地がくる場合"
)

// CleanTown strips the annotations the postal master embeds in town names so they can be
// geocoded: the "no listing" placeholder, "<municipality>の次に番地がくる場合" and trailing
// parenthesised notes such as "（次のビルを除く）".
func CleanTown(town string) string {
	town = strings.TrimSpace(town)
	if town == townPlaceholder || strings.HasSuffix(town, townBlockSuffix) {
		return ""
	}
	if i := strings.Index(town, "（"); i > 0 {
		town = town[:i]
	}
	return town
}
