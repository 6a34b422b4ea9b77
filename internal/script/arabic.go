package script

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// StripTashkil removes Arabic combining marks (harakat, tanwin, shadda,
// sukun, superscript alef, Quranic annotation signs). Base letters such as
// آ or أ are left intact; only standalone combining marks are dropped.
func StripTashkil(s string) string {
	out, _, err := transform.String(runes.Remove(runes.Predicate(IsTashkil)), s)
	if err != nil {
		return s
	}
	return out
}

// IsTashkil reports whether r is an Arabic combining diacritic.
func IsTashkil(r rune) bool {
	switch {
	case r >= 0x0610 && r <= 0x061A,
		r >= 0x064B && r <= 0x065F,
		r == 0x0670,
		r >= 0x06D6 && r <= 0x06DC,
		r >= 0x06DF && r <= 0x06E4,
		r >= 0x06E7 && r <= 0x06E8,
		r >= 0x06EA && r <= 0x06ED:
		return true
	}
	return false
}
