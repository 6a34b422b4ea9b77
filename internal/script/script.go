// internal/script/script.go
//
// Script-aware segmentation of a raw word into grid units.
//
// A grid unit is one comparison/display token: a whole letter for alphabetic
// scripts, or one jamo component for Korean syllable blocks. Segment is the
// only place that decides what a unit is; the grid builder and the round
// matcher both consume its output.
//
// Rules, in precedence order:
//   1. First character is a Hangul syllable → every syllable is split into
//      leading consonant, vowel and optional trailing consonant (see hangeul.go).
//   2. Language strips diacritics and is written in Arabic script → tashkil
//      marks are removed, then rule 3 applies to the cleaned text.
//   3. Otherwise → first whitespace-delimited token, one unit per code point.

package script

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/robalobadob/alphabet-game/internal/words"
)

// ErrEmptyWord is returned when a word yields no units.
// The word source must supply another word; a round cannot start without target units.
var ErrEmptyWord = errors.New("script: empty word")

// Kind tags the segmentation branch used for a word.
type Kind int

const (
	Alphabetic Kind = iota
	Hangeul
	Arabic
)

func (k Kind) String() string {
	switch k {
	case Hangeul:
		return "hangeul"
	case Arabic:
		return "arabic"
	default:
		return "alphabetic"
	}
}

// LanguageKind derives the script of a language from its locale code.
// Unknown or malformed codes are treated as alphabetic.
func LanguageKind(lang words.Language) Kind {
	tag, err := language.Parse(lang.Code)
	if err != nil {
		return Alphabetic
	}
	sc, conf := tag.Script()
	if conf == language.No {
		return Alphabetic
	}
	switch sc.String() {
	case "Arab":
		return Arabic
	case "Hang", "Kore":
		return Hangeul
	}
	return Alphabetic
}

// KindOf reports which branch Segment takes for word in lang.
// The Hangul check looks at the word itself, so a Korean word is decomposed
// even when the language code says otherwise.
func KindOf(word string, lang words.Language) Kind {
	first, _ := utf8.DecodeRuneInString(strings.TrimLeftFunc(word, unicode.IsSpace))
	if isSyllable(first) {
		return Hangeul
	}
	if lang.StripDiacritics && LanguageKind(lang) == Arabic {
		return Arabic
	}
	return Alphabetic
}

// Segment splits word into grid units for lang.
// It is pure: the same (word, lang) always yields the same units.
func Segment(word string, lang words.Language) ([]string, error) {
	if strings.TrimSpace(word) == "" {
		return nil, ErrEmptyWord
	}

	var units []string
	switch KindOf(word, lang) {
	case Hangeul:
		units = decomposeHangeul(word)
	case Arabic:
		units = splitLetters(StripTashkil(word))
	default:
		units = splitLetters(word)
	}

	if len(units) == 0 {
		return nil, ErrEmptyWord
	}
	return units, nil
}

// splitLetters keeps the first whitespace-delimited token and returns one unit per code point.
func splitLetters(word string) []string {
	fields := strings.Fields(word)
	if len(fields) == 0 {
		return nil
	}
	first := fields[0]
	out := make([]string, 0, len(first))
	for _, r := range first {
		out = append(out, string(r))
	}
	return out
}
