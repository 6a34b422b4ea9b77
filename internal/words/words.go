// internal/words/words.go
//
// Catalog entities shared by the game core and the data layer.
//
// Defines:
//   - Language: a playable language (display names, locale code, diacritic policy).
//   - Letter:   one catalog letter row for a language (may be hidden from play).
//   - Word:     one raw target word for a language.
//   - Alphabet: the ordered letter list handed to the grid builder.
//
// Also provides list helpers used when seeding or importing word/letter files:
//   - NormalizeLines: trims, drops blanks and '#' comments, folds case per language.
//   - ReadListFile:   same rules applied to a file on disk.
//
// Notes:
//   • Entities are immutable once fetched; equality is by ID.
//   • Words are kept raw. Script-specific processing happens in package script.

package words

import (
	"bufio"
	"os"
	"strings"
)

// Language is a playable language as stored in the catalog.
type Language struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	NameOther       string `json:"nameOther,omitempty"` // native-script name, if any
	Code            string `json:"code"`                // BCP 47 tag, e.g. "en-US", "ko", "ar"
	StripDiacritics bool   `json:"stripDiacritics"`
	IsDefault       bool   `json:"isDefault"`
}

// Same reports whether two languages are the same catalog entry.
func (l Language) Same(other Language) bool { return l.ID == other.ID }

// Letter is one letter row of a language's alphabet.
type Letter struct {
	ID         int64  `json:"id"`
	Letter     string `json:"letter"`
	LanguageID int64  `json:"languageId"`
	Regular    bool   `json:"regular"`          // part of the standard alphabet
	Hidden     bool   `json:"hidden"`           // never offered on the grid
	NameEN     string `json:"nameEn,omitempty"` // English name of the letter
}

// Word is one raw target word.
type Word struct {
	ID         int64  `json:"id"`
	Word       string `json:"word"`
	LanguageID int64  `json:"languageId"`
}

// Alphabet is the ordered list of letters offered for a language.
type Alphabet []string

// AlphabetFromLetters keeps the visible letters in catalog order.
func AlphabetFromLetters(letters []Letter) Alphabet {
	out := make(Alphabet, 0, len(letters))
	for _, l := range letters {
		if l.Hidden || strings.TrimSpace(l.Letter) == "" {
			continue
		}
		out = append(out, l.Letter)
	}
	return out
}

// NormalizeLines splits a multiline list into entries.
// Blank lines and lines starting with '#' are skipped; entries are trimmed.
// When lower is set, entries are lowercased (scripts without case are unaffected).
func NormalizeLines(s string, lower bool) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if w, ok := normalizeLine(line, lower); ok {
			out = append(out, w)
		}
	}
	return out
}

// ReadListFile loads one entry per line from a file using NormalizeLines rules.
func ReadListFile(path string, lower bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w, ok := normalizeLine(sc.Text(), lower); ok {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

func normalizeLine(line string, lower bool) (string, bool) {
	w := strings.TrimSpace(line)
	if w == "" || strings.HasPrefix(w, "#") {
		return "", false
	}
	if lower {
		w = strings.ToLower(w)
	}
	return w, true
}
