// assets/embed.go
//
// Bundled seed data for the catalog: the language list plus one letter file
// and one word file per language, keyed by locale code.
//
// File formats (one entry per line, blank lines and '#' comments skipped):
//   seed/languages.txt     code|name|name_other|strip_diacritics|default
//   seed/<code>/letters.txt letter|name_en|flags   (flags: hidden, irregular)
//   seed/<code>/words.txt   raw word

package assets

import (
	"bufio"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/robalobadob/alphabet-game/internal/words"
)

//go:embed seed
var FS embed.FS

// readLines returns the non-comment lines of an embedded file.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// Languages returns the bundled languages. IDs are left zero.
func Languages() ([]words.Language, error) {
	lines, err := readLines("seed/languages.txt")
	if err != nil {
		return nil, err
	}
	out := make([]words.Language, 0, len(lines))
	for _, line := range lines {
		f := strings.Split(line, "|")
		if len(f) != 5 {
			return nil, fmt.Errorf("languages.txt: malformed line %q", line)
		}
		out = append(out, words.Language{
			Code:            f[0],
			Name:            f[1],
			NameOther:       f[2],
			StripDiacritics: f[3] == "1",
			IsDefault:       f[4] == "1",
		})
	}
	return out, nil
}

// Letters returns the bundled letters for a language code, in alphabet order.
func Letters(code string) ([]words.Letter, error) {
	lines, err := readLines(path.Join("seed", code, "letters.txt"))
	if err != nil {
		return nil, err
	}
	out := make([]words.Letter, 0, len(lines))
	for _, line := range lines {
		f := strings.Split(line, "|")
		l := words.Letter{Letter: f[0], Regular: true}
		if len(f) > 1 {
			l.NameEN = f[1]
		}
		if len(f) > 2 {
			for _, flag := range strings.Split(f[2], ",") {
				switch strings.TrimSpace(flag) {
				case "hidden":
					l.Hidden = true
				case "irregular":
					l.Regular = false
				}
			}
		}
		out = append(out, l)
	}
	return out, nil
}

// WordList returns the bundled words for a language code.
func WordList(code string) ([]string, error) {
	b, err := FS.ReadFile(path.Join("seed", code, "words.txt"))
	if err != nil {
		return nil, err
	}
	return words.NormalizeLines(string(b), false), nil
}
