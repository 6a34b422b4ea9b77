package script

import (
	"golang.org/x/text/unicode/norm"
)

const (
	syllableFirst = 0xAC00
	syllableLast  = 0xD7A3

	leadFirst  = 0x1100
	vowelFirst = 0x1161
	vowelLast  = 0x1175
	tailFirst  = 0x11A8
)

// Compatibility jamo, indexed by conjoining jamo offset. Alphabets list these
// forms (ㄱ, ㅏ), not the conjoining ones NFD produces.
var (
	compatLeads = []rune("ㄱㄲㄴㄷㄸㄹㅁㅂㅃㅅㅆㅇㅈㅉㅊㅋㅌㅍㅎ")
	compatTails = []rune("ㄱㄲㄳㄴㄵㄶㄷㄹㄺㄻㄼㄽㄾㄿㅀㅁㅂㅄㅅㅆㅇㅈㅊㅋㅌㅍㅎ")
)

const compatVowelFirst = 'ㅏ' // U+314F; the 21 vowels are contiguous in both blocks

func isSyllable(r rune) bool { return r >= syllableFirst && r <= syllableLast }

// decomposeHangeul splits every syllable block into 2 or 3 compatibility jamo.
// Anything that is not a precomposed syllable is dropped.
func decomposeHangeul(word string) []string {
	var out []string
	for _, r := range word {
		if !isSyllable(r) {
			continue
		}
		for _, j := range norm.NFD.String(string(r)) {
			if c, ok := toCompat(j); ok {
				out = append(out, string(c))
			}
		}
	}
	return out
}

// toCompat maps one conjoining jamo to its compatibility form.
func toCompat(j rune) (rune, bool) {
	switch {
	case j >= leadFirst && int(j-leadFirst) < len(compatLeads):
		return compatLeads[j-leadFirst], true
	case j >= vowelFirst && j <= vowelLast:
		return compatVowelFirst + (j - vowelFirst), true
	case j >= tailFirst && int(j-tailFirst) < len(compatTails):
		return compatTails[j-tailFirst], true
	}
	return 0, false
}

// SyllableCount returns the number of precomposed Hangul syllables in word,
// and how many of them carry a trailing consonant.
func SyllableCount(word string) (syllables, withTail int) {
	for _, r := range word {
		if !isSyllable(r) {
			continue
		}
		syllables++
		if (r-syllableFirst)%28 != 0 {
			withTail++
		}
	}
	return syllables, withTail
}
