// internal/daily/daily.go
//
// Word of the day.
//
// Every language gets one deterministic word per UTC date, picked with
// HMAC-SHA256(salt, "YYYY-MM-DD|<language id>") modulo the language's word
// count. The salt keeps the sequence unpredictable without a stored schedule.
// Source plugs into the loader in place of the random catalog pick.

package daily

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/robalobadob/alphabet-game/internal/catalog"
	"github.com/robalobadob/alphabet-game/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index in [0, n) for a date and language.
func WordIndex(date time.Time, salt string, languageID int64, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatInt(languageID, 10)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Catalog is the part of the catalog the daily pick needs.
type Catalog interface {
	Alphabet(ctx context.Context, languageID int64) (words.Alphabet, error)
	WordCount(ctx context.Context, languageID int64) (int, error)
	WordAt(ctx context.Context, languageID int64, index int) (words.Word, error)
}

// Source serves alphabets and the word of the day.
type Source struct {
	cat  Catalog
	salt string
	now  func() time.Time
}

// NewSource builds a Source over cat.
func NewSource(cat Catalog, salt string) *Source {
	return &Source{cat: cat, salt: salt, now: time.Now}
}

// Alphabet delegates to the catalog.
func (s *Source) Alphabet(ctx context.Context, languageID int64) (words.Alphabet, error) {
	return s.cat.Alphabet(ctx, languageID)
}

// RandomWord returns today's word for the language.
func (s *Source) RandomWord(ctx context.Context, languageID int64) (words.Word, error) {
	n, err := s.cat.WordCount(ctx, languageID)
	if err != nil {
		return words.Word{}, err
	}
	if n == 0 {
		return words.Word{}, catalog.ErrNoWords
	}
	idx := WordIndex(s.now(), s.salt, languageID, n)
	w, err := s.cat.WordAt(ctx, languageID, idx)
	if err != nil {
		return words.Word{}, fmt.Errorf("daily word %d/%d: %w", idx, n, err)
	}
	return w, nil
}
