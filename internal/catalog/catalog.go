// internal/catalog/catalog.go
//
// The language / letter / word catalog backed by SQLite.
//
// This is the data source the game core never talks to directly: the loader
// queries it and hands the results to a session.
//
// Queries:
//   - Languages, Language, DefaultLanguage
//   - Letters (all rows) and Alphabet (visible letters, catalog order)
//   - RandomWord (uniform pick per language)
//
// Writes are limited to seeding and imports.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalobadob/alphabet-game/internal/words"
)

var (
	// ErrNotFound is returned when a language does not exist.
	ErrNotFound = errors.New("catalog: not found")
	// ErrNoWords is returned when a language has no words to pick from.
	ErrNoWords = errors.New("catalog: no words for language")
)

// Catalog runs catalog queries against a migrated database.
type Catalog struct {
	db *sql.DB
}

// New wraps db, which must have been opened with Open.
func New(db *sql.DB) *Catalog { return &Catalog{db: db} }

const languageColumns = `id, name, COALESCE(name_other, ''), code, strip_diacritics, is_default`

func scanLanguage(row interface{ Scan(...any) error }) (words.Language, error) {
	var l words.Language
	err := row.Scan(&l.ID, &l.Name, &l.NameOther, &l.Code, &l.StripDiacritics, &l.IsDefault)
	return l, err
}

// Languages lists every language by id.
func (c *Catalog) Languages(ctx context.Context) ([]words.Language, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+languageColumns+` FROM languages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []words.Language{}
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Language loads one language by id.
func (c *Catalog) Language(ctx context.Context, id int64) (words.Language, error) {
	l, err := scanLanguage(c.db.QueryRowContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return words.Language{}, fmt.Errorf("language %d: %w", id, ErrNotFound)
	}
	return l, err
}

// DefaultLanguage returns the language flagged as default, or the first one.
func (c *Catalog) DefaultLanguage(ctx context.Context) (words.Language, error) {
	l, err := scanLanguage(c.db.QueryRowContext(ctx,
		`SELECT `+languageColumns+` FROM languages ORDER BY is_default DESC, id ASC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return words.Language{}, fmt.Errorf("default language: %w", ErrNotFound)
	}
	return l, err
}

// Letters returns every letter row of a language, hidden ones included.
func (c *Catalog) Letters(ctx context.Context, languageID int64) ([]words.Letter, error) {
	rows, err := c.db.QueryContext(ctx, `
        SELECT id, letter, language_id, regular, hidden, COALESCE(name_en, '')
        FROM letters
        WHERE language_id=?
        ORDER BY id`, languageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []words.Letter{}
	for rows.Next() {
		var l words.Letter
		if err := rows.Scan(&l.ID, &l.Letter, &l.LanguageID, &l.Regular, &l.Hidden, &l.NameEN); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Alphabet returns the letters offered on the grid for a language.
func (c *Catalog) Alphabet(ctx context.Context, languageID int64) (words.Alphabet, error) {
	letters, err := c.Letters(ctx, languageID)
	if err != nil {
		return nil, err
	}
	return words.AlphabetFromLetters(letters), nil
}

// RandomWord picks one word of a language uniformly at random.
func (c *Catalog) RandomWord(ctx context.Context, languageID int64) (words.Word, error) {
	var w words.Word
	err := c.db.QueryRowContext(ctx, `
        SELECT id, word, language_id
        FROM words
        WHERE language_id=?
        ORDER BY RANDOM()
        LIMIT 1`, languageID,
	).Scan(&w.ID, &w.Word, &w.LanguageID)
	if errors.Is(err, sql.ErrNoRows) {
		return words.Word{}, fmt.Errorf("language %d: %w", languageID, ErrNoWords)
	}
	return w, err
}

// WordCount returns the number of words stored for a language.
func (c *Catalog) WordCount(ctx context.Context, languageID int64) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM words WHERE language_id=?`, languageID).Scan(&n)
	return n, err
}

// WordAt returns the index-th word of a language in insertion order.
func (c *Catalog) WordAt(ctx context.Context, languageID int64, index int) (words.Word, error) {
	var w words.Word
	err := c.db.QueryRowContext(ctx, `
        SELECT id, word, language_id
        FROM words
        WHERE language_id=?
        ORDER BY id
        LIMIT 1 OFFSET ?`, languageID, index,
	).Scan(&w.ID, &w.Word, &w.LanguageID)
	if errors.Is(err, sql.ErrNoRows) {
		return words.Word{}, fmt.Errorf("language %d word %d: %w", languageID, index, ErrNotFound)
	}
	return w, err
}
