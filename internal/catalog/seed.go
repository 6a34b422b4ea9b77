package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/robalobadob/alphabet-game/assets"
	"github.com/robalobadob/alphabet-game/internal/words"
)

// Seed loads the bundled languages, letters and words into an empty catalog.
// It reports false without touching anything if languages already exist.
func (c *Catalog) Seed(ctx context.Context) (bool, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM languages`).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	langs, err := assets.Languages()
	if err != nil {
		return false, fmt.Errorf("read bundled languages: %w", err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, lang := range langs {
		id, err := insertLanguage(ctx, tx, lang)
		if err != nil {
			return false, err
		}
		letters, err := assets.Letters(lang.Code)
		if err != nil {
			return false, fmt.Errorf("letters %s: %w", lang.Code, err)
		}
		if err := insertLetters(ctx, tx, id, letters); err != nil {
			return false, err
		}
		list, err := assets.WordList(lang.Code)
		if err != nil {
			return false, fmt.Errorf("words %s: %w", lang.Code, err)
		}
		if _, err := insertWords(ctx, tx, id, list); err != nil {
			return false, err
		}
	}
	return true, tx.Commit()
}

// AddLanguage inserts a language with its letters and returns the new id.
func (c *Catalog) AddLanguage(ctx context.Context, lang words.Language, letters []words.Letter) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	id, err := insertLanguage(ctx, tx, lang)
	if err != nil {
		return 0, err
	}
	if err := insertLetters(ctx, tx, id, letters); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// AddWords stores words for a language, skipping ones already present.
// Returns how many were inserted.
func (c *Catalog) AddWords(ctx context.Context, languageID int64, list []string) (int, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	n, err := insertWords(ctx, tx, languageID, list)
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// ImportWordDir adds words from <dir>/<code>.txt for every catalog language
// that has such a file. Missing files are skipped.
func (c *Catalog) ImportWordDir(ctx context.Context, dir string) (map[string]int, error) {
	langs, err := c.Languages(ctx)
	if err != nil {
		return nil, err
	}
	added := make(map[string]int)
	for _, lang := range langs {
		list, err := words.ReadListFile(filepath.Join(dir, lang.Code+".txt"), true)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return added, fmt.Errorf("read %s words: %w", lang.Code, err)
		}
		n, err := c.AddWords(ctx, lang.ID, list)
		if err != nil {
			return added, fmt.Errorf("import %s words: %w", lang.Code, err)
		}
		added[lang.Code] = n
	}
	return added, nil
}

func insertLanguage(ctx context.Context, tx *sql.Tx, lang words.Language) (int64, error) {
	var nameOther any
	if lang.NameOther != "" {
		nameOther = lang.NameOther
	}
	res, err := tx.ExecContext(ctx, `
        INSERT INTO languages (name, name_other, code, strip_diacritics, is_default)
        VALUES (?, ?, ?, ?, ?)`,
		lang.Name, nameOther, lang.Code, lang.StripDiacritics, lang.IsDefault,
	)
	if err != nil {
		return 0, fmt.Errorf("insert language %s: %w", lang.Code, err)
	}
	return res.LastInsertId()
}

func insertLetters(ctx context.Context, tx *sql.Tx, languageID int64, letters []words.Letter) error {
	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO letters (letter, language_id, regular, hidden, name_en)
        VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range letters {
		var name any
		if l.NameEN != "" {
			name = l.NameEN
		}
		if _, err := stmt.ExecContext(ctx, l.Letter, languageID, l.Regular, l.Hidden, name); err != nil {
			return fmt.Errorf("insert letter %q: %w", l.Letter, err)
		}
	}
	return nil
}

func insertWords(ctx context.Context, tx *sql.Tx, languageID int64, list []string) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO words (word, language_id) VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	added := 0
	for _, w := range list {
		res, err := stmt.ExecContext(ctx, w, languageID)
		if err != nil {
			return added, fmt.Errorf("insert word %q: %w", w, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, nil
}
