// internal/loader/loader.go
//
// Fetch-and-apply for session words.
//
// A session that needs a word (new session, language switch, finished round)
// is refilled in three steps:
//   1. Under the session lock: read the active language.
//   2. Without the lock: fetch the language's alphabet and a random word.
//   3. Under the lock again: hand both to OnWordAndAlphabetReady.
//
// If the player switched language during step 2, the session rejects the
// result (session.ErrStaleResult) and the loader reports it unchanged.
// A newer Refill for the same session cancels the one in flight, so at most
// one result per session is ever applied.
//
// Daily sessions (store.Entry.Daily) draw from a separate source and play a
// single round.

package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/robalobadob/alphabet-game/internal/script"
	"github.com/robalobadob/alphabet-game/internal/session"
	"github.com/robalobadob/alphabet-game/internal/store"
	"github.com/robalobadob/alphabet-game/internal/words"
)

// maxWordTries bounds re-picks when the source returns an unusable word.
const maxWordTries = 3

var (
	// ErrNotNeeded is returned when the session already has a fresh round.
	ErrNotNeeded = errors.New("loader: session does not need a word")
	// ErrDailyDone is returned when a daily session already played its round.
	ErrDailyDone = errors.New("loader: daily word already played")
)

// Source supplies alphabets and words. *catalog.Catalog satisfies it.
type Source interface {
	Alphabet(ctx context.Context, languageID int64) (words.Alphabet, error)
	RandomWord(ctx context.Context, languageID int64) (words.Word, error)
}

// Loader refills sessions from a Source.
type Loader struct {
	src   Source
	daily Source
	st    store.Store
	log   zerolog.Logger

	mu       sync.Mutex
	inflight map[string]*flight
}

type flight struct {
	cancel context.CancelFunc
}

// Option configures a Loader.
type Option func(*Loader)

// WithDailySource sets the source used for daily sessions.
func WithDailySource(src Source) Option {
	return func(l *Loader) { l.daily = src }
}

// New constructs a Loader.
func New(src Source, st store.Store, log zerolog.Logger, opts ...Option) *Loader {
	l := &Loader{
		src:      src,
		st:       st,
		log:      log.With().Str("component", "loader").Logger(),
		inflight: make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Refill fetches and applies a word for session id.
//
// Errors:
//   - ErrNotNeeded: the session has an unfinished round in its current language.
//   - ErrDailyDone: a daily session asked for a second word.
//   - session.ErrStaleResult: the language changed while fetching; nothing applied.
//   - context.Canceled: a newer Refill superseded this one.
//   - script.ErrEmptyWord: the source kept returning empty words.
//   - store.ErrNotFound, catalog errors: passed through.
func (l *Loader) Refill(ctx context.Context, id string) error {
	ctx, done := l.begin(ctx, id)
	defer done()

	var (
		lang words.Language
		src  = l.src
	)
	err := l.st.With(ctx, id, func(e *store.Entry) error {
		if !e.Session.NeedsWord() {
			return ErrNotNeeded
		}
		if e.Daily {
			if e.Session.HasRound() || l.daily == nil {
				return ErrDailyDone
			}
			src = l.daily
		}
		lang = e.Session.Language()
		return nil
	})
	if err != nil {
		return err
	}

	for try := 1; ; try++ {
		alphabet, word, err := fetch(ctx, src, lang)
		if err != nil {
			return err
		}

		err = l.st.With(ctx, id, func(e *store.Entry) error {
			if !e.Session.NeedsWord() {
				return ErrNotNeeded
			}
			return e.Session.OnWordAndAlphabetReady(lang, word.Word, alphabet)
		})
		switch {
		case err == nil:
			l.log.Debug().Str("session", id).Int64("language", lang.ID).Int64("word", word.ID).Msg("refilled")
			return nil
		case errors.Is(err, session.ErrStaleResult):
			l.log.Debug().Str("session", id).Int64("language", lang.ID).Msg("stale word ignored")
			return err
		case errors.Is(err, script.ErrEmptyWord) && try < maxWordTries:
			l.log.Warn().Str("session", id).Int64("word", word.ID).Msg("empty word from source, picking again")
			continue
		default:
			return err
		}
	}
}

// fetch loads the alphabet and one word for lang.
func fetch(ctx context.Context, src Source, lang words.Language) (words.Alphabet, words.Word, error) {
	alphabet, err := src.Alphabet(ctx, lang.ID)
	if err != nil {
		return nil, words.Word{}, fmt.Errorf("alphabet %s: %w", lang.Code, err)
	}
	word, err := src.RandomWord(ctx, lang.ID)
	if err != nil {
		return nil, words.Word{}, fmt.Errorf("word %s: %w", lang.Code, err)
	}
	return alphabet, word, nil
}

// begin registers a refill for id, cancelling any earlier one still running.
func (l *Loader) begin(parent context.Context, id string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	f := &flight{cancel: cancel}

	l.mu.Lock()
	if prev, ok := l.inflight[id]; ok {
		prev.cancel()
	}
	l.inflight[id] = f
	l.mu.Unlock()

	return ctx, func() {
		l.mu.Lock()
		if l.inflight[id] == f {
			delete(l.inflight, id)
		}
		l.mu.Unlock()
		cancel()
	}
}
