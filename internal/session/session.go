// internal/session/session.go
//
// A play session: active language, running score and the current round.
//
// Responsibilities:
//   - Apply word/alphabet pairs delivered by the data layer (segment → grid → round).
//   - Drop results that arrive for a language the player already switched away from.
//   - Forward input and checks to the round, add points on correct completion.
//   - Notify subscribers after every committed mutation.
//
// Notes:
//   - A Session is not safe for concurrent use. The owner serializes calls
//     (see internal/store) and performs all I/O outside of it.
//   - The session starts without a round; NeedsWord reports true until the
//     first successful OnWordAndAlphabetReady.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/robalobadob/alphabet-game/internal/game"
	"github.com/robalobadob/alphabet-game/internal/grid"
	"github.com/robalobadob/alphabet-game/internal/script"
	"github.com/robalobadob/alphabet-game/internal/words"
)

// ErrStaleResult is returned when a word/alphabet pair targets a language
// other than the current one. It is not a user-facing error; callers drop the result.
var ErrStaleResult = errors.New("session: stale result for previous language")

// Session holds the state of one player's game.
type Session struct {
	lang      words.Language
	score     int
	round     *game.Round
	needsWord bool

	gridSize    int
	maxAttempts int
	rng         *rand.Rand
	log         zerolog.Logger

	subs      []subscription
	nextSubID int
}

// View is a read-only snapshot of a session.
type View struct {
	Language  words.Language `json:"language"`
	Score     int            `json:"score"`
	NeedsWord bool           `json:"needsWord"`
	Round     *game.State    `json:"round,omitempty"`
}

// Option configures a Session.
type Option func(*Session)

// WithGridSize sets the number of grid slots (default grid.DefaultSize).
func WithGridSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.gridSize = n
		}
	}
}

// WithMaxAttempts sets the attempts allowed per round (default game.DefaultMaxAttempts).
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithRand injects the grid shuffle source; tests pass grid.NewRand(seed).
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New creates a session for lang. No round exists until a word is applied.
func New(lang words.Language, opts ...Option) *Session {
	s := &Session{
		lang:        lang,
		needsWord:   true,
		gridSize:    grid.DefaultSize,
		maxAttempts: game.DefaultMaxAttempts,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = grid.NewSecureRand()
	}
	return s
}

// Language returns the active language.
func (s *Session) Language() words.Language { return s.lang }

// Score returns the running score.
func (s *Session) Score() int { return s.score }

// NeedsWord reports whether the data layer should deliver a new word/alphabet pair.
func (s *Session) NeedsWord() bool { return s.needsWord }

// HasRound reports whether a round has been started.
func (s *Session) HasRound() bool { return s.round != nil }

// Snapshot returns the current view.
func (s *Session) Snapshot() View {
	v := View{Language: s.lang, Score: s.score, NeedsWord: s.needsWord}
	if s.round != nil {
		st := s.round.Snapshot()
		v.Round = &st
	}
	return v
}

// SwitchLanguage makes lang active and asks for a new word.
// The previous round stays on screen until the new pair arrives.
func (s *Session) SwitchLanguage(lang words.Language) {
	if s.lang.Same(lang) {
		return
	}
	s.log.Debug().Int64("from", s.lang.ID).Int64("to", lang.ID).Msg("switch language")
	s.lang = lang
	s.needsWord = true
	s.emit(EventLanguageChanged, 0)
	s.emit(EventWordNeeded, 0)
}

// OnWordAndAlphabetReady builds a new round from word and alphabet.
//
// Errors:
//   - ErrStaleResult: lang is not the active language; nothing changed.
//   - script.ErrEmptyWord: the word has no units; nothing changed, a word is still needed.
func (s *Session) OnWordAndAlphabetReady(lang words.Language, word string, alphabet words.Alphabet) error {
	if !s.lang.Same(lang) {
		s.log.Debug().Int64("current", s.lang.ID).Int64("got", lang.ID).Msg("drop stale word")
		return ErrStaleResult
	}
	target, err := script.Segment(word, s.lang)
	if err != nil {
		return fmt.Errorf("segment %q: %w", word, err)
	}
	board := grid.Build(target, alphabet, s.gridSize, s.rng)

	if s.round == nil {
		s.round = game.New(word, target, board, s.maxAttempts)
	} else {
		s.round.ResetForNextWord(word, target, board)
	}
	s.needsWord = false
	s.log.Debug().Str("round", s.round.ID.String()).Int("units", len(target)).Msg("round started")
	s.emit(EventRoundStarted, 0)
	return nil
}

// AddLetter forwards a tapped unit to the round.
func (s *Session) AddLetter(unit string) {
	if s.round == nil || !s.round.AddLetter(unit) {
		return
	}
	s.emit(EventStateChanged, 0)
}

// RemoveLastLetter drops the last tapped unit.
func (s *Session) RemoveLastLetter() {
	if s.round == nil || !s.round.RemoveLastLetter() {
		return
	}
	s.emit(EventStateChanged, 0)
}

// CheckSpelling checks the current input and updates the score.
// Without a round it reports OutcomeLocked.
func (s *Session) CheckSpelling() game.Result {
	if s.round == nil {
		return game.Result{Outcome: game.OutcomeLocked}
	}
	res := s.round.CheckSpelling()
	switch res.Outcome {
	case game.OutcomeCorrect:
		s.score += res.Points
		s.needsWord = true
		s.emit(EventRoundCompletedCorrectly, res.Points)
		s.emit(EventWordNeeded, 0)
	case game.OutcomeOutOfAttempts:
		s.needsWord = true
		s.emit(EventRoundFailed, 0)
		s.emit(EventWordNeeded, 0)
	case game.OutcomeRetry:
		s.emit(EventStateChanged, 0)
	}
	return res
}
