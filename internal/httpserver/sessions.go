// internal/httpserver/sessions.go
//
// Session endpoints:
//   - POST   /sessions                     → create a session and deal its first word
//   - GET    /sessions/{id}                → current view
//   - POST   /sessions/{id}/letters        → tap a grid unit
//   - DELETE /sessions/{id}/letters/last   → undo the last tap
//   - POST   /sessions/{id}/check          → check spelling; records finished rounds
//   - POST   /sessions/{id}/next           → deal the next word once the round is over
//   - PUT    /sessions/{id}/language       → switch language and deal a word in it
//
// Every mutation runs inside store.With, so one session is never touched by
// two requests at once. Word fetching happens in the loader, outside that lock.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/alphabet-game/internal/game"
	"github.com/robalobadob/alphabet-game/internal/loader"
	"github.com/robalobadob/alphabet-game/internal/results"
	"github.com/robalobadob/alphabet-game/internal/session"
	"github.com/robalobadob/alphabet-game/internal/store"
	"github.com/robalobadob/alphabet-game/internal/words"
)

// mountSessions registers the /sessions routes.
func (s *Server) mountSessions(r chi.Router) {
	r.Post("/sessions", s.handleCreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Post("/letters", s.handleAddLetter)
		r.Delete("/letters/last", s.handleRemoveLetter)
		r.Post("/check", s.handleCheck)
		r.Post("/next", s.handleNext)
		r.Put("/language", s.handleSwitchLanguage)
	})
}

// sessionRes is returned by every session endpoint.
type sessionRes struct {
	ID    string       `json:"id"`
	Daily bool         `json:"daily,omitempty"`
	View  session.View `json:"view"`
}

// createSessionReq is the optional body of POST /sessions.
// Daily sessions play the language's word of the day once.
type createSessionReq struct {
	LanguageID int64 `json:"languageId" validate:"gte=0"`
	Daily      bool  `json:"daily"`
}

// handleCreateSession starts a session in the requested (or default) language.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_language")
		return
	}

	lang, err := s.resolveLanguage(r.Context(), req.LanguageID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sess := session.New(lang,
		session.WithGridSize(s.cfg.GridSize),
		session.WithMaxAttempts(s.cfg.MaxAttempts),
		session.WithLogger(s.log.With().Str("component", "session").Logger()),
	)
	id, err := s.store.Create(r.Context(), s.owner(w, r), sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Daily {
		_ = s.store.With(r.Context(), id, func(e *store.Entry) error {
			e.Daily = true
			return nil
		})
	}
	if err := s.loader.Refill(r.Context(), id); err != nil {
		_ = s.store.Delete(r.Context(), id)
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, http.StatusCreated, id)
}

// resolveLanguage loads language id, or the default language for id 0.
func (s *Server) resolveLanguage(ctx context.Context, id int64) (words.Language, error) {
	if id == 0 {
		return s.catalog.DefaultLanguage(ctx)
	}
	return s.catalog.Language(ctx, id)
}

// handleGetSession returns the current view.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, http.StatusOK, chi.URLParam(r, "id"))
}

// letterReq is the body of POST /sessions/{id}/letters.
type letterReq struct {
	Unit string `json:"unit" validate:"required"`
}

// handleAddLetter appends a grid unit to the input. Units not on the grid are rejected.
func (s *Server) handleAddLetter(w http.ResponseWriter, r *http.Request) {
	var req letterReq
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_unit")
		return
	}

	id := chi.URLParam(r, "id")
	var view session.View
	err := s.store.With(r.Context(), id, func(e *store.Entry) error {
		cur := e.Session.Snapshot()
		if cur.Round == nil || !slices.Contains(cur.Round.Grid, req.Unit) {
			return errUnitNotOnGrid
		}
		e.Session.AddLetter(req.Unit)
		view = e.Session.Snapshot()
		return nil
	})
	if errors.Is(err, errUnitNotOnGrid) {
		writeError(w, http.StatusBadRequest, "bad_unit")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionRes{ID: id, View: view})
}

var errUnitNotOnGrid = errors.New("unit not on grid")

// handleRemoveLetter drops the last tapped unit.
func (s *Server) handleRemoveLetter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var view session.View
	err := s.store.With(r.Context(), id, func(e *store.Entry) error {
		e.Session.RemoveLastLetter()
		view = e.Session.Snapshot()
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionRes{ID: id, View: view})
}

// checkRes is returned by POST /sessions/{id}/check.
type checkRes struct {
	game.Result
	ID   string       `json:"id"`
	View session.View `json:"view"`
}

// handleCheck checks the input; a finished round is recorded (best effort).
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	me := currentUser(r)

	var (
		res  game.Result
		view session.View
		rec  *results.Result
	)
	err := s.store.With(r.Context(), id, func(e *store.Entry) error {
		res = e.Session.CheckSpelling()
		view = e.Session.Snapshot()
		if res.Outcome.Completes() && view.Round != nil {
			rec = &results.Result{
				RoundID:      view.Round.ID,
				SessionID:    e.ID,
				UserID:       e.Owner.UserID,
				AnonymousID:  e.Owner.AnonymousID,
				LanguageID:   view.Language.ID,
				Word:         view.Round.Word,
				Attempts:     view.Round.Attempts,
				Points:       res.Points,
				Won:          res.Outcome == game.OutcomeCorrect,
				SessionScore: view.Score,
			}
			if me != nil {
				rec.UserID, rec.AnonymousID = me.ID, ""
			}
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if rec != nil {
		if err := s.results.InsertResult(r.Context(), *rec); err != nil {
			s.log.Warn().Err(err).Str("session", id).Msg("record result")
		}
	}
	writeJSON(w, http.StatusOK, checkRes{Result: res, ID: id, View: view})
}

// handleNext deals a new word; 409 while the current round is still running.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.loader.Refill(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, http.StatusOK, id)
}

// languageReq is the body of PUT /sessions/{id}/language.
type languageReq struct {
	LanguageID int64 `json:"languageId" validate:"required,gt=0"`
}

// handleSwitchLanguage makes a language active and deals a word in it.
// Switching to the active language keeps the current round.
func (s *Server) handleSwitchLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageReq
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_language")
		return
	}
	lang, err := s.catalog.Language(r.Context(), req.LanguageID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	err = s.store.With(r.Context(), id, func(e *store.Entry) error {
		if e.Daily {
			return loader.ErrDailyDone
		}
		e.Session.SwitchLanguage(lang)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.loader.Refill(r.Context(), id); err != nil && !errors.Is(err, loader.ErrNotNeeded) {
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, http.StatusOK, id)
}

// respondView writes the session's current view.
func (s *Server) respondView(w http.ResponseWriter, r *http.Request, status int, id string) {
	res := sessionRes{ID: id}
	err := s.store.With(r.Context(), id, func(e *store.Entry) error {
		res.Daily = e.Daily
		res.View = e.Session.Snapshot()
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, status, res)
}

// owner identifies the player for a new session.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) store.Owner {
	if me := currentUser(r); me != nil {
		return store.Owner{UserID: me.ID}
	}
	return store.Owner{AnonymousID: s.ensureAnonID(w, r)}
}
