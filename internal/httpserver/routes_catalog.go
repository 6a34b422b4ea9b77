// internal/httpserver/routes_catalog.go
//
// Read-only catalog and leaderboard routes:
//   - GET /languages               → all playable languages
//   - GET /languages/{id}/letters  → a language's letters, hidden ones included
//   - GET /leaderboard             → best session scores (?language=ID&limit=N)

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/alphabet-game/internal/results"
)

// mountCatalog registers the catalog and leaderboard routes.
func (s *Server) mountCatalog(r chi.Router) {
	r.Get("/languages", s.handleLanguages)
	r.Get("/languages/{id}/letters", s.handleLetters)
	r.Get("/leaderboard", s.handleLeaderboard)
}

// handleLanguages lists languages in catalog order.
func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := s.catalog.Languages(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, langs)
}

// handleLetters returns every letter row of one language.
func (s *Server) handleLetters(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "bad_language")
		return
	}
	if _, err := s.catalog.Language(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	letters, err := s.catalog.Letters(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, letters)
}

// lbRes is returned by /leaderboard.
type lbRes struct {
	LanguageID int64           `json:"languageId,omitempty"`
	Top        []results.LBRow `json:"top"`
}

// handleLeaderboard ranks players for one language, or across all when language is omitted.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var langID int64
	if v := q.Get("language"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_language")
			return
		}
		langID = n
	}
	limit := results.DefaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}

	rows, err := s.results.Leaderboard(r.Context(), langID, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lbRes{LanguageID: langID, Top: rows})
}
