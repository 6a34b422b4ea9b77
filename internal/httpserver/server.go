// internal/httpserver/server.go
//
// HTTP server wiring for the alphabet game backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, JSON, CORS, timeouts).
//   - Public endpoints: "/", "/health", "/languages", "/leaderboard".
//   - Session endpoints (optional auth): /sessions/*, including the websocket stream.
//   - Auth + history endpoints: /auth/*, /results/mine.
//   - Mapping domain errors to JSON error codes.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The websocket route is mounted outside the request timeout.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/robalobadob/alphabet-game/internal/catalog"
	"github.com/robalobadob/alphabet-game/internal/config"
	"github.com/robalobadob/alphabet-game/internal/daily"
	"github.com/robalobadob/alphabet-game/internal/loader"
	"github.com/robalobadob/alphabet-game/internal/results"
	"github.com/robalobadob/alphabet-game/internal/script"
	"github.com/robalobadob/alphabet-game/internal/session"
	"github.com/robalobadob/alphabet-game/internal/store"
)

const requestTimeout = 10 * time.Second

// Server bundles the router and everything handlers need.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	db       *sql.DB
	store    store.Store
	catalog  *catalog.Catalog
	results  *results.Store
	loader   *loader.Loader
	validate *validator.Validate
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// New constructs a Server on a migrated database, installs middleware, and registers routes.
func New(cfg *config.Config, db *sql.DB, st store.Store, log zerolog.Logger) *Server {
	cat := catalog.New(db)
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		db:       db,
		store:    st,
		catalog:  cat,
		results:  results.NewStore(db),
		loader:   loader.New(cat, st, log, loader.WithDailySource(daily.NewSource(cat, cfg.DailySalt))),
		validate: validator.New(),
		log:      log.With().Str("component", "http").Logger(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "alphabet-go",
			"endpoints": []string{"/health", "/languages", "POST /sessions", "/leaderboard", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "db_unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		s.mountCatalog(r)
		s.mountSessions(r.With(s.withOptionalAuth()))
		s.mountAuthRoutes(r)
	})

	// Websocket stream: long-lived, no timeout.
	s.r.With(s.withOptionalAuth()).Get("/sessions/{id}/ws", s.handleStream)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// checkOrigin accepts websocket upgrades from the client origin and from
// non-browser clients that send no Origin header.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || origin == s.cfg.ClientOrigin || origin == "http://"+r.Host
}

// ------------------------------ helpers ------------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decodeJSON reads the request body into v. An empty body is allowed when optional is set.
func decodeJSON(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// fail maps a domain error to a status and error code.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "session_not_found")
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "language_not_found")
	case errors.Is(err, loader.ErrNotNeeded):
		writeError(w, http.StatusConflict, "word_not_needed")
	case errors.Is(err, loader.ErrDailyDone):
		writeError(w, http.StatusConflict, "daily_done")
	case errors.Is(err, session.ErrStaleResult):
		writeError(w, http.StatusConflict, "stale_result")
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusConflict, "superseded")
	case errors.Is(err, script.ErrEmptyWord):
		writeError(w, http.StatusUnprocessableEntity, "empty_word")
	case errors.Is(err, catalog.ErrNoWords):
		writeError(w, http.StatusUnprocessableEntity, "no_words")
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", chimw.GetReqID(r.Context())).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}
