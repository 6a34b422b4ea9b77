// main.go
//
// Entry point for the alphabet game server.
// Startup order:
//   1. Load config (.env + ALPHABET_* environment) and set the log level.
//   2. Open and migrate the SQLite catalog; seed bundled languages if empty.
//   3. Import extra word lists from words_dir, if configured.
//   4. Start the idle-session sweeper and the HTTP server.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/alphabet-game/internal/catalog"
	"github.com/robalobadob/alphabet-game/internal/config"
	"github.com/robalobadob/alphabet-game/internal/httpserver"
	"github.com/robalobadob/alphabet-game/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	logger := log.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := catalog.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("open database")
	}
	defer db.Close()

	cat := catalog.New(db)
	if cfg.Seed {
		seeded, err := cat.Seed(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("seed catalog")
		}
		if seeded {
			log.Info().Msg("seeded bundled languages")
		}
	}
	if cfg.WordsDir != "" {
		added, err := cat.ImportWordDir(ctx, cfg.WordsDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.WordsDir).Msg("import word lists")
		}
		for code, n := range added {
			log.Info().Str("language", code).Int("words", n).Msg("imported words")
		}
	}

	mem := store.NewMemoryStore()
	go sweep(ctx, mem, cfg.SessionIdle)

	srv := httpserver.New(cfg, db, mem, logger)
	log.Info().Int("port", cfg.Port).Msg("starting alphabet server")
	if err := srv.Start(ctx, cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// sweep drops idle sessions until ctx is done.
func sweep(ctx context.Context, st store.Store, idle time.Duration) {
	t := time.NewTicker(idle / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Sweep(ctx, idle); n > 0 {
				log.Debug().Int("sessions", n).Msg("swept idle sessions")
			}
		}
	}
}
