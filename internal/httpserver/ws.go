// internal/httpserver/ws.go
//
// GET /sessions/{id}/ws streams session events to one websocket client.
//
// The first message is a "snapshot" event with the current view; after that
// every committed session event is forwarded as JSON. Events are queued in a
// small buffer; when a slow client lets it fill up, further events are
// dropped (the next one carries the full view anyway). Client messages are
// read only to notice disconnects.

package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/robalobadob/alphabet-game/internal/session"
	"github.com/robalobadob/alphabet-game/internal/store"
)

const (
	eventSnapshot session.EventKind = "snapshot"

	streamBuffer = 16
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
)

// handleStream upgrades the request and forwards session events until the client leaves.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	events := make(chan session.Event, streamBuffer)

	var unsubscribe func()
	err := s.store.With(r.Context(), id, func(e *store.Entry) error {
		view := e.Session.Snapshot()
		events <- session.Event{Kind: eventSnapshot, Language: view.Language, View: view}
		unsubscribe = e.Session.Subscribe(func(ev session.Event) {
			select {
			case events <- ev:
			default:
				s.log.Debug().Str("session", id).Str("event", string(ev.Kind)).Msg("stream buffer full, event dropped")
			}
		})
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer func() {
		_ = s.store.With(context.Background(), id, func(*store.Entry) error {
			unsubscribe()
			return nil
		})
	}()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("session", id).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case ev := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				s.log.Debug().Err(err).Str("session", id).Msg("stream write")
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}
