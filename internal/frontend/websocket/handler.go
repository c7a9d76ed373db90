// Package websocket serves the game over WebSocket: each text frame from the
// client is one line of input and each output message is sent as a JSON frame.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/xanadu/internal/game/session"
	"github.com/cory-johannsen/xanadu/internal/gameserver"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Pings are sent at this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum frame size accepted from the peer.
	maxMessageSize = 1024

	defaultMatchLimit = 10
	maxMatchLimit     = 100
)

// Hub is the subset of the game hub the WebSocket transport needs.
type Hub interface {
	Connect(ctx context.Context) (string, *session.Outbox, error)
	Submit(ctx context.Context, id, content string) error
	Disconnect(ctx context.Context, id string) error
	Snapshot(ctx context.Context) (gameserver.Snapshot, error)
}

// MatchHistory lists recorded matches.
type MatchHistory interface {
	RecentMatches(ctx context.Context, limit int) ([]string, error)
}

// Handler serves /ws and /healthz, and /matches when a MatchHistory is set.
type Handler struct {
	hub      Hub
	history  MatchHistory
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler.
//
// Precondition: hub and logger must be non-nil.
func NewHandler(hub Hub, logger *zap.Logger) *Handler {
	if hub == nil || logger == nil {
		panic("websocket.NewHandler: precondition violated: hub and logger must be non-nil")
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients are served from other origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// WithMatchHistory enables GET /matches backed by history.
func (h *Handler) WithMatchHistory(history MatchHistory) *Handler {
	h.history = history
	return h
}

// Routes returns the router for this handler.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", h.healthz)
	r.Get("/ws", h.serveWS)
	if h.history != nil {
		r.Get("/matches", h.matches)
	}
	return r
}

type health struct {
	Status  string `json:"status"`
	Context string `json:"context"`
	Players int    `json:"players"`
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	snap, err := h.hub.Snapshot(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(health{Status: "unavailable"})
		return
	}
	_ = json.NewEncoder(w).Encode(health{Status: "ok", Context: snap.Context, Players: len(snap.Players)})
}

type matchList struct {
	Matches []string `json:"matches"`
}

// matches reports the most recent match ids, newest first. The optional
// limit query parameter must be 1-100.
func (h *Handler) matches(w http.ResponseWriter, r *http.Request) {
	limit := defaultMatchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxMatchLimit {
			http.Error(w, "limit must be an integer between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = n
	}
	ids, err := h.history.RecentMatches(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing recent matches", zap.Error(err))
		http.Error(w, "match history unavailable", http.StatusServiceUnavailable)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(matchList{Matches: ids})
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	id, outbox, err := h.hub.Connect(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		_ = h.hub.Disconnect(context.WithoutCancel(r.Context()), id)
		return
	}
	logger := h.logger.With(zap.String("player_id", id), zap.String("remote_addr", r.RemoteAddr))
	logger.Debug("websocket client connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		writePump(conn, outbox, logger)
	}()
	readPump(r.Context(), conn, h.hub, id, logger)

	if err := h.hub.Disconnect(context.WithoutCancel(r.Context()), id); err != nil {
		logger.Debug("disconnecting from hub", zap.Error(err))
	}
	<-done
	logger.Debug("websocket client disconnected")
}

// readPump submits each text frame as one line until the connection fails.
func readPump(ctx context.Context, conn *websocket.Conn, hub Hub, id string, logger *zap.Logger) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read", zap.Error(err))
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		line := strings.TrimSpace(string(data))
		if line == "" {
			continue
		}
		if err := hub.Submit(ctx, id, line); err != nil {
			logger.Debug("submitting input", zap.Error(err))
			return
		}
	}
}

// writePump sends each outbox message as a JSON frame and keeps the
// connection alive with pings. It closes conn when the outbox closes.
func writePump(conn *websocket.Conn, outbox *session.Outbox, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-outbox.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
				return
			}
			if err := conn.WriteJSON(encode(msg)); err != nil {
				logger.Debug("websocket write", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
