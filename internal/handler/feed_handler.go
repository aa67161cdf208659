package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonnronanmn/movies-api/internal/feed"
	"github.com/jonnronanmn/movies-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type FeedHandler struct {
	movies *service.MovieService
	hub    *feed.Hub
}

func NewFeedHandler(movies *service.MovieService, hub *feed.Hub) *FeedHandler {
	return &FeedHandler{movies: movies, hub: hub}
}

// @Summary Comentarios en tiempo real (WebSocket)
// @Description Envía un snapshot con los comentarios actuales y luego un evento por cada comentario nuevo.
// @Tags comments
// @Security BearerAuth
// @Produce json
// @Param movieId path string true "movieId"
// @Param access_token query string false "token si no se puede mandar el header"
// @Success 101 {object} feed.Event
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /movies/ws/comments/{movieId} [get]
func (h *FeedHandler) CommentsWS(w http.ResponseWriter, r *http.Request) {
	movieID := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "movieId")))

	// suscribir antes del snapshot para no perder comentarios entre medio
	events, cancel := h.hub.Subscribe(movieID)
	defer cancel()

	comments, err := h.movies.Comments(r.Context(), movieID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("component", "ws").Warn("upgrade failed")
		return
	}
	defer conn.Close()

	logger := log.WithFields(log.Fields{"component": "ws", "movie_id": movieID})
	logger.Debug("subscriber connected")

	if err := writeEvent(conn, feed.Event{Type: "snapshot", MovieID: movieID, Comments: comments}); err != nil {
		return
	}

	// el cliente no manda nada; solo leemos para detectar el cierre y los pongs
	done := make(chan struct{})
	go func() {
		defer close(done)
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

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(conn, ev); err != nil {
				logger.WithError(err).Debug("write failed")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			logger.Debug("subscriber disconnected")
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, ev feed.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}
