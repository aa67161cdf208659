// Package feed reparte los comentarios nuevos a los suscriptores por websocket.
package feed

import (
	"sync"

	"github.com/jonnronanmn/movies-api/internal/models"
)

const bufferSize = 16

type Event struct {
	Type     string               `json:"type"`
	MovieID  string               `json:"movieId"`
	Comment  *models.CommentView  `json:"comment,omitempty"`
	Comments []models.CommentView `json:"comments,omitempty"`
}

// Hub guarda los suscriptores de cada película. Publish nunca bloquea: un
// suscriptor con el buffer lleno se pierde el evento.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registra un suscriptor para movieID. La función cancel que
// devuelve lo da de baja y cierra el canal; se puede llamar más de una vez.
func (h *Hub) Subscribe(movieID string) (<-chan Event, func()) {
	ch := make(chan Event, bufferSize)

	h.mu.Lock()
	set, ok := h.subs[movieID]
	if !ok {
		set = make(map[chan Event]struct{})
		h.subs[movieID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[movieID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, movieID)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

func (h *Hub) Publish(movieID string, c models.CommentView) {
	ev := Event{Type: "comment", MovieID: movieID, Comment: &c}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[movieID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers devuelve cuántos suscriptores tiene movieID.
func (h *Hub) Subscribers(movieID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[movieID])
}
