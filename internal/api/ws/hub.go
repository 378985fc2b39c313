// Package ws streams onboarding run progress to WebSocket clients, backed by
// Redis pub/sub so any replica can serve a subscriber.
package ws

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	redisstore "github.com/fieldstack/fieldstack/internal/store/redis"
)

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	pubsub *redisstore.PubSub
}

func NewHub(pubsub *redisstore.PubSub) *Hub {
	return &Hub{pubsub: pubsub}
}

// ServeOnboarding handles WebSocket connections for onboarding progress.
// Subscribes to the run's Redis channel and forwards every step transition
// to the client until the connection or the run context ends.
func (h *Hub) ServeOnboarding(w http.ResponseWriter, r *http.Request) {
	runIDStr := chi.URLParam(r, "runID")
	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	channel := redisstore.OnboardingChannel(runID)

	sub, err := h.pubsub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-sub.Messages():
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
