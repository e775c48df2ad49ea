package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"policyai-be/internal/pkg/logger"
)

// Hub fans chat events out to websocket subscribers. Connections are
// keyed by session id (one session per policy document), so a pushed
// reply reaches every open tab of every participant. Redis relays the
// same payloads to sibling instances.
type Hub struct {
	// SessionID -> connected clients
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	// instanceID tags published envelopes so an instance can ignore its
	// own messages echoed back by redis; local clients already got them.
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{
				"session_id": client.SessionID,
				"user_id":    client.UserID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						client.closeSend()
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Session has no listeners left", map[string]interface{}{
						"session_id": client.SessionID,
					})
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToSession pushes an event to everyone listening on the session,
// locally and on sibling instances through redis.
func (h *Hub) SendToSession(sessionID uuid.UUID, eventType string, payload interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": payload,
	})

	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(map[string]interface{}{
			"origin":     h.instanceID,
			"session_id": sessionID.String(),
			"message":    json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), "session_events", envelope)
	}
}

func (h *Hub) deliverLocal(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients, ok := h.clients[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{
				"session_id": sessionID,
				"user_id":    client.UserID,
			})
			// The unregister branch is the sole closer of Send; closing
			// here as well would panic the hub on the second close.
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance listens on one shared channel and delivers only to
	// sessions it holds locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "session_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			Origin    string          `json:"origin"`
			SessionID string          `json:"session_id"`
			Message   json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}

		sid, err := uuid.Parse(payload.SessionID)
		if err != nil {
			continue
		}

		h.deliverLocal(sid, payload.Message)
	}
}
