package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Envelope is the wire frame for every broadcast message.
type Envelope struct {
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

// Hub fans broadcast messages out to websocket clients by topic. Publish
// never blocks: a client whose send buffer is full misses the message and
// recovers through a state sync, so one slow reader cannot stall a room.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Client]struct{}

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Client]struct{}),
		logger:      logger,
	}
}

func (h *Hub) Subscribe(topic string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, found := h.subscribers[topic]
	if !found {
		clients = make(map[*Client]struct{})
		h.subscribers[topic] = clients
	}
	clients[client] = struct{}{}
}

func (h *Hub) Unsubscribe(topic string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, found := h.subscribers[topic]; found {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.subscribers, topic)
		}
	}
}

// remove drops the client from every topic. Called once on disconnect.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for topic, clients := range h.subscribers {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.subscribers, topic)
		}
	}
}

// Publish broadcasts a payload to every subscriber of a topic.
func (h *Hub) Publish(topic string, payload any) {
	message, err := json.Marshal(Envelope{Topic: topic, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal broadcast payload",
			zap.String("topic", topic),
			zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.subscribers[topic]))
	for client := range h.subscribers[topic] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			h.logger.Warn("dropping message for slow client",
				zap.String("connection_id", client.ID()),
				zap.String("topic", topic))
		}
	}
}

// SubscriberCount reports how many clients listen on a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}
