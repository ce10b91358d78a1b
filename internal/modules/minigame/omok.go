package minigame

import "sync"

// omokSession relays board moves between the players. The board itself is
// client-authoritative; the server's job is fan-out and making sure moves
// stop flowing once the session is over.
type omokSession struct {
	roomID   string
	registry *Registry

	mu    sync.Mutex
	ended bool
}

func newOmokSession(roomID string, registry *Registry) *omokSession {
	return &omokSession{roomID: roomID, registry: registry}
}

func (s *omokSession) start() {}

func (s *omokSession) handleEvent(event GameEvent) {
	if event.Type != EventOmokMove {
		return
	}

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	relay := gameEvent(s.roomID, EventOmokMove)
	relay.PlayerID = event.PlayerID
	relay.PlayerName = event.PlayerName
	relay.Position = event.Position
	relay.Payload = event.Payload
	s.registry.publisher.Publish(GameTopic(s.roomID), relay)
}

func (s *omokSession) end(reason string) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.mu.Unlock()

	event := gameEvent(s.roomID, EventGameEnd)
	event.Payload = reason
	s.registry.publisher.Publish(GameTopic(s.roomID), event)

	s.registry.sessionEnded(s.roomID, s)
}

func (s *omokSession) publishState() {
	s.registry.publisher.Publish(GameTopic(s.roomID), gameEvent(s.roomID, EventStateSync))
}
