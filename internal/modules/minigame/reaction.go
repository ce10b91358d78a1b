package minigame

import (
	"sync"
	"time"
)

// reactionSession runs the reaction-race variant. Each round goes
// prepare -> go -> result: the prepare phase lasts a random delay so the go
// signal cannot be anticipated, and only the first claim between go and the
// window close wins the round. Claims before the go signal are dropped
// outright rather than penalized.
type reactionSession struct {
	roomID   string
	registry *Registry

	mu          sync.Mutex
	ended       bool
	active      bool
	winner      string
	goTimer     *time.Timer
	windowTimer *time.Timer
}

func newReactionSession(roomID string, registry *Registry) *reactionSession {
	return &reactionSession{roomID: roomID, registry: registry}
}

// start is a no-op; rounds are host-driven through reactionStart events.
func (s *reactionSession) start() {}

func (s *reactionSession) handleEvent(event GameEvent) {
	switch event.Type {
	case EventReactionStart:
		s.startRound(event.Immediate)
	case EventReactionHit:
		s.handleHit(event.PlayerID, event.PlayerName)
	}
}

// startRound resets the round state and arms the go signal. The immediate
// flag skips the random delay, for clients that drive their own countdown.
func (s *reactionSession) startRound(immediate bool) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}

	if s.goTimer != nil {
		s.goTimer.Stop()
	}
	if s.windowTimer != nil {
		s.windowTimer.Stop()
	}
	s.active = false
	s.winner = ""
	s.mu.Unlock()

	s.registry.publisher.Publish(GameTopic(s.roomID), gameEvent(s.roomID, EventReactionPrepare))

	if immediate {
		s.goSignal()
		return
	}

	delay := s.registry.randDuration(s.registry.timings.ReactionGoMin, s.registry.timings.ReactionGoMax)

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.goTimer = time.AfterFunc(delay, s.goSignal)
	s.mu.Unlock()
}

func (s *reactionSession) goSignal() {
	if !s.registry.isCurrent(s.roomID, s) {
		return
	}

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.windowTimer = time.AfterFunc(s.registry.timings.ReactionWindow, s.closeRound)
	s.mu.Unlock()

	s.registry.publisher.Publish(GameTopic(s.roomID), gameEvent(s.roomID, EventReactionGo))
}

// closeRound fires when the reaction window elapses without the round being
// resolved any other way. The end event names the winner, or nobody.
func (s *reactionSession) closeRound() {
	if !s.registry.isCurrent(s.roomID, s) {
		return
	}

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.active = false
	winner := s.winner
	s.mu.Unlock()

	event := gameEvent(s.roomID, EventReactionEnd)
	event.Payload = winner
	s.registry.publisher.Publish(GameTopic(s.roomID), event)
}

func (s *reactionSession) handleHit(playerID, playerName string) {
	s.mu.Lock()
	if s.ended || !s.active || s.winner != "" {
		s.mu.Unlock()
		return
	}

	winner := playerName
	if winner == "" {
		winner = playerID
	}
	s.winner = winner
	s.active = false
	s.mu.Unlock()

	event := gameEvent(s.roomID, EventReactionResult)
	event.PlayerID = playerID
	event.PlayerName = playerName
	event.Payload = winner
	s.registry.publisher.Publish(GameTopic(s.roomID), event)
}

func (s *reactionSession) end(reason string) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.active = false

	if s.goTimer != nil {
		s.goTimer.Stop()
	}
	if s.windowTimer != nil {
		s.windowTimer.Stop()
	}
	s.mu.Unlock()

	event := gameEvent(s.roomID, EventGameEnd)
	event.Payload = reason
	s.registry.publisher.Publish(GameTopic(s.roomID), event)

	s.registry.sessionEnded(s.roomID, s)
}

func (s *reactionSession) publishState() {
	s.mu.Lock()
	winner := s.winner
	s.mu.Unlock()

	event := gameEvent(s.roomID, EventStateSync)
	event.Payload = winner
	s.registry.publisher.Publish(GameTopic(s.roomID), event)
}
