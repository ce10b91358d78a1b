package minigame

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// First player to winThreshold hits ends the session.
const winThreshold = 10

// aimingSession runs the target-shooting variant. Exactly one target is live
// at a time; hitting it spawns the next one, expiry is only a fallback for a
// target nobody managed to hit. Hit arbitration is an atomic check-and-remove
// against the active target set - the server never consults client
// timestamps, so a forged timestamp can neither claim nor revive a target.
type aimingSession struct {
	roomID   string
	registry *Registry

	mu          sync.Mutex
	ended       bool
	targets     map[string]Target
	scores      map[string]int
	settleTimer *time.Timer
	expiryTimer *time.Timer
}

func newAimingSession(roomID string, registry *Registry) *aimingSession {
	return &aimingSession{
		roomID:   roomID,
		registry: registry,
		targets:  make(map[string]Target),
		scores:   make(map[string]int),
	}
}

func (s *aimingSession) start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return
	}

	s.settleTimer = time.AfterFunc(s.registry.timings.SettleDelay, s.spawnTarget)
}

func (s *aimingSession) handleEvent(event GameEvent) {
	if event.Type != EventHit {
		return
	}

	targetID := event.TargetID
	if targetID == "" && event.Target != nil {
		targetID = event.Target.ID
	}

	s.handleHit(event.PlayerID, event.PlayerName, targetID)
}

func (s *aimingSession) spawnTarget() {
	if !s.registry.isCurrent(s.roomID, s) {
		return
	}

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}

	// Single-target policy: whatever was live before is gone now.
	for id := range s.targets {
		delete(s.targets, id)
	}
	if s.expiryTimer != nil {
		s.expiryTimer.Stop()
	}

	target := Target{
		ID:         uuid.NewString(),
		X:          s.registry.randFloat(),
		Y:          s.registry.randFloat(),
		Size:       0.06 + s.registry.randFloat()*0.08,
		CreatedAt:  time.Now().UnixMilli(),
		DurationMs: s.registry.timings.TargetDuration.Milliseconds(),
	}
	s.targets[target.ID] = target
	s.expiryTimer = time.AfterFunc(s.registry.timings.TargetDuration, func() {
		s.expireTarget(target.ID)
	})
	s.mu.Unlock()

	event := gameEvent(s.roomID, EventSpawnTarget)
	event.Target = &target
	s.registry.publisher.Publish(GameTopic(s.roomID), event)
}

func (s *aimingSession) expireTarget(targetID string) {
	if !s.registry.isCurrent(s.roomID, s) {
		return
	}

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}

	target, live := s.targets[targetID]
	if !live {
		s.mu.Unlock()
		return
	}
	delete(s.targets, targetID)
	s.mu.Unlock()

	event := gameEvent(s.roomID, EventTargetRemoved)
	event.Target = &target
	s.registry.publisher.Publish(GameTopic(s.roomID), event)

	s.spawnTarget()
}

// handleHit resolves a hit claim. Only the first claim on a live target
// scores; a claim on a removed, expired, or unknown target acks with a zero
// score and changes nothing. Returns the player's score after the claim.
func (s *aimingSession) handleHit(playerID, playerName, targetID string) int {
	s.mu.Lock()

	target, live := s.targets[targetID]
	if s.ended || !live {
		s.mu.Unlock()

		ack := gameEvent(s.roomID, EventHitAck)
		ack.PlayerID = playerID
		ack.Payload = "0"
		s.registry.publisher.Publish(GameTopic(s.roomID), ack)
		return 0
	}

	delete(s.targets, targetID)
	if s.expiryTimer != nil {
		s.expiryTimer.Stop()
	}

	score := s.scores[playerID] + 1
	s.scores[playerID] = score
	won := score >= winThreshold
	s.mu.Unlock()

	scoreEvent := gameEvent(s.roomID, EventScoreUpdate)
	scoreEvent.PlayerID = playerID
	scoreEvent.PlayerName = playerName
	scoreEvent.Payload = strconv.Itoa(score)
	s.registry.publisher.Publish(GameTopic(s.roomID), scoreEvent)

	removed := gameEvent(s.roomID, EventTargetRemoved)
	removed.Target = &target
	s.registry.publisher.Publish(GameTopic(s.roomID), removed)

	ack := gameEvent(s.roomID, EventHitAck)
	ack.PlayerID = playerID
	ack.Payload = strconv.Itoa(score)
	s.registry.publisher.Publish(GameTopic(s.roomID), ack)

	if won {
		s.end("win")
	} else {
		s.spawnTarget()
	}

	return score
}

func (s *aimingSession) end(reason string) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true

	if s.settleTimer != nil {
		s.settleTimer.Stop()
	}
	if s.expiryTimer != nil {
		s.expiryTimer.Stop()
	}
	for id := range s.targets {
		delete(s.targets, id)
	}

	scores := make(map[string]int, len(s.scores))
	for playerID, score := range s.scores {
		scores[playerID] = score
	}
	s.mu.Unlock()

	event := gameEvent(s.roomID, EventGameEnd)
	event.Scores = scores
	event.Payload = reason
	s.registry.publisher.Publish(GameTopic(s.roomID), event)

	s.registry.sessionEnded(s.roomID, s)
}

func (s *aimingSession) publishState() {
	s.mu.Lock()
	targets := make([]Target, 0, len(s.targets))
	for _, target := range s.targets {
		targets = append(targets, target)
	}
	scores := make(map[string]int, len(s.scores))
	for playerID, score := range s.scores {
		scores[playerID] = score
	}
	s.mu.Unlock()

	event := gameEvent(s.roomID, EventStateSync)
	event.Targets = targets
	event.Scores = scores
	s.registry.publisher.Publish(GameTopic(s.roomID), event)
}
