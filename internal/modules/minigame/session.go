package minigame

import (
	"time"

	"go.uber.org/zap"
)

const (
	// TopicRooms carries per-room announcements for the lobby browser.
	TopicRooms = "minigame/rooms"
	// TopicRoomsList carries full room list snapshots.
	TopicRoomsList = "minigame/rooms-list"
)

func RoomTopic(roomID string) string   { return "minigame/room/" + roomID }
func GameTopic(roomID string) string   { return "minigame/room/" + roomID + "/game" }
func ChatTopic(roomID string) string   { return "minigame/room/" + roomID + "/chat" }
func JoinResultTopic(userID string) string { return "minigame/joinResult/" + userID }
func InviteTopic(userID string) string { return "minigame/invite/" + userID }

// Game event types on the wire.
const (
	EventGameStart      = "gameStart"
	EventGameEnd        = "gameEnd"
	EventSpawnTarget    = "spawnTarget"
	EventTargetRemoved  = "targetRemoved"
	EventScoreUpdate    = "scoreUpdate"
	EventHit            = "hit"
	EventHitAck         = "hitAck"
	EventStateSync      = "stateSync"
	EventOmokMove       = "omokMove"
	EventCountdownStart = "countdownStart"
	EventReactionStart  = "reactionStart"
	EventReactionHit    = "reactionHit"
	EventReactionPrepare = "reactionPrepare"
	EventReactionGo      = "reactionGo"
	EventReactionEnd     = "reactionEnd"
	EventReactionResult  = "reactionResult"
)

// Target is a transient clickable object in the aiming game. Position and
// size are normalized to the [0,1]x[0,1] play field.
type Target struct {
	ID         string  `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Size       float64 `json:"size"`
	CreatedAt  int64   `json:"createdAt"`
	DurationMs int64   `json:"duration"`
}

// GameEvent is the single envelope for everything on a room's game topic,
// inbound and outbound. The client-supplied Timestamp is descriptive only -
// no validity or ordering decision ever reads it.
type GameEvent struct {
	RoomID     string         `json:"roomId"`
	Type       string         `json:"type"`
	PlayerID   string         `json:"playerId,omitempty"`
	PlayerName string         `json:"playerName,omitempty"`
	TargetID   string         `json:"targetId,omitempty"`
	Target     *Target        `json:"target,omitempty"`
	Targets    []Target       `json:"targets,omitempty"`
	Scores     map[string]int `json:"scores,omitempty"`
	Position   *int           `json:"position,omitempty"`
	Payload    string         `json:"payload,omitempty"`
	Immediate  bool           `json:"immediate,omitempty"`
	Timestamp  int64          `json:"timestamp,omitempty"`
}

func gameEvent(roomID, eventType string) GameEvent {
	return GameEvent{
		RoomID:    roomID,
		Type:      eventType,
		Timestamp: time.Now().UnixMilli(),
	}
}

// GameTimings collects every scheduled delay the session engines use.
type GameTimings struct {
	SettleDelay    time.Duration // pause between gameStart and the first target
	TargetDuration time.Duration // target lifespan; expiry is a safety net, hits are the expected removal path
	ReactionGoMin  time.Duration
	ReactionGoMax  time.Duration
	ReactionWindow time.Duration
}

func DefaultGameTimings() GameTimings {
	return GameTimings{
		SettleDelay:    1 * time.Second,
		TargetDuration: 10 * time.Second,
		ReactionGoMin:  800 * time.Millisecond,
		ReactionGoMax:  2600 * time.Millisecond,
		ReactionWindow: 3 * time.Second,
	}
}

// session is the contract every game variant implements. end must cancel all
// outstanding timers; a timer callback that was already in flight re-checks
// that its session is still the room's current one before touching anything.
type session interface {
	start()
	handleEvent(event GameEvent)
	end(reason string)
	publishState()
}

// StartGame flips the room into its playing state and instantiates the
// session for the room's variant. A room that is already playing is left
// alone.
func (r *Registry) StartGame(roomID string) (RoomState, bool) {
	r.mu.Lock()
	room, found := r.rooms[roomID]
	if !found {
		r.mu.Unlock()
		return RoomState{}, false
	}

	room.mu.Lock()
	if room.playing {
		state := room.snapshotLocked()
		room.mu.Unlock()
		r.mu.Unlock()
		return state, false
	}

	var sess session
	switch room.variant {
	case VariantReaction:
		sess = newReactionSession(roomID, r)
	case VariantOmok:
		sess = newOmokSession(roomID, r)
	default:
		sess = newAimingSession(roomID, r)
	}

	room.playing = true
	r.sessions[roomID] = sess

	state := room.snapshotLocked()
	room.mu.Unlock()
	r.mu.Unlock()

	r.logger.Info("game started",
		zap.String("room_id", roomID),
		zap.String("variant", string(state.GameVariant)))

	r.publisher.Publish(GameTopic(roomID), gameEvent(roomID, EventGameStart))
	sess.start()

	return state, true
}

// EndGame force-ends whatever session a room is running.
func (r *Registry) EndGame(roomID, reason string) {
	r.mu.RLock()
	sess := r.sessions[roomID]
	r.mu.RUnlock()

	if sess != nil {
		sess.end(reason)
	}
}

// HandleGameEvent routes an inbound room.game event. Events for rooms or
// sessions that do not exist fall through silently - the engine never raises
// for a stale or forged event.
func (r *Registry) HandleGameEvent(event GameEvent) {
	switch event.Type {
	case EventHit, EventReactionStart, EventReactionHit, EventOmokMove:
		r.mu.RLock()
		sess := r.sessions[event.RoomID]
		r.mu.RUnlock()

		if sess != nil {
			sess.handleEvent(event)
		}
	case EventCountdownStart:
		// Lobby-side countdown, relayed before any session exists.
		if _, found := r.room(event.RoomID); !found {
			return
		}

		relay := gameEvent(event.RoomID, EventCountdownStart)
		relay.PlayerID = event.PlayerID
		r.publisher.Publish(GameTopic(event.RoomID), relay)
	}
}

// PublishState rebroadcasts the current session state so a reconnecting
// client can catch up.
func (r *Registry) PublishState(roomID string) {
	r.mu.RLock()
	sess := r.sessions[roomID]
	r.mu.RUnlock()

	if sess != nil {
		sess.publishState()
	}
}

// isCurrent reports whether a session is still the one registered for its
// room. Timer callbacks use this as their staleness guard.
func (r *Registry) isCurrent(roomID string, s session) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[roomID] == s
}

// sessionEnded clears the session registration and restores the room to its
// lobby state: playing off, every non-host ready flag reset.
func (r *Registry) sessionEnded(roomID string, s session) {
	r.mu.Lock()
	if r.sessions[roomID] != s {
		r.mu.Unlock()
		return
	}
	delete(r.sessions, roomID)
	room := r.rooms[roomID]
	r.mu.Unlock()

	if room == nil {
		return
	}

	room.mu.Lock()
	room.playing = false
	for _, p := range room.players {
		if !p.IsHost {
			p.IsReady = false
		}
	}
	state := room.snapshotLocked()
	room.mu.Unlock()

	r.publisher.Publish(RoomTopic(roomID), state.Stamped("end"))
}
