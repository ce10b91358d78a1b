package minigame

import (
	"math/rand"
	"sync"
	"time"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JoinStatus reports how a join request was resolved. A full room admits the
// joiner as a spectator rather than turning them away.
type JoinStatus int

const (
	JoinedAsPlayer JoinStatus = iota
	JoinedAsSpectator
	AlreadyInRoom
	JoinRoomNotFound
)

// LeaveStatus reports the outcome of a leave request.
type LeaveStatus int

const (
	LeftRoom LeaveStatus = iota
	RoomDeleted
	LeaveRoomNotFound
)

// CreateRoomParams carries everything needed to open a lobby.
type CreateRoomParams struct {
	RoomName        string
	Variant         GameVariant
	HostID          string
	HostName        string
	HostLevel       int
	MaxPlayers      int
	Locked          bool
	SelectedProfile string
	SelectedOutline string
}

// Registry owns every live minigame lobby and the game session running in
// each. The registry lock only guards the maps; each room serializes its own
// mutations behind its own mutex, so rooms never contend with each other.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	sessions map[string]session

	publisher core.Publisher
	logger    *zap.Logger
	timings   GameTimings

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewRegistry(publisher core.Publisher, logger *zap.Logger) *Registry {
	return &Registry{
		rooms:     make(map[string]*Room),
		sessions:  make(map[string]session),
		publisher: publisher,
		logger:    logger,
		timings:   DefaultGameTimings(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *Registry) CreateRoom(params CreateRoomParams) RoomState {
	host := &Player{
		UserID:          params.HostID,
		Username:        params.HostName,
		Level:           params.HostLevel,
		IsHost:          true,
		IsReady:         true,
		SelectedProfile: params.SelectedProfile,
		SelectedOutline: params.SelectedOutline,
	}

	room := &Room{
		id:         uuid.NewString(),
		name:       params.RoomName,
		variant:    params.Variant,
		hostID:     params.HostID,
		hostName:   params.HostName,
		maxPlayers: params.MaxPlayers,
		locked:     params.Locked,
		players:    []*Player{host},
	}

	r.mu.Lock()
	r.rooms[room.id] = room
	r.mu.Unlock()

	r.logger.Info("minigame room created",
		zap.String("room_id", room.id),
		zap.String("room_name", room.name),
		zap.String("variant", string(room.variant)))

	room.mu.Lock()
	defer room.mu.Unlock()
	return room.snapshotLocked()
}

func (r *Registry) room(roomID string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, found := r.rooms[roomID]
	return room, found
}

func (r *Registry) Get(roomID string) (RoomState, bool) {
	room, found := r.room(roomID)
	if !found {
		return RoomState{}, false
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	return room.snapshotLocked(), true
}

func (r *Registry) List() []RoomState {
	r.mu.RLock()
	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	r.mu.RUnlock()

	states := make([]RoomState, 0, len(rooms))
	for _, room := range rooms {
		room.mu.Lock()
		states = append(states, room.snapshotLocked())
		room.mu.Unlock()
	}
	return states
}

// Join admits a user to a room - as a player while capacity allows, as a
// spectator once the room is full. Joining a room you are already in changes
// nothing.
func (r *Registry) Join(roomID string, player Player) (RoomState, JoinStatus) {
	room, found := r.room(roomID)
	if !found {
		return RoomState{}, JoinRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if _, member := room.memberLocked(player.UserID); member {
		return room.snapshotLocked(), AlreadyInRoom
	}

	player.IsHost = false
	player.IsReady = false

	if len(room.players) < room.maxPlayers {
		p := player
		room.players = append(room.players, &p)
		return room.snapshotLocked(), JoinedAsPlayer
	}

	p := player
	room.spectators = append(room.spectators, &p)
	return room.snapshotLocked(), JoinedAsSpectator
}

// Leave removes a user from the room roster. When the departing user was the
// host, the earliest remaining player inherits the room; a host leaving an
// otherwise player-less room tears the room down along with any running
// session.
func (r *Registry) Leave(roomID, userID string) (RoomState, LeaveStatus) {
	r.mu.Lock()
	room, found := r.rooms[roomID]
	if !found {
		r.mu.Unlock()
		return RoomState{}, LeaveRoomNotFound
	}

	room.mu.Lock()

	room.players, _ = removePlayer(room.players, userID)
	room.spectators, _ = removePlayer(room.spectators, userID)

	if room.hostID == userID {
		if len(room.players) == 0 {
			state := room.snapshotLocked()
			delete(r.rooms, roomID)
			sess := r.sessions[roomID]
			delete(r.sessions, roomID)

			room.mu.Unlock()
			r.mu.Unlock()

			if sess != nil {
				sess.end("room closed")
			}

			r.logger.Info("minigame room deleted", zap.String("room_id", roomID))
			return state, RoomDeleted
		}

		newHost := room.players[0]
		newHost.IsHost = true
		room.hostID = newHost.UserID
		room.hostName = newHost.Username

		r.logger.Info("host migrated",
			zap.String("room_id", roomID),
			zap.String("new_host", newHost.UserID))
	}

	state := room.snapshotLocked()
	room.mu.Unlock()
	r.mu.Unlock()

	return state, LeftRoom
}

// SwitchRole moves a player to the spectator bench or a spectator into the
// roster. Spectator promotion fails when the room is full; stepping down is
// always allowed and clears the ready flag.
func (r *Registry) SwitchRole(roomID, userID string) (RoomState, bool) {
	room, found := r.room(roomID)
	if !found {
		return RoomState{}, false
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if players, moved := removePlayer(room.players, userID); moved != nil {
		room.players = players
		moved.IsReady = false
		room.spectators = append(room.spectators, moved)
		return room.snapshotLocked(), true
	}

	if len(room.players) >= room.maxPlayers {
		return RoomState{}, false
	}

	spectators, moved := removePlayer(room.spectators, userID)
	if moved == nil {
		return RoomState{}, false
	}

	room.spectators = spectators
	room.players = append(room.players, moved)
	return room.snapshotLocked(), true
}

// ToggleReady flips the ready flag for a current player. Spectators and
// unknown users leave the room untouched.
func (r *Registry) ToggleReady(roomID, userID string) (RoomState, bool) {
	room, found := r.room(roomID)
	if !found {
		return RoomState{}, false
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	for _, p := range room.players {
		if p.UserID == userID {
			p.IsReady = !p.IsReady
			break
		}
	}

	return room.snapshotLocked(), true
}

// UpdateSettings changes the variant and capacity in place. The current
// roster is not re-validated against the new capacity - a shrunk room only
// affects future joins and promotions.
func (r *Registry) UpdateSettings(roomID string, variant GameVariant, maxPlayers int) (RoomState, bool) {
	room, found := r.room(roomID)
	if !found {
		return RoomState{}, false
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	room.variant = variant
	room.maxPlayers = maxPlayers

	r.logger.Info("room settings updated",
		zap.String("room_id", roomID),
		zap.String("variant", string(variant)),
		zap.Int("max_players", maxPlayers))

	return room.snapshotLocked(), true
}

func (r *Registry) randFloat() float64 {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.Float64()
}

func (r *Registry) randDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return min + time.Duration(r.rng.Int63n(int64(max-min)))
}
