package minigame

import (
	"fmt"
	"sync"
	"time"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// GameVariant selects which session state machine a room runs. Fixed at room
// creation, switchable through room.update while in the lobby.
type GameVariant string

const (
	VariantAiming   GameVariant = "aim"
	VariantReaction GameVariant = "reaction"
	VariantOmok     GameVariant = "omok"
)

func ParseVariant(raw string) (GameVariant, error) {
	switch GameVariant(raw) {
	case VariantAiming, VariantReaction, VariantOmok:
		return GameVariant(raw), nil
	default:
		return "", fmt.Errorf("unknown game variant - '%s'", raw)
	}
}

type Player struct {
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	Level           int    `json:"level"`
	IsHost          bool   `json:"isHost"`
	IsReady         bool   `json:"isReady"`
	SelectedProfile string `json:"selectedProfile,omitempty"`
	SelectedOutline string `json:"selectedOutline,omitempty"`
}

// Room is a minigame lobby. The ordered players slice doubles as the host
// succession line - the earliest still-present player inherits the room.
// Spectators are unbounded; only players count against maxPlayers.
type Room struct {
	mu sync.Mutex

	id         string
	name       string
	variant    GameVariant
	hostID     string
	hostName   string
	maxPlayers int
	locked     bool
	playing    bool
	players    []*Player
	spectators []*Player
}

// RoomState is a point-in-time copy of a room, safe to serialize and
// broadcast while the room keeps mutating.
type RoomState struct {
	RoomID         string      `json:"roomId"`
	RoomName       string      `json:"roomName"`
	GameVariant    GameVariant `json:"gameVariant"`
	HostID         string      `json:"hostId"`
	HostName       string      `json:"hostName"`
	MaxPlayers     int         `json:"maxPlayers"`
	Locked         bool        `json:"locked"`
	Playing        bool        `json:"playing"`
	CurrentPlayers int         `json:"currentPlayers"`
	Players        []Player    `json:"players"`
	Spectators     []Player    `json:"spectators"`

	Action    string `json:"action,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Stamped returns the state annotated with the action that produced it.
func (s RoomState) Stamped(action string) RoomState {
	s.Action = action
	s.Timestamp = time.Now().UnixMilli()
	return s
}

// snapshotLocked copies the room into a RoomState. Callers hold r.mu.
func (r *Room) snapshotLocked() RoomState {
	deref := func(p *Player) Player { return *p }
	players := core.Map(r.players, deref)
	spectators := core.Map(r.spectators, deref)

	return RoomState{
		RoomID:         r.id,
		RoomName:       r.name,
		GameVariant:    r.variant,
		HostID:         r.hostID,
		HostName:       r.hostName,
		MaxPlayers:     r.maxPlayers,
		Locked:         r.locked,
		Playing:        r.playing,
		CurrentPlayers: len(r.players),
		Players:        players,
		Spectators:     spectators,
	}
}

func (r *Room) memberLocked(userID string) (*Player, bool) {
	for _, p := range r.players {
		if p.UserID == userID {
			return p, true
		}
	}
	for _, p := range r.spectators {
		if p.UserID == userID {
			return p, true
		}
	}
	return nil, false
}

func removePlayer(list []*Player, userID string) ([]*Player, *Player) {
	for i, p := range list {
		if p.UserID == userID {
			return append(list[:i], list[i+1:]...), p
		}
	}
	return list, nil
}
