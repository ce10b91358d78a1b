package personalroom

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Topic carrying every personal-room lifecycle broadcast.
const TopicRooms = "rooms"

const earthRadiusKm = 6371

// Room is a long-lived, host-owned plaza room. Geo coordinates are optional -
// a room without them is treated as global and shows up in every proximity
// query.
type Room struct {
	RoomID   string   `json:"roomId"`
	RoomName string   `json:"roomName"`
	HostID   string   `json:"hostId"`
	HostName string   `json:"hostName"`
	GpsLng   *float64 `json:"gpsLng,omitempty"`
	GpsLat   *float64 `json:"gpsLat,omitempty"`

	Action    string `json:"action,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Registry holds the active personal rooms. One room per host - creating a
// second one evicts the first.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]Room   // roomID -> room
	hostToRoom map[string]string // hostID -> roomID
	logger     *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		rooms:      make(map[string]Room),
		hostToRoom: make(map[string]string),
		logger:     logger,
	}
}

// Create inserts a room. Creating an id that already exists returns the
// existing room unchanged. A host creating a different room loses their old
// one first.
func (r *Registry) Create(room Room) (Room, bool) {
	if room.RoomID == "" {
		return Room{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, found := r.rooms[room.RoomID]; found {
		return existing, true
	}

	if room.HostID != "" {
		if oldRoomID, found := r.hostToRoom[room.HostID]; found {
			r.logger.Warn("host already owns a room, evicting",
				zap.String("host_id", room.HostID),
				zap.String("evicted_room_id", oldRoomID))
			r.deleteLocked(oldRoomID)
		}
	}

	room.Action = "create"
	room.Timestamp = time.Now().UnixMilli()

	r.rooms[room.RoomID] = room
	if room.HostID != "" {
		r.hostToRoom[room.HostID] = room.RoomID
	}

	r.logger.Info("personal room created",
		zap.String("room_id", room.RoomID),
		zap.String("room_name", room.RoomName),
		zap.String("host_id", room.HostID))

	return room, true
}

// Delete removes a room and returns it stamped with the delete action.
func (r *Registry) Delete(roomID string) (Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.deleteLocked(roomID)
}

func (r *Registry) deleteLocked(roomID string) (Room, bool) {
	room, found := r.rooms[roomID]
	if !found {
		return Room{}, false
	}

	delete(r.rooms, roomID)
	if room.HostID != "" {
		delete(r.hostToRoom, room.HostID)
	}

	room.Action = "delete"
	room.Timestamp = time.Now().UnixMilli()

	r.logger.Info("personal room deleted", zap.String("room_id", roomID))
	return room, true
}

func (r *Registry) Get(roomID string) (Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, found := r.rooms[roomID]
	return room, found
}

func (r *Registry) ByHost(hostID string) (Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomID, found := r.hostToRoom[hostID]
	if !found {
		return Room{}, false
	}

	room, found := r.rooms[roomID]
	return room, found
}

// DeleteByHost removes the room owned by a host, if any. Used by the
// disconnect cleanup path when the deletion policy is enabled.
func (r *Registry) DeleteByHost(hostID string) (Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, found := r.hostToRoom[hostID]
	if !found {
		return Room{}, false
	}

	return r.deleteLocked(roomID)
}

func (r *Registry) List() []Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

// Nearby returns rooms within radiusKm of the query point. Rooms without
// coordinates are global and always included.
func (r *Registry) Nearby(lng, lat, radiusKm float64) []Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nearby := make([]Room, 0)
	for _, room := range r.rooms {
		if room.GpsLng == nil || room.GpsLat == nil {
			nearby = append(nearby, room)
			continue
		}

		if haversineKm(lat, lng, *room.GpsLat, *room.GpsLng) <= radiusKm {
			nearby = append(nearby, room)
		}
	}
	return nearby
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	latDelta := toRadians(lat2 - lat1)
	lngDelta := toRadians(lng2 - lng1)

	a := math.Sin(latDelta/2)*math.Sin(latDelta/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(lngDelta/2)*math.Sin(lngDelta/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
