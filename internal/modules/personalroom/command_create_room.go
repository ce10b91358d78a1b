package personalroom

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// CreateRoomCommand handles the "room.create" plaza command. Creation is
// idempotent per room id; the created room is announced on the rooms topic.
type CreateRoomCommand struct {
	RoomID   string   `json:"roomId"`
	RoomName string   `json:"roomName"`
	HostID   string   `json:"hostId"`
	HostName string   `json:"hostName"`
	GpsLng   *float64 `json:"gpsLng"`
	GpsLat   *float64 `json:"gpsLat"`
}

func (c CreateRoomCommand) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.HostID == "" {
		return fmt.Errorf("invalid HostID - '%s'", c.HostID)
	}

	return nil
}

type CreateRoomCommandHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewCreateRoomCommandHandler(registry *Registry, publisher core.Publisher) *CreateRoomCommandHandler {
	return &CreateRoomCommandHandler{registry, publisher}
}

func (h *CreateRoomCommandHandler) Handle(
	ctx context.Context,
	request CreateRoomCommand,
) (Room, error) {
	room, ok := h.registry.Create(Room{
		RoomID:   request.RoomID,
		RoomName: request.RoomName,
		HostID:   request.HostID,
		HostName: request.HostName,
		GpsLng:   request.GpsLng,
		GpsLat:   request.GpsLat,
	})
	if !ok {
		return Room{}, core.NewCommandError(400, fmt.Errorf("invalid room data"))
	}

	h.publisher.Publish(TopicRooms, room)
	return room, nil
}
