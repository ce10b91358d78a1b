package personalroom

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// DeleteRoomCommand handles the "room.delete" plaza command. Deleting an
// unknown room is a no-op.
type DeleteRoomCommand struct {
	RoomID string `json:"roomId"`
}

func (c DeleteRoomCommand) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	return nil
}

type DeleteRoomCommandHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewDeleteRoomCommandHandler(registry *Registry, publisher core.Publisher) *DeleteRoomCommandHandler {
	return &DeleteRoomCommandHandler{registry, publisher}
}

func (h *DeleteRoomCommandHandler) Handle(
	ctx context.Context,
	request DeleteRoomCommand,
) (core.Unit, error) {
	room, found := h.registry.Delete(request.RoomID)
	if !found {
		return core.Unit{}, nil
	}

	h.publisher.Publish(TopicRooms, room)
	return core.Unit{}, nil
}
