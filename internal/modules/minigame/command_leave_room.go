package minigame

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// LeaveGameRoomCommand handles the "minigame.room.leave" command. Host
// departure either migrates the room to the earliest remaining player or, with
// nobody left to inherit, deletes it.
type LeaveGameRoomCommand struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

func (c LeaveGameRoomCommand) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.UserID == "" {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	return nil
}

type LeaveGameRoomCommandHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewLeaveGameRoomCommandHandler(registry *Registry, publisher core.Publisher) *LeaveGameRoomCommandHandler {
	return &LeaveGameRoomCommandHandler{registry, publisher}
}

func (h *LeaveGameRoomCommandHandler) Handle(
	ctx context.Context,
	request LeaveGameRoomCommand,
) (core.Unit, error) {
	state, status := h.registry.Leave(request.RoomID, request.UserID)

	switch status {
	case LeaveRoomNotFound:
		return core.Unit{}, nil
	case RoomDeleted:
		h.publisher.Publish(TopicRooms, state.Stamped("delete"))
	default:
		h.publisher.Publish(RoomTopic(request.RoomID), state.Stamped("leave"))
		h.publisher.Publish(TopicRooms, state.Stamped("update"))
	}

	return core.Unit{}, nil
}
