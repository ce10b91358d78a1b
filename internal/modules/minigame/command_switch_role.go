package minigame

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// SwitchRoleCommand handles the "minigame.room.switchRole" command. Stepping down
// to spectator always succeeds; taking a seat fails when the room is full.
type SwitchRoleCommand struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

func (c SwitchRoleCommand) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.UserID == "" {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	return nil
}

type SwitchRoleCommandHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewSwitchRoleCommandHandler(registry *Registry, publisher core.Publisher) *SwitchRoleCommandHandler {
	return &SwitchRoleCommandHandler{registry, publisher}
}

func (h *SwitchRoleCommandHandler) Handle(
	ctx context.Context,
	request SwitchRoleCommand,
) (RoomState, error) {
	state, switched := h.registry.SwitchRole(request.RoomID, request.UserID)
	if !switched {
		return RoomState{}, core.NewCommandError(
			409,
			fmt.Errorf("cannot switch role in room '%s'", request.RoomID),
			core.WithReason("room full"),
		)
	}

	h.publisher.Publish(RoomTopic(request.RoomID), state.Stamped("switchRole"))
	h.publisher.Publish(TopicRooms, state.Stamped("update"))
	return state, nil
}
