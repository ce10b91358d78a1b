package minigame

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// ToggleReadyCommand handles the "minigame.room.ready" command. Only seated
// players have a ready flag; a spectator toggling is a no-op that still
// rebroadcasts the room.
type ToggleReadyCommand struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

func (c ToggleReadyCommand) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.UserID == "" {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	return nil
}

type ToggleReadyCommandHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewToggleReadyCommandHandler(registry *Registry, publisher core.Publisher) *ToggleReadyCommandHandler {
	return &ToggleReadyCommandHandler{registry, publisher}
}

func (h *ToggleReadyCommandHandler) Handle(
	ctx context.Context,
	request ToggleReadyCommand,
) (RoomState, error) {
	state, found := h.registry.ToggleReady(request.RoomID, request.UserID)
	if !found {
		return RoomState{}, core.NewCommandError(404, fmt.Errorf("room '%s' not found", request.RoomID))
	}

	h.publisher.Publish(RoomTopic(request.RoomID), state.Stamped("ready"))
	return state, nil
}
