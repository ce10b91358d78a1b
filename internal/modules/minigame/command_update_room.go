package minigame

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// UpdateGameRoomCommand handles the "minigame.room.update" command. The
// variant and capacity change in place; a shrunk capacity never ejects anyone
// already seated.
type UpdateGameRoomCommand struct {
	RoomID      string `json:"roomId"`
	GameVariant string `json:"gameVariant"`
	MaxPlayers  int    `json:"maxPlayers"`
}

func (c UpdateGameRoomCommand) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.MaxPlayers < 1 {
		return fmt.Errorf("invalid MaxPlayers - %d", c.MaxPlayers)
	}

	if _, err := ParseVariant(c.GameVariant); err != nil {
		return err
	}

	return nil
}

type UpdateGameRoomCommandHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewUpdateGameRoomCommandHandler(registry *Registry, publisher core.Publisher) *UpdateGameRoomCommandHandler {
	return &UpdateGameRoomCommandHandler{registry, publisher}
}

func (h *UpdateGameRoomCommandHandler) Handle(
	ctx context.Context,
	request UpdateGameRoomCommand,
) (RoomState, error) {
	variant, err := ParseVariant(request.GameVariant)
	if err != nil {
		return RoomState{}, core.NewCommandError(400, err)
	}

	state, found := h.registry.UpdateSettings(request.RoomID, variant, request.MaxPlayers)
	if !found {
		return RoomState{}, core.NewCommandError(404, fmt.Errorf("room '%s' not found", request.RoomID))
	}

	h.publisher.Publish(RoomTopic(request.RoomID), state.Stamped("update"))
	h.publisher.Publish(TopicRooms, state.Stamped("update"))
	return state, nil
}
