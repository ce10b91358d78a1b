package minigame

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// StartGameCommand handles the "minigame.room.start" command. Starting an
// already-playing room changes nothing.
type StartGameCommand struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

func (c StartGameCommand) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	return nil
}

type StartGameCommandHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewStartGameCommandHandler(registry *Registry, publisher core.Publisher) *StartGameCommandHandler {
	return &StartGameCommandHandler{registry, publisher}
}

func (h *StartGameCommandHandler) Handle(
	ctx context.Context,
	request StartGameCommand,
) (RoomState, error) {
	state, started := h.registry.StartGame(request.RoomID)
	if state.RoomID == "" {
		return RoomState{}, core.NewCommandError(404, fmt.Errorf("room '%s' not found", request.RoomID))
	}

	if started {
		h.publisher.Publish(RoomTopic(request.RoomID), state.Stamped("start"))
		h.publisher.Publish(TopicRooms, state.Stamped("update"))
	}

	return state, nil
}
