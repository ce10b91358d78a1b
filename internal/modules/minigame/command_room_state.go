package minigame

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// RoomStateCommand handles the "minigame.room.state" command, used by clients
// that reconnect mid-game. The lobby state goes to the room topic and any
// running session rebroadcasts its sync snapshot.
type RoomStateCommand struct {
	RoomID string `json:"roomId"`
}

func (c RoomStateCommand) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	return nil
}

type RoomStateCommandHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewRoomStateCommandHandler(registry *Registry, publisher core.Publisher) *RoomStateCommandHandler {
	return &RoomStateCommandHandler{registry, publisher}
}

func (h *RoomStateCommandHandler) Handle(
	ctx context.Context,
	request RoomStateCommand,
) (RoomState, error) {
	state, found := h.registry.Get(request.RoomID)
	if !found {
		return RoomState{}, core.NewCommandError(404, fmt.Errorf("room '%s' not found", request.RoomID))
	}

	h.publisher.Publish(RoomTopic(request.RoomID), state.Stamped("sync"))
	h.registry.PublishState(request.RoomID)
	return state, nil
}
