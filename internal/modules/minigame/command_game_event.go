package minigame

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// GameEventCommand wraps an inbound room.game event. Routing and arbitration
// live in the session engines; events for dead rooms or sessions are dropped
// without error so late packets from a finished game cannot fault anything.
type GameEventCommand struct {
	Event GameEvent
}

func (c GameEventCommand) Validate() error {
	if c.Event.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", c.Event.RoomID)
	}

	if c.Event.Type == "" {
		return fmt.Errorf("invalid event type - '%s'", c.Event.Type)
	}

	return nil
}

type GameEventCommandHandler struct {
	registry *Registry
}

func NewGameEventCommandHandler(registry *Registry) *GameEventCommandHandler {
	return &GameEventCommandHandler{registry}
}

func (h *GameEventCommandHandler) Handle(
	ctx context.Context,
	request GameEventCommand,
) (core.Unit, error) {
	h.registry.HandleGameEvent(request.Event)
	return core.Unit{}, nil
}
