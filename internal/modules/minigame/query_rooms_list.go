package minigame

import (
	"context"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// ListGameRoomsQuery handles the "minigame.rooms.list" command. The full
// snapshot goes out on the rooms-list topic so the lobby browser renders from
// one message.
type ListGameRoomsQuery struct{}

type ListGameRoomsQueryHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewListGameRoomsQueryHandler(registry *Registry, publisher core.Publisher) *ListGameRoomsQueryHandler {
	return &ListGameRoomsQueryHandler{registry, publisher}
}

func (h *ListGameRoomsQueryHandler) Handle(
	ctx context.Context,
	request ListGameRoomsQuery,
) ([]RoomState, error) {
	states := h.registry.List()
	h.publisher.Publish(TopicRoomsList, states)
	return states, nil
}
