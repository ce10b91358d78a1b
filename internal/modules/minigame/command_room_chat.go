package minigame

import (
	"context"
	"fmt"
	"time"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// RoomChatMessage is a chat line scoped to one room.
type RoomChatMessage struct {
	RoomID    string `json:"roomId"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// RoomChatCommand handles the "minigame.room.chat" command. Pure relay;
// nothing about room chat is persisted.
type RoomChatCommand struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

func (c RoomChatCommand) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.UserID == "" {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	if c.Message == "" {
		return fmt.Errorf("empty chat message")
	}

	return nil
}

type RoomChatCommandHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewRoomChatCommandHandler(registry *Registry, publisher core.Publisher) *RoomChatCommandHandler {
	return &RoomChatCommandHandler{registry, publisher}
}

func (h *RoomChatCommandHandler) Handle(
	ctx context.Context,
	request RoomChatCommand,
) (core.Unit, error) {
	if _, found := h.registry.Get(request.RoomID); !found {
		return core.Unit{}, nil
	}

	h.publisher.Publish(ChatTopic(request.RoomID), RoomChatMessage{
		RoomID:    request.RoomID,
		UserID:    request.UserID,
		Username:  request.Username,
		Message:   request.Message,
		Timestamp: time.Now().UnixMilli(),
	})

	return core.Unit{}, nil
}
