package minigame

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// JoinResult is the private acknowledgement sent back to the joiner on their
// join-result topic. Everyone else learns about the join from the room topic.
type JoinResult struct {
	RoomID string `json:"roomId"`
	Status string `json:"status"`
	Role   string `json:"role,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// JoinGameRoomCommand handles the "minigame.room.join" command. A full room
// admits the user as a spectator; only a missing room fails the join.
type JoinGameRoomCommand struct {
	RoomID          string `json:"roomId"`
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	Level           int    `json:"level"`
	SelectedProfile string `json:"selectedProfile"`
	SelectedOutline string `json:"selectedOutline"`
}

func (c JoinGameRoomCommand) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.UserID == "" {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	return nil
}

type JoinGameRoomCommandHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewJoinGameRoomCommandHandler(registry *Registry, publisher core.Publisher) *JoinGameRoomCommandHandler {
	return &JoinGameRoomCommandHandler{registry, publisher}
}

func (h *JoinGameRoomCommandHandler) Handle(
	ctx context.Context,
	request JoinGameRoomCommand,
) (JoinResult, error) {
	state, status := h.registry.Join(request.RoomID, Player{
		UserID:          request.UserID,
		Username:        request.Username,
		Level:           request.Level,
		SelectedProfile: request.SelectedProfile,
		SelectedOutline: request.SelectedOutline,
	})

	if status == JoinRoomNotFound {
		result := JoinResult{RoomID: request.RoomID, Status: "error", Reason: "room not found"}
		h.publisher.Publish(JoinResultTopic(request.UserID), result)
		return result, nil
	}

	role := "player"
	if status == JoinedAsSpectator {
		role = "spectator"
	}

	result := JoinResult{RoomID: request.RoomID, Status: "ok", Role: role}
	h.publisher.Publish(JoinResultTopic(request.UserID), result)

	if status == AlreadyInRoom {
		return result, nil
	}

	h.publisher.Publish(RoomTopic(request.RoomID), state.Stamped("join"))
	h.publisher.Publish(TopicRooms, state.Stamped("update"))
	return result, nil
}
