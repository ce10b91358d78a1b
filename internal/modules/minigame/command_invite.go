package minigame

import (
	"context"
	"fmt"
	"time"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// Invite is the payload delivered to the invitee's private invite topic.
type Invite struct {
	RoomID     string `json:"roomId"`
	RoomName   string `json:"roomName"`
	FromUserID string `json:"fromUserId"`
	FromName   string `json:"fromName"`
	Timestamp  int64  `json:"timestamp"`
}

// InviteCommand handles the "minigame.invite" command. An invite into a room
// that no longer exists is dropped rather than delivered dangling.
type InviteCommand struct {
	RoomID       string `json:"roomId"`
	FromUserID   string `json:"fromUserId"`
	FromName     string `json:"fromName"`
	TargetUserID string `json:"targetUserId"`
}

func (c InviteCommand) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.TargetUserID == "" {
		return fmt.Errorf("invalid TargetUserID - '%s'", c.TargetUserID)
	}

	return nil
}

type InviteCommandHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewInviteCommandHandler(registry *Registry, publisher core.Publisher) *InviteCommandHandler {
	return &InviteCommandHandler{registry, publisher}
}

func (h *InviteCommandHandler) Handle(
	ctx context.Context,
	request InviteCommand,
) (core.Unit, error) {
	state, found := h.registry.Get(request.RoomID)
	if !found {
		return core.Unit{}, nil
	}

	h.publisher.Publish(InviteTopic(request.TargetUserID), Invite{
		RoomID:     state.RoomID,
		RoomName:   state.RoomName,
		FromUserID: request.FromUserID,
		FromName:   request.FromName,
		Timestamp:  time.Now().UnixMilli(),
	})

	return core.Unit{}, nil
}
