package minigame

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// CreateGameRoomCommand handles the "minigame.room.create" command. The host
// enters their own room ready and the new lobby is announced to the browser.
type CreateGameRoomCommand struct {
	RoomName        string `json:"roomName"`
	GameVariant     string `json:"gameVariant"`
	HostID          string `json:"hostId"`
	HostName        string `json:"hostName"`
	HostLevel       int    `json:"hostLevel"`
	MaxPlayers      int    `json:"maxPlayers"`
	Locked          bool   `json:"locked"`
	SelectedProfile string `json:"selectedProfile"`
	SelectedOutline string `json:"selectedOutline"`
}

func (c CreateGameRoomCommand) Validate() error {
	if c.HostID == "" {
		return fmt.Errorf("invalid HostID - '%s'", c.HostID)
	}

	if c.RoomName == "" {
		return fmt.Errorf("invalid RoomName - '%s'", c.RoomName)
	}

	if c.MaxPlayers < 1 {
		return fmt.Errorf("invalid MaxPlayers - %d", c.MaxPlayers)
	}

	if _, err := ParseVariant(c.GameVariant); err != nil {
		return err
	}

	return nil
}

type CreateGameRoomCommandHandler struct {
	registry  *Registry
	publisher core.Publisher
}

func NewCreateGameRoomCommandHandler(registry *Registry, publisher core.Publisher) *CreateGameRoomCommandHandler {
	return &CreateGameRoomCommandHandler{registry, publisher}
}

func (h *CreateGameRoomCommandHandler) Handle(
	ctx context.Context,
	request CreateGameRoomCommand,
) (RoomState, error) {
	variant, err := ParseVariant(request.GameVariant)
	if err != nil {
		return RoomState{}, core.NewCommandError(400, err)
	}

	state := h.registry.CreateRoom(CreateRoomParams{
		RoomName:        request.RoomName,
		Variant:         variant,
		HostID:          request.HostID,
		HostName:        request.HostName,
		HostLevel:       request.HostLevel,
		MaxPlayers:      request.MaxPlayers,
		Locked:          request.Locked,
		SelectedProfile: request.SelectedProfile,
		SelectedOutline: request.SelectedOutline,
	})

	h.publisher.Publish(TopicRooms, state.Stamped("create"))
	return state, nil
}
