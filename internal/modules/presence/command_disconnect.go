package presence

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
	"github.com/eskrenkovic/plaza-go/internal/modules/personalroom"

	"go.uber.org/zap"
)

// DisconnectCommand is issued by the transport when a connection closes. A
// connection that never completed a plaza join deregisters nothing.
type DisconnectCommand struct {
	ConnectionID string
}

func (c DisconnectCommand) Validate() error {
	if c.ConnectionID == "" {
		return fmt.Errorf("invalid ConnectionID - '%s'", c.ConnectionID)
	}

	return nil
}

type DisconnectCommandHandler struct {
	tracker         *Tracker
	rooms           *personalroom.Registry
	deleteOwnedRoom bool
	publisher       core.Publisher
	logger          *zap.Logger
}

func NewDisconnectCommandHandler(
	tracker *Tracker,
	rooms *personalroom.Registry,
	deleteOwnedRoom bool,
	publisher core.Publisher,
	logger *zap.Logger,
) *DisconnectCommandHandler {
	return &DisconnectCommandHandler{tracker, rooms, deleteOwnedRoom, publisher, logger}
}

func (h *DisconnectCommandHandler) Handle(
	ctx context.Context,
	request DisconnectCommand,
) (core.Unit, error) {
	identity, found := h.tracker.RemoveByConnection(request.ConnectionID)
	if !found {
		return core.Unit{}, nil
	}

	h.logger.Info("user disconnected",
		zap.String("user_id", identity.UserID),
		zap.Int("online_count", h.tracker.Count()))

	// Personal rooms outlive a disconnect by default so the host can
	// reconnect into their own room. The policy toggle restores the old
	// delete-on-disconnect behavior.
	if h.deleteOwnedRoom {
		if room, deleted := h.rooms.DeleteByHost(identity.UserID); deleted {
			h.publisher.Publish(personalroom.TopicRooms, room)
		}
	}

	h.publisher.Publish(TopicPlayers, newPlayerEvent(identity.UserID, identity.Username, "leave"))
	h.publisher.Publish(TopicOnlineCount, h.tracker.Count())

	return core.Unit{}, nil
}
