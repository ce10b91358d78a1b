package presence

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"

	"go.uber.org/zap"
)

// JoinPlazaCommand handles the "player.join" command. A user already holding
// an active connection is rejected - the original mapping stays as it was and
// a "duplicate" announcement goes out instead of a join.
type JoinPlazaCommand struct {
	ConnectionID string `json:"-"`
	UserID       string `json:"userId"`
	Username     string `json:"username"`
}

func (c JoinPlazaCommand) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	if c.ConnectionID == "" {
		return fmt.Errorf("invalid ConnectionID - '%s'", c.ConnectionID)
	}

	return nil
}

type JoinPlazaCommandHandler struct {
	tracker   *Tracker
	publisher core.Publisher
	logger    *zap.Logger
}

func NewJoinPlazaCommandHandler(
	tracker *Tracker,
	publisher core.Publisher,
	logger *zap.Logger,
) *JoinPlazaCommandHandler {
	return &JoinPlazaCommandHandler{tracker, publisher, logger}
}

func (h *JoinPlazaCommandHandler) Handle(
	ctx context.Context,
	request JoinPlazaCommand,
) (PlayerEvent, error) {
	if !h.tracker.Add(request.UserID, request.Username, request.ConnectionID) {
		h.logger.Warn("duplicate login attempt", zap.String("user_id", request.UserID))

		event := newPlayerEvent(request.UserID, request.Username, "duplicate")
		h.publisher.Publish(TopicPlayers, event)
		return event, nil
	}

	event := newPlayerEvent(request.UserID, request.Username, "join")
	h.publisher.Publish(TopicPlayers, event)
	h.publisher.Publish(TopicOnlineCount, h.tracker.Count())

	h.logger.Info("user joined plaza",
		zap.String("user_id", request.UserID),
		zap.Int("online_count", h.tracker.Count()))

	return event, nil
}
