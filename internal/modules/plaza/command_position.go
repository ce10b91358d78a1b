package plaza

import (
	"context"
	"fmt"
	"time"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"
)

// PositionCommand handles the "player.position" command. Pure relay; the
// server keeps no avatar positions.
type PositionCommand struct {
	UserID    string  `json:"userId"`
	Username  string  `json:"username"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction string  `json:"direction"`
	State     string  `json:"state"`
}

func (c PositionCommand) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	return nil
}

type PositionCommandHandler struct {
	publisher core.Publisher
}

func NewPositionCommandHandler(publisher core.Publisher) *PositionCommandHandler {
	return &PositionCommandHandler{publisher}
}

func (h *PositionCommandHandler) Handle(
	ctx context.Context,
	request PositionCommand,
) (core.Unit, error) {
	h.publisher.Publish(TopicPositions, Position{
		UserID:    request.UserID,
		Username:  request.Username,
		X:         request.X,
		Y:         request.Y,
		Direction: request.Direction,
		State:     request.State,
		Timestamp: time.Now().UnixMilli(),
	})

	return core.Unit{}, nil
}
