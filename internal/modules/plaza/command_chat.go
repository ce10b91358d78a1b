package plaza

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatCommand handles the "chat.message" command. The broadcast happens
// first and never waits on the database; the history insert runs on its own
// goroutine and a failed insert only costs the history row, not delivery.
type ChatCommand struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

func (c ChatCommand) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	if c.Message == "" {
		return fmt.Errorf("empty chat message")
	}

	return nil
}

type ChatCommandHandler struct {
	db        *sql.DB
	publisher core.Publisher
	logger    *zap.Logger
}

func NewChatCommandHandler(db *sql.DB, publisher core.Publisher, logger *zap.Logger) *ChatCommandHandler {
	return &ChatCommandHandler{db, publisher, logger}
}

func (h *ChatCommandHandler) Handle(
	ctx context.Context,
	request ChatCommand,
) (ChatMessage, error) {
	message := ChatMessage{
		ID:        uuid.NewString(),
		UserID:    request.UserID,
		Username:  request.Username,
		Message:   request.Message,
		CreatedAt: time.Now().UTC(),
	}

	h.publisher.Publish(TopicChat, message)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		const stmt = `
			INSERT INTO
				plaza_message (id, user_id, username, message, created_at)
			VALUES
				(:id, :user_id, :username, :message, :created_at);`
		if _, err := tql.Exec(ctx, h.db, stmt, message); err != nil {
			h.logger.Error("failed to persist chat message",
				zap.String("message_id", message.ID),
				zap.Error(err))
		}
	}()

	return message, nil
}
