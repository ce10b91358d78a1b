package plaza_test

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"github.com/eskrenkovic/plaza-go/internal/modules/plaza"
	"github.com/eskrenkovic/plaza-go/internal/test"

	"github.com/eskrenkovic/migrate-go"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var db *sql.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	fixture, err := test.NewLocalTestFixture(ctx)
	if err != nil {
		log.Fatal(err)
	}

	db, err = sql.Open("postgres", fixture.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := migrate.Run(ctx, db, "../../db/migrations"); err != nil {
		log.Fatal(err)
	}

	m.Run()

	if err := fixture.Stop(ctx); err != nil {
		log.Fatal(err)
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(topic string, payload any) {}

func Test_Chat_Message_Ends_Up_In_History(t *testing.T) {
	// Arrange
	handler := plaza.NewChatCommandHandler(db, nopPublisher{}, zap.NewNop())
	queryHandler := plaza.NewGetRecentMessagesQueryHandler(db)

	// Act
	message, err := handler.Handle(context.Background(), plaza.ChatCommand{
		UserID:   "user-1",
		Username: "tester",
		Message:  "hello plaza",
	})

	// Assert
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		messages, err := queryHandler.Handle(context.Background(), plaza.GetRecentMessagesQuery{Limit: 10})
		if err != nil {
			return false
		}

		for _, m := range messages {
			if m.ID == message.ID {
				return true
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond)
}

func Test_Recent_Messages_Come_Back_Oldest_First(t *testing.T) {
	// Arrange
	handler := plaza.NewChatCommandHandler(db, nopPublisher{}, zap.NewNop())
	queryHandler := plaza.NewGetRecentMessagesQueryHandler(db)

	first, err := handler.Handle(context.Background(), plaza.ChatCommand{
		UserID: "user-2", Username: "tester", Message: "first",
	})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	second, err := handler.Handle(context.Background(), plaza.ChatCommand{
		UserID: "user-2", Username: "tester", Message: "second",
	})
	require.NoError(t, err)

	// Act / Assert
	require.Eventually(t, func() bool {
		messages, err := queryHandler.Handle(context.Background(), plaza.GetRecentMessagesQuery{Limit: 100})
		if err != nil {
			return false
		}

		firstIdx, secondIdx := -1, -1
		for i, m := range messages {
			if m.ID == first.ID {
				firstIdx = i
			}
			if m.ID == second.ID {
				secondIdx = i
			}
		}
		return firstIdx != -1 && secondIdx != -1 && firstIdx < secondIdx
	}, 5*time.Second, 50*time.Millisecond)
}
