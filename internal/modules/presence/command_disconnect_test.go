package presence

import (
	"context"
	"sync"
	"testing"

	"github.com/eskrenkovic/plaza-go/internal/modules/personalroom"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	topic   string
	payload any
}

func (p *capturePublisher) Publish(topic string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{topic, payload})
}

func (p *capturePublisher) onTopic(topic string) []any {
	p.mu.Lock()
	defer p.mu.Unlock()

	var matched []any
	for _, e := range p.events {
		if e.topic == topic {
			matched = append(matched, e.payload)
		}
	}
	return matched
}

func disconnectFixture(deleteOwnedRoom bool) (*DisconnectCommandHandler, *Tracker, *personalroom.Registry, *capturePublisher) {
	tracker := NewTracker()
	rooms := personalroom.NewRegistry(zap.NewNop())
	publisher := &capturePublisher{}
	handler := NewDisconnectCommandHandler(tracker, rooms, deleteOwnedRoom, publisher, zap.NewNop())
	return handler, tracker, rooms, publisher
}

func Test_Disconnect_Keeps_The_Hosts_Room_By_Default(t *testing.T) {
	// Arrange
	handler, tracker, rooms, publisher := disconnectFixture(false)

	require.True(t, tracker.Add("u1", "alice", "conn-1"))
	_, created := rooms.Create(personalroom.Room{RoomID: "room-1", RoomName: "alice's room", HostID: "u1", HostName: "alice"})
	require.True(t, created)

	// Act
	_, err := handler.Handle(context.Background(), DisconnectCommand{ConnectionID: "conn-1"})

	// Assert - the room survives so the host can reconnect into it.
	require.NoError(t, err)

	_, found := rooms.ByHost("u1")
	require.True(t, found)
	require.Empty(t, publisher.onTopic(personalroom.TopicRooms))

	leaves := publisher.onTopic(TopicPlayers)
	require.Len(t, leaves, 1)
	require.Equal(t, "leave", leaves[0].(PlayerEvent).Action)

	counts := publisher.onTopic(TopicOnlineCount)
	require.Len(t, counts, 1)
	require.Equal(t, 0, counts[0])
}

func Test_Disconnect_Deletes_The_Hosts_Room_When_The_Policy_Is_On(t *testing.T) {
	// Arrange
	handler, tracker, rooms, publisher := disconnectFixture(true)

	require.True(t, tracker.Add("u1", "alice", "conn-1"))
	_, created := rooms.Create(personalroom.Room{RoomID: "room-1", RoomName: "alice's room", HostID: "u1", HostName: "alice"})
	require.True(t, created)

	// Act
	_, err := handler.Handle(context.Background(), DisconnectCommand{ConnectionID: "conn-1"})

	// Assert
	require.NoError(t, err)

	_, found := rooms.ByHost("u1")
	require.False(t, found)

	deleted := publisher.onTopic(personalroom.TopicRooms)
	require.Len(t, deleted, 1)
	require.Equal(t, "room-1", deleted[0].(personalroom.Room).RoomID)
	require.Equal(t, "delete", deleted[0].(personalroom.Room).Action)

	leaves := publisher.onTopic(TopicPlayers)
	require.Len(t, leaves, 1)
	require.Equal(t, "leave", leaves[0].(PlayerEvent).Action)
}

func Test_Disconnect_For_An_Unknown_Connection_Is_A_NoOp(t *testing.T) {
	// Arrange
	handler, _, rooms, publisher := disconnectFixture(true)

	_, created := rooms.Create(personalroom.Room{RoomID: "room-1", HostID: "u1", HostName: "alice"})
	require.True(t, created)

	// Act
	_, err := handler.Handle(context.Background(), DisconnectCommand{ConnectionID: "never-joined"})

	// Assert - nothing deregistered, nothing broadcast.
	require.NoError(t, err)
	require.Empty(t, publisher.events)

	_, found := rooms.Get("room-1")
	require.True(t, found)
}
