package minigame

import (
	"sync"
	"testing"
	"time"

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

func (p *capturePublisher) gameEvents(eventType string) []GameEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	var matched []GameEvent
	for _, e := range p.events {
		if event, ok := e.payload.(GameEvent); ok && event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func testRegistry() (*Registry, *capturePublisher) {
	publisher := &capturePublisher{}
	registry := NewRegistry(publisher, zap.NewNop())
	registry.timings = GameTimings{
		SettleDelay:    5 * time.Millisecond,
		TargetDuration: 50 * time.Millisecond,
		ReactionGoMin:  20 * time.Millisecond,
		ReactionGoMax:  30 * time.Millisecond,
		ReactionWindow: 80 * time.Millisecond,
	}
	return registry, publisher
}

func Test_Join_Fills_Seats_Then_Overflows_To_Spectators(t *testing.T) {
	// Arrange
	registry, _ := testRegistry()
	state := registry.CreateRoom(CreateRoomParams{
		RoomName: "aim time", Variant: VariantAiming,
		HostID: "host", HostName: "host", MaxPlayers: 2,
	})

	// Act
	_, second := registry.Join(state.RoomID, Player{UserID: "p2", Username: "p2"})
	third, thirdStatus := registry.Join(state.RoomID, Player{UserID: "p3", Username: "p3"})

	// Assert
	require.Equal(t, JoinedAsPlayer, second)
	require.Equal(t, JoinedAsSpectator, thirdStatus)
	require.Equal(t, 2, third.CurrentPlayers)
	require.Len(t, third.Spectators, 1)
	require.Equal(t, "p3", third.Spectators[0].UserID)
}

func Test_Joining_A_Room_Twice_Changes_Nothing(t *testing.T) {
	// Arrange
	registry, _ := testRegistry()
	state := registry.CreateRoom(CreateRoomParams{
		RoomName: "aim time", Variant: VariantAiming,
		HostID: "host", HostName: "host", MaxPlayers: 4,
	})

	_, first := registry.Join(state.RoomID, Player{UserID: "p2", Username: "p2"})
	require.Equal(t, JoinedAsPlayer, first)

	// Act
	again, status := registry.Join(state.RoomID, Player{UserID: "p2", Username: "p2"})

	// Assert
	require.Equal(t, AlreadyInRoom, status)
	require.Equal(t, 2, again.CurrentPlayers)
}

func Test_Join_Unknown_Room_Reports_Not_Found(t *testing.T) {
	// Arrange
	registry, _ := testRegistry()

	// Act
	_, status := registry.Join("missing", Player{UserID: "p1"})

	// Assert
	require.Equal(t, JoinRoomNotFound, status)
}

func Test_Spectator_Promotion_Denied_While_Room_Is_Full(t *testing.T) {
	// Arrange
	registry, _ := testRegistry()
	state := registry.CreateRoom(CreateRoomParams{
		RoomName: "aim time", Variant: VariantAiming,
		HostID: "host", HostName: "host", MaxPlayers: 2,
	})

	registry.Join(state.RoomID, Player{UserID: "p2"})
	_, status := registry.Join(state.RoomID, Player{UserID: "p3"})
	require.Equal(t, JoinedAsSpectator, status)

	// Act
	_, promoted := registry.SwitchRole(state.RoomID, "p3")

	// Assert
	require.False(t, promoted)
}

func Test_Player_Stepping_Down_Always_Succeeds_And_Clears_Ready(t *testing.T) {
	// Arrange
	registry, _ := testRegistry()
	state := registry.CreateRoom(CreateRoomParams{
		RoomName: "aim time", Variant: VariantAiming,
		HostID: "host", HostName: "host", MaxPlayers: 2,
	})

	registry.Join(state.RoomID, Player{UserID: "p2"})
	ready, found := registry.ToggleReady(state.RoomID, "p2")
	require.True(t, found)
	require.True(t, ready.Players[1].IsReady)

	// Act
	after, switched := registry.SwitchRole(state.RoomID, "p2")

	// Assert
	require.True(t, switched)
	require.Equal(t, 1, after.CurrentPlayers)
	require.Len(t, after.Spectators, 1)
	require.False(t, after.Spectators[0].IsReady)
}

func Test_Host_Leaving_Promotes_The_Earliest_Player(t *testing.T) {
	// Arrange
	registry, _ := testRegistry()
	state := registry.CreateRoom(CreateRoomParams{
		RoomName: "aim time", Variant: VariantAiming,
		HostID: "host", HostName: "host", MaxPlayers: 4,
	})

	registry.Join(state.RoomID, Player{UserID: "p2", Username: "second"})
	registry.Join(state.RoomID, Player{UserID: "p3", Username: "third"})

	// Act
	after, status := registry.Leave(state.RoomID, "host")

	// Assert
	require.Equal(t, LeftRoom, status)
	require.Equal(t, "p2", after.HostID)
	require.Equal(t, "second", after.HostName)
	require.True(t, after.Players[0].IsHost)
}

func Test_Host_Leaving_An_Empty_Room_Deletes_It(t *testing.T) {
	// Arrange
	registry, _ := testRegistry()
	state := registry.CreateRoom(CreateRoomParams{
		RoomName: "aim time", Variant: VariantAiming,
		HostID: "host", HostName: "host", MaxPlayers: 4,
	})

	registry.Join(state.RoomID, Player{UserID: "spec"})
	_, switched := registry.SwitchRole(state.RoomID, "spec")
	require.True(t, switched)

	// Act
	_, status := registry.Leave(state.RoomID, "host")

	// Assert
	require.Equal(t, RoomDeleted, status)

	_, found := registry.Get(state.RoomID)
	require.False(t, found)
}

func Test_Deleting_A_Room_Ends_Its_Running_Session(t *testing.T) {
	// Arrange
	registry, publisher := testRegistry()
	state := registry.CreateRoom(CreateRoomParams{
		RoomName: "aim time", Variant: VariantAiming,
		HostID: "host", HostName: "host", MaxPlayers: 4,
	})

	_, started := registry.StartGame(state.RoomID)
	require.True(t, started)

	// Act
	_, status := registry.Leave(state.RoomID, "host")

	// Assert
	require.Equal(t, RoomDeleted, status)
	require.Len(t, publisher.gameEvents(EventGameEnd), 1)

	registry.mu.RLock()
	_, sessionAlive := registry.sessions[state.RoomID]
	registry.mu.RUnlock()
	require.False(t, sessionAlive)
}

func Test_ToggleReady_Ignores_Spectators(t *testing.T) {
	// Arrange
	registry, _ := testRegistry()
	state := registry.CreateRoom(CreateRoomParams{
		RoomName: "aim time", Variant: VariantAiming,
		HostID: "host", HostName: "host", MaxPlayers: 1,
	})

	_, status := registry.Join(state.RoomID, Player{UserID: "spec"})
	require.Equal(t, JoinedAsSpectator, status)

	// Act
	after, found := registry.ToggleReady(state.RoomID, "spec")

	// Assert
	require.True(t, found)
	require.False(t, after.Spectators[0].IsReady)
}

func Test_UpdateSettings_Keeps_The_Current_Roster(t *testing.T) {
	// Arrange
	registry, _ := testRegistry()
	state := registry.CreateRoom(CreateRoomParams{
		RoomName: "aim time", Variant: VariantAiming,
		HostID: "host", HostName: "host", MaxPlayers: 4,
	})

	registry.Join(state.RoomID, Player{UserID: "p2"})
	registry.Join(state.RoomID, Player{UserID: "p3"})

	// Act
	after, found := registry.UpdateSettings(state.RoomID, VariantReaction, 2)

	// Assert
	require.True(t, found)
	require.Equal(t, VariantReaction, after.GameVariant)
	require.Equal(t, 2, after.MaxPlayers)
	require.Equal(t, 3, after.CurrentPlayers)
}

func Test_Room_Lifecycle_With_Spectator_Overflow_And_Host_Migration(t *testing.T) {
	// Arrange
	registry, _ := testRegistry()
	state := registry.CreateRoom(CreateRoomParams{
		RoomName: "Test Room", Variant: VariantAiming,
		HostID: "u1", HostName: "u1", MaxPlayers: 2,
	})
	require.Equal(t, 1, state.CurrentPlayers)

	// Act / Assert
	second, status := registry.Join(state.RoomID, Player{UserID: "u2", Username: "u2"})
	require.Equal(t, JoinedAsPlayer, status)
	require.Equal(t, 2, second.CurrentPlayers)

	third, status := registry.Join(state.RoomID, Player{UserID: "u3", Username: "u3"})
	require.Equal(t, JoinedAsSpectator, status)
	require.Equal(t, 2, third.CurrentPlayers)

	after, leaveStatus := registry.Leave(state.RoomID, "u1")
	require.Equal(t, LeftRoom, leaveStatus)
	require.Equal(t, "u2", after.HostID)
	require.Equal(t, 1, after.CurrentPlayers)
	require.Len(t, after.Spectators, 1)
}

func Test_Starting_A_Playing_Room_Is_A_NoOp(t *testing.T) {
	// Arrange
	registry, publisher := testRegistry()
	state := registry.CreateRoom(CreateRoomParams{
		RoomName: "aim time", Variant: VariantAiming,
		HostID: "host", HostName: "host", MaxPlayers: 4,
	})

	_, started := registry.StartGame(state.RoomID)
	require.True(t, started)

	// Act
	_, startedAgain := registry.StartGame(state.RoomID)

	// Assert
	require.False(t, startedAgain)
	require.Len(t, publisher.gameEvents(EventGameStart), 1)
}
