package minigame

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startAimingGame(t *testing.T, registry *Registry) (string, *aimingSession) {
	t.Helper()

	state := registry.CreateRoom(CreateRoomParams{
		RoomName: "aim time", Variant: VariantAiming,
		HostID: "host", HostName: "host", MaxPlayers: 4,
	})

	_, started := registry.StartGame(state.RoomID)
	require.True(t, started)

	registry.mu.RLock()
	sess, ok := registry.sessions[state.RoomID].(*aimingSession)
	registry.mu.RUnlock()
	require.True(t, ok)

	return state.RoomID, sess
}

func currentTargetID(s *aimingSession) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.targets {
		return id
	}
	return ""
}

func Test_Concurrent_Hits_On_One_Target_Score_Exactly_Once(t *testing.T) {
	// Arrange
	registry, _ := testRegistry()
	_, sess := startAimingGame(t, registry)

	require.Eventually(t, func() bool {
		return currentTargetID(sess) != ""
	}, time.Second, time.Millisecond)

	targetID := currentTargetID(sess)

	// Act
	const claims = 20
	var total int64
	var wg sync.WaitGroup
	for i := 0; i < claims; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			score := sess.handleHit("host", "host", targetID)
			atomic.AddInt64(&total, int64(score))
		}(i)
	}
	wg.Wait()

	// Assert
	require.Equal(t, int64(1), total)

	sess.mu.Lock()
	score := sess.scores["host"]
	sess.mu.Unlock()
	require.Equal(t, 1, score)
}

func Test_Hit_On_Unknown_Target_Acks_Zero_And_Scores_Nothing(t *testing.T) {
	// Arrange
	registry, publisher := testRegistry()
	_, sess := startAimingGame(t, registry)

	// Act
	score := sess.handleHit("host", "host", "no-such-target")

	// Assert
	require.Equal(t, 0, score)
	require.Empty(t, publisher.gameEvents(EventScoreUpdate))

	acks := publisher.gameEvents(EventHitAck)
	require.Len(t, acks, 1)
	require.Equal(t, "0", acks[0].Payload)
}

func Test_A_Hit_Spawns_The_Next_Target(t *testing.T) {
	// Arrange
	registry, publisher := testRegistry()
	_, sess := startAimingGame(t, registry)

	require.Eventually(t, func() bool {
		return currentTargetID(sess) != ""
	}, time.Second, time.Millisecond)

	first := currentTargetID(sess)

	// Act
	score := sess.handleHit("host", "host", first)

	// Assert
	require.Equal(t, 1, score)

	next := currentTargetID(sess)
	require.NotEmpty(t, next)
	require.NotEqual(t, first, next)

	require.Len(t, publisher.gameEvents(EventSpawnTarget), 2)

	// A stale claim on the consumed target scores nothing.
	require.Equal(t, 0, sess.handleHit("host", "host", first))
}

func Test_An_Unhit_Target_Expires_And_Respawns(t *testing.T) {
	// Arrange
	registry, publisher := testRegistry()
	_, sess := startAimingGame(t, registry)

	require.Eventually(t, func() bool {
		return currentTargetID(sess) != ""
	}, time.Second, time.Millisecond)

	first := currentTargetID(sess)

	// Act / Assert
	require.Eventually(t, func() bool {
		next := currentTargetID(sess)
		return next != "" && next != first
	}, time.Second, time.Millisecond)

	require.NotEmpty(t, publisher.gameEvents(EventTargetRemoved))
}

func Test_Reaching_The_Win_Threshold_Ends_The_Game(t *testing.T) {
	// Arrange
	registry, publisher := testRegistry()
	roomID, sess := startAimingGame(t, registry)

	require.Eventually(t, func() bool {
		return currentTargetID(sess) != ""
	}, time.Second, time.Millisecond)

	// Act
	for i := 1; i <= winThreshold; i++ {
		targetID := currentTargetID(sess)
		require.NotEmpty(t, targetID)
		require.Equal(t, i, sess.handleHit("host", "host", targetID))
	}

	// Assert
	ends := publisher.gameEvents(EventGameEnd)
	require.Len(t, ends, 1)
	require.Equal(t, winThreshold, ends[0].Scores["host"])

	state, found := registry.Get(roomID)
	require.True(t, found)
	require.False(t, state.Playing)

	registry.mu.RLock()
	_, sessionAlive := registry.sessions[roomID]
	registry.mu.RUnlock()
	require.False(t, sessionAlive)
}

func Test_Hits_After_The_Game_Ended_Score_Nothing(t *testing.T) {
	// Arrange
	registry, _ := testRegistry()
	_, sess := startAimingGame(t, registry)

	require.Eventually(t, func() bool {
		return currentTargetID(sess) != ""
	}, time.Second, time.Millisecond)

	targetID := currentTargetID(sess)
	sess.end("room closed")

	// Act
	score := sess.handleHit("host", "host", targetID)

	// Assert
	require.Equal(t, 0, score)
}
