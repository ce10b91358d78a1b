package presence

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Add_Allows_Only_One_Connection_Per_User(t *testing.T) {
	// Arrange
	tracker := NewTracker()

	// Act
	first := tracker.Add("user-1", "alice", "conn-1")
	second := tracker.Add("user-1", "alice", "conn-2")

	// Assert
	require.True(t, first)
	require.False(t, second)

	identity, found := tracker.UserForConnection("conn-1")
	require.True(t, found)
	require.Equal(t, "user-1", identity.UserID)

	_, found = tracker.UserForConnection("conn-2")
	require.False(t, found)
}

func Test_Concurrent_Adds_For_Same_User_Admit_Exactly_One(t *testing.T) {
	// Arrange
	tracker := NewTracker()

	const attempts = 50
	var admitted int64
	var wg sync.WaitGroup

	// Act
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if tracker.Add("user-1", "alice", fmt.Sprintf("conn-%d", i)) {
				atomic.AddInt64(&admitted, 1)
			}
		}(i)
	}
	wg.Wait()

	// Assert
	require.Equal(t, int64(1), admitted)
	require.Equal(t, 1, tracker.Count())
}

func Test_RemoveByConnection_Returns_The_Attached_Identity(t *testing.T) {
	// Arrange
	tracker := NewTracker()
	require.True(t, tracker.Add("user-1", "alice", "conn-1"))

	// Act
	identity, found := tracker.RemoveByConnection("conn-1")

	// Assert
	require.True(t, found)
	require.Equal(t, Identity{UserID: "user-1", Username: "alice"}, identity)
	require.False(t, tracker.IsActive("user-1"))
	require.Equal(t, 0, tracker.Count())
}

func Test_RemoveByConnection_Unknown_Connection_Is_A_NoOp(t *testing.T) {
	// Arrange
	tracker := NewTracker()
	require.True(t, tracker.Add("user-1", "alice", "conn-1"))

	// Act
	_, found := tracker.RemoveByConnection("conn-unknown")

	// Assert
	require.False(t, found)
	require.True(t, tracker.IsActive("user-1"))
}

func Test_User_Can_Reconnect_After_Disconnect(t *testing.T) {
	// Arrange
	tracker := NewTracker()
	require.True(t, tracker.Add("user-1", "alice", "conn-1"))

	_, found := tracker.RemoveByConnection("conn-1")
	require.True(t, found)

	// Act
	readded := tracker.Add("user-1", "alice", "conn-2")

	// Assert
	require.True(t, readded)

	identity, found := tracker.UserForConnection("conn-2")
	require.True(t, found)
	require.Equal(t, "user-1", identity.UserID)
}
