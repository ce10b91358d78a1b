package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(buffer int) *Client {
	return &Client{id: "test-client", send: make(chan []byte, buffer), done: make(chan struct{})}
}

func Test_Publish_Delivers_To_Topic_Subscribers(t *testing.T) {
	// Arrange
	hub := NewHub(zap.NewNop())
	client := testClient(4)
	hub.Subscribe("rooms", client)

	// Act
	hub.Publish("rooms", map[string]string{"roomId": "room-1"})

	// Assert
	require.Len(t, client.send, 1)

	var envelope struct {
		Topic   string            `json:"topic"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(<-client.send, &envelope))
	require.Equal(t, "rooms", envelope.Topic)
	require.Equal(t, "room-1", envelope.Payload["roomId"])
}

func Test_Publish_Skips_Other_Topics(t *testing.T) {
	// Arrange
	hub := NewHub(zap.NewNop())
	client := testClient(4)
	hub.Subscribe("rooms", client)

	// Act
	hub.Publish("chat", "hello")

	// Assert
	require.Empty(t, client.send)
}

func Test_Publish_Never_Blocks_On_A_Slow_Client(t *testing.T) {
	// Arrange
	hub := NewHub(zap.NewNop())
	slow := testClient(1)
	healthy := testClient(4)
	hub.Subscribe("rooms", slow)
	hub.Subscribe("rooms", healthy)

	// Act
	hub.Publish("rooms", "first")
	hub.Publish("rooms", "second")

	// Assert - the slow client's overflow is dropped, the healthy one gets both.
	require.Len(t, slow.send, 1)
	require.Len(t, healthy.send, 2)
}

func Test_Unsubscribe_Stops_Delivery(t *testing.T) {
	// Arrange
	hub := NewHub(zap.NewNop())
	client := testClient(4)
	hub.Subscribe("rooms", client)
	hub.Unsubscribe("rooms", client)

	// Act
	hub.Publish("rooms", "hello")

	// Assert
	require.Empty(t, client.send)
	require.Equal(t, 0, hub.SubscriberCount("rooms"))
}

func Test_Publish_During_Client_Teardown_Does_Not_Panic(t *testing.T) {
	// Arrange - a client with a tiny buffer so concurrent publishes hit the
	// drop path while the client is being torn down.
	hub := NewHub(zap.NewNop())
	client := testClient(1)
	hub.Subscribe("rooms", client)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				hub.Publish("rooms", "payload")
			}
		}()
	}

	// Act - the same sequence Run performs when the connection drops.
	hub.remove(client)
	close(client.done)

	// Assert - every publisher finishes without a send on a closed channel.
	wg.Wait()
	require.Equal(t, 0, hub.SubscriberCount("rooms"))
}

func Test_Remove_Drops_The_Client_From_Every_Topic(t *testing.T) {
	// Arrange
	hub := NewHub(zap.NewNop())
	client := testClient(4)
	hub.Subscribe("rooms", client)
	hub.Subscribe("chat", client)
	hub.Subscribe("players", client)

	// Act
	hub.remove(client)

	// Assert
	require.Equal(t, 0, hub.SubscriberCount("rooms"))
	require.Equal(t, 0, hub.SubscriberCount("chat"))
	require.Equal(t, 0, hub.SubscriberCount("players"))
	require.Empty(t, client.send)
}
