package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// Client is one websocket connection. The read pump feeds inbound commands to
// the dispatcher; the write pump drains the buffered send channel the hub
// publishes into. send is never closed - a publish racing the teardown must
// not be able to hit a closed channel, so the write pump exits on done
// instead.
type Client struct {
	id         string
	hub        *Hub
	dispatcher *Dispatcher
	conn       *websocket.Conn
	send       chan []byte
	done       chan struct{}
	logger     *zap.Logger
}

func NewClient(hub *Hub, dispatcher *Dispatcher, conn *websocket.Conn, logger *zap.Logger) *Client {
	return &Client{
		id:         uuid.NewString(),
		hub:        hub,
		dispatcher: dispatcher,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (c *Client) ID() string {
	return c.id
}

// Run pumps the connection until it closes, then tears down every trace of
// it: hub subscriptions first, then the disconnect command so presence and
// room cleanup see a connection that can no longer receive.
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)

	c.hub.remove(c)
	close(c.done)
	c.dispatcher.Disconnected(ctx, c)
}

func (c *Client) readPump(ctx context.Context) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket closed unexpectedly",
					zap.String("connection_id", c.id),
					zap.Error(err))
			}
			return
		}

		c.dispatcher.Dispatch(ctx, c, message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
