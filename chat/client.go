package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait     = 10 * time.Second
	sendQueueSize = 32
)

var (
	ErrHandleClosed  = errors.New("connection handle is closed")
	ErrSendQueueFull = errors.New("send queue full")
)

// Client is a single live socket handle. A user with several devices owns
// several clients; a reconnect always produces a new one.
type Client struct {
	ID string

	conn *websocket.Conn
	send chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan Event, sendQueueSize),
		done: make(chan struct{}),
	}
}

// Push queues an event for delivery. It never blocks: a closed handle or a
// full queue reports an error and the event is dropped.
func (c *Client) Push(ev Event) error {
	select {
	case <-c.done:
		return ErrHandleClosed
	default:
	}

	select {
	case c.send <- ev:
		return nil
	case <-c.done:
		return ErrHandleClosed
	default:
		return ErrSendQueueFull
	}
}

// writePump serializes all writes to the underlying connection, so queued
// events go out in push order.
func (c *Client) writePump(log *zap.Logger) {
	for {
		select {
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				log.Debug("socket write failed",
					zap.String("handleID", c.ID),
					zap.Error(err))
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Close marks the handle dead and closes the socket. Safe to call repeatedly.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}
