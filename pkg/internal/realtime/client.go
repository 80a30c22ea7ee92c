package realtime

import (
	"fmt"
	"sync"
	"time"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const writeWait = 10 * time.Second

// Socket is the part of a websocket connection the client writes to.
type Socket interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
}

// Client is a Conn backed by a websocket. Events are queued on a buffered
// channel and written by WritePump, so Send never blocks the broadcaster.
type Client struct {
	id     string
	socket Socket
	send   chan Event
	done   chan struct{}
	once   sync.Once

	pingInterval time.Duration
}

func NewClient(socket Socket, buffer int, pingInterval time.Duration) *Client {
	if buffer <= 0 {
		buffer = 16
	}
	return &Client{
		id:           uuid.NewString(),
		socket:       socket,
		send:         make(chan Event, buffer),
		done:         make(chan struct{}),
		pingInterval: pingInterval,
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) Send(event Event) error {
	select {
	case <-c.done:
		return fmt.Errorf("%w: client %s is closed", models.ErrConnection, c.id)
	default:
	}

	select {
	case c.send <- event:
		return nil
	default:
		return fmt.Errorf("%w: send buffer of client %s is full", models.ErrConnection, c.id)
	}
}

// Close stops the write pump. Safe to call more than once.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *Client) Done() <-chan struct{} {
	return c.done
}

// WritePump writes queued events and keep-alive pings until the client is
// closed or a write fails. It must return before the socket is released.
func (c *Client) WritePump() {
	var tick <-chan time.Time
	if c.pingInterval > 0 {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case event := <-c.send:
			data, err := jsoniter.Marshal(event)
			if err != nil {
				continue
			}
			if err := c.write(websocket.TextMessage, data); err != nil {
				c.Close()
				return
			}
		case <-tick:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return c.socket.WriteMessage(messageType, data)
}
