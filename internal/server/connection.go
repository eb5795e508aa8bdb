package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Connection wraps one observer's websocket. Observers are read-only: the
// read pump exists to service pings and detect disconnects, inbound frames
// are discarded.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	onClose   func(*Connection)
}

// NewConnection creates a connection wrapper around a completed upgrade.
func NewConnection(conn *websocket.Conn, logger *log.Logger, onClose func(*Connection)) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:    conn,
		send:    make(chan *Message, 256),
		logger:  logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
		onClose: onClose,
	}
}

// Start begins the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close tears the connection down. Safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
		if c.onClose != nil {
			c.onClose(c)
		}
	})
	return err
}

// Send queues a message for delivery, dropping it if the client cannot keep
// up.
func (c *Connection) Send(msg *Message) {
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	default:
		c.logger.Warn("send buffer full, dropping message", "type", msg.Type)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
