package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is anyone seated or watching at the table.
type Client interface {
	PlayerID() string
	Name() string
	Send(msg *Message) error
}

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	playerID  string
	name      string
	table     *Table
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, table *Table, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		table:  table,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// Done is closed once the connection has been closed.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

var ErrConnectionClosed = errors.New("connection closed")

// Send queues a message for the client. A client that cannot keep up is
// disconnected.
func (c *Connection) Send(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}
	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("send buffer full, closing connection", "player", c.Name())
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Connection) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Connection) authenticate(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playerID != "" {
		return c.playerID, false
	}
	c.playerID = uuid.NewString()
	c.name = name
	return c.playerID, true
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() {
		if c.PlayerID() != "" {
			c.table.Unregister(c)
		}
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type, "player", c.Name())

	switch msg.Type {
	case MessageTypeAuth:
		var data AuthData
		if err := msg.Decode(&data); err != nil {
			c.sendError(CodeInvalidMessage, "failed to parse auth data")
			return
		}
		c.handleAuth(data)

	case MessageTypeChat:
		var data ChatData
		if err := msg.Decode(&data); err != nil {
			c.sendError(CodeInvalidMessage, "failed to parse chat data")
			return
		}
		if c.PlayerID() == "" {
			c.sendError(CodeNotAuthenticated, "must authenticate first")
			return
		}
		c.table.Input(c, data.Text)

	default:
		c.sendError(CodeUnknownType, "unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleAuth(data AuthData) {
	if data.Name == "" {
		c.sendError(CodeInvalidAuth, "player name required")
		return
	}
	id, ok := c.authenticate(data.Name)
	if !ok {
		c.sendError(CodeInvalidAuth, "already authenticated")
		return
	}
	c.logger.Info("player authenticated", "name", data.Name, "id", id)

	response, err := NewMessage(MessageTypeAuthResponse, AuthResponseData{PlayerID: id, Name: data.Name})
	if err == nil {
		_ = c.Send(response)
	}
	c.table.Register(c)
}

func (c *Connection) sendError(code, message string) {
	sendError(c, code, message)
}

func sendError(c Client, code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		return
	}
	_ = c.Send(msg)
}
