package server

import (
	"encoding/json"
	"time"

	"github.com/lox/holdem-engine/internal/game"
)

// MessageType names a websocket message.
type MessageType string

const (
	// Client to server
	MessageTypeAuth MessageType = "auth"
	MessageTypeChat MessageType = "chat"

	// Server to client
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeEvent        MessageType = "event"
	MessageTypeInfo         MessageType = "info"
	MessageTypeError        MessageType = "error"
)

func (mt MessageType) String() string {
	return string(mt)
}

// Message is the envelope of every frame in both directions.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Decode unmarshals the message payload into v.
func (m *Message) Decode(v any) error {
	return json.Unmarshal(m.Data, v)
}

type AuthData struct {
	Name string `json:"name"`
}

// ChatData carries one line typed at the table, an action or a command.
type ChatData struct {
	Text string `json:"text"`
}

type AuthResponseData struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// EventData wraps a game event. Name is the event type.
type EventData struct {
	Name    game.EventType `json:"name"`
	Payload game.Event     `json:"payload"`
}

type InfoData struct {
	Text string `json:"text"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	CodeInvalidMessage   = "invalid_message"
	CodeUnknownType      = "unknown_message_type"
	CodeNotAuthenticated = "not_authenticated"
	CodeInvalidAuth      = "invalid_auth"
	CodeBadCommand       = "bad_command"
	CodeRejected         = "rejected"
)

func eventMessage(e game.Event) (*Message, error) {
	return NewMessage(MessageTypeEvent, EventData{Name: e.Type(), Payload: e})
}
