// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType names a message on the UI socket
type EventType string

const (
	// Connection events
	EventTypePing      EventType = "ping"
	EventTypePong      EventType = "pong"
	EventTypeConnected EventType = "connected"
	EventTypeError     EventType = "error"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"

	// Cart events
	EventTypeCartSnapshot EventType = "cart:snapshot"
	EventTypeCartUndo     EventType = "cart:undo"

	// Notice events
	EventTypeNotice        EventType = "notice"
	EventTypeNoticeDismiss EventType = "notice:dismiss"
	EventTypeNoticeList    EventType = "notice:list"

	// Session events
	EventTypeSessionChanged EventType = "session:changed"
	EventTypeNavigate       EventType = "navigate"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType       `json:"type"`
	Data      any             `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	ID        string          `json:"id,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// ChannelType is a stream a UI can subscribe to
type ChannelType string

const (
	ChannelCart    ChannelType = "cart"
	ChannelNotices ChannelType = "notices"
	ChannelSession ChannelType = "session"
)

func (c ChannelType) Valid() bool {
	switch c {
	case ChannelCart, ChannelNotices, ChannelSession:
		return true
	}
	return false
}

type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type NavigateData struct {
	Path string `json:"path"`
}

type DismissData struct {
	ID string `json:"id"`
}

func NewMessage(eventType EventType, data any) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage decodes a client message. Data is kept raw in Raw so handlers
// can decode it into their own request types.
func ParseMessage(data []byte) (*WSMessage, error) {
	var envelope struct {
		Type EventType       `json:"type"`
		Data json.RawMessage `json:"data"`
		ID   string          `json:"id"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	return &WSMessage{
		Type:      envelope.Type,
		Raw:       envelope.Data,
		ID:        envelope.ID,
		Timestamp: time.Now(),
	}, nil
}

// Decode unmarshals the raw payload of a parsed client message into target.
func (m *WSMessage) Decode(target any) error {
	if len(m.Raw) == 0 {
		return nil
	}
	return json.Unmarshal(m.Raw, target)
}
