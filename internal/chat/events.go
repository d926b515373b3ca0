// Package chat tracks live connections and routes realtime events between
// them. Persistence is never handled here; the messages collection is the
// record of truth and delivery is purely an online notification.
package chat

import (
	"encoding/json"
	"time"

	"github.com/akindipe/careerbridge/internal/apperr"
)

// Wire event names, client to server.
const (
	EventGetOnlineUsers = "get_online_users"
	EventSendMessage    = "send_message"
	EventTyping         = "typing"
)

// Wire event names, server to client.
const (
	EventOnlineUsers = "online_users"
	EventNewMessage  = "new_message"
	EventMessageSent = "message_sent"
	EventUserTyping  = "user_typing"
)

// Event is the envelope for every frame on the persistent connection.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent marshals payload into an Event of the given type.
func NewEvent(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Data: data}, nil
}

// MessageSentPayload acknowledges a send back to the sender's own session so
// a sender with multiple tabs or devices stays in sync.
type MessageSentPayload struct {
	MessageID   string    `json:"messageId"`
	RecipientID string    `json:"recipientId"`
	Timestamp   time.Time `json:"timestamp"`
}

// UserTypingPayload is forwarded to the recipient of a typing signal.
type UserTypingPayload struct {
	UserID string `json:"userId"`
	Typing bool   `json:"typing"`
}

// SendMessagePayload is the client request to send a message. The sender
// identity comes from the authenticated connection, never from the payload.
type SendMessagePayload struct {
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}

// DecodeSendMessage parses and validates a send_message payload, rejecting
// missing required fields at the boundary.
func DecodeSendMessage(data json.RawMessage) (SendMessagePayload, error) {
	var p SendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return p, apperr.Validation("malformed send_message payload")
	}
	if p.Recipient == "" {
		return p, apperr.Validation("send_message requires a recipient")
	}
	if p.Content == "" {
		return p, apperr.Validation("send_message requires content")
	}
	return p, nil
}

// TypingPayload is the client-side typing signal.
type TypingPayload struct {
	RecipientID string `json:"recipientId"`
	Typing      bool   `json:"typing"`
}

// DecodeTyping parses and validates a typing payload.
func DecodeTyping(data json.RawMessage) (TypingPayload, error) {
	var p TypingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return p, apperr.Validation("malformed typing payload")
	}
	if p.RecipientID == "" {
		return p, apperr.Validation("typing requires a recipientId")
	}
	return p, nil
}
