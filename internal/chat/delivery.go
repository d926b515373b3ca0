package chat

import (
	"errors"
	"log"
	"time"

	"github.com/akindipe/careerbridge/internal/data"
)

// Router delivers persisted messages and typing signals to live sessions.
// Delivery failures are not errors: persistence already guarantees the
// message survives, so a push to an offline recipient is simply skipped.
type Router struct {
	hub *Hub
	now func() time.Time
}

// NewRouter returns a delivery router over the hub.
func NewRouter(hub *Hub) *Router {
	return &Router{hub: hub, now: time.Now}
}

// Deliver pushes a saved message to the recipient's session, if any, and
// always acknowledges back to the sender's own session.
func (r *Router) Deliver(msg *data.Message) {
	senderID := msg.Sender.Hex()
	recipientID := msg.Recipient.Hex()

	r.hub.Touch(senderID)

	if ev, err := NewEvent(EventNewMessage, msg); err == nil {
		if err := r.hub.SendToUser(recipientID, ev); err != nil && !errors.Is(err, ErrNotConnected) {
			log.Printf("delivery to %s failed: %v", recipientID, err)
		}
	}

	ack, err := NewEvent(EventMessageSent, MessageSentPayload{
		MessageID:   msg.ID.Hex(),
		RecipientID: recipientID,
		Timestamp:   r.now(),
	})
	if err != nil {
		return
	}
	if err := r.hub.SendToUser(senderID, ack); err != nil && !errors.Is(err, ErrNotConnected) {
		log.Printf("ack to %s failed: %v", senderID, err)
	}
}

// Typing forwards a typing signal to the recipient. Never persisted and
// carries no delivery guarantee; a missed typing event is not a correctness
// issue.
func (r *Router) Typing(userID, recipientID string, typing bool) {
	ev, err := NewEvent(EventUserTyping, UserTypingPayload{UserID: userID, Typing: typing})
	if err != nil {
		return
	}
	_ = r.hub.SendToUser(recipientID, ev)
}
