package main

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/akindipe/careerbridge/internal/apperr"
	"github.com/akindipe/careerbridge/internal/chat"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client is served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient adapts a websocket connection to the hub's Sender. Outbound
// events go through a buffered channel drained by a single writer goroutine
// because gorilla connections allow only one concurrent writer.
type wsClient struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan chat.Event
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{conn: conn, send: make(chan chat.Event, 256)}
}

// Send queues an event for the writer goroutine. A full buffer drops the
// connection rather than blocking the hub.
func (c *wsClient) Send(ev chat.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return chat.ErrNotConnected
	}
	select {
	case c.send <- ev:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// writePump serializes every queued event onto the wire and closes the
// connection when the send channel drains out.
func (c *wsClient) writePump() {
	defer c.conn.Close()
	for ev := range c.send {
		if err := c.conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

// handleWebSocket authenticates the handshake, upgrades the connection, and
// runs the read loop until the peer goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	claims, err := s.verifyRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}
	senderID, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade for %s: %v", claims.UserID, err)
		return
	}

	client := newWSClient(conn)
	go client.writePump()

	sessionID := uuid.NewString()
	s.hub.Register(claims.UserID, claims.Role, sessionID, client)

	defer func() {
		s.hub.Unregister(claims.UserID, sessionID)
		client.close()
	}()

	for {
		var ev chat.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read for %s: %v", claims.UserID, err)
			}
			return
		}
		s.hub.Touch(claims.UserID)
		s.dispatchEvent(r, senderID, client, ev)
	}
}

// dispatchEvent routes one inbound frame. Bad payloads answer with an error
// frame on the same connection instead of tearing it down.
func (s *Server) dispatchEvent(r *http.Request, senderID bson.ObjectID, client *wsClient, ev chat.Event) {
	switch ev.Type {
	case chat.EventGetOnlineUsers:
		snapshot, err := s.hub.OnlineSnapshot()
		if err != nil {
			return
		}
		_ = client.Send(snapshot)

	case chat.EventSendMessage:
		payload, err := chat.DecodeSendMessage(ev.Data)
		if err != nil {
			s.sendError(client, err)
			return
		}
		recipientID, err := bson.ObjectIDFromHex(payload.Recipient)
		if err != nil {
			s.sendError(client, apperr.Validation("invalid recipient id"))
			return
		}
		exists, err := s.users.UserExists(r.Context(), recipientID)
		if err != nil || !exists {
			s.sendError(client, apperr.Validation("recipient does not exist"))
			return
		}
		msg, err := s.msgs.Send(r.Context(), senderID, recipientID, payload.Content)
		if err != nil {
			s.sendError(client, err)
			return
		}
		s.delivery.Deliver(msg)

	case chat.EventTyping:
		payload, err := chat.DecodeTyping(ev.Data)
		if err != nil {
			return
		}
		s.delivery.Typing(senderID.Hex(), payload.RecipientID, payload.Typing)

	default:
		// Unknown frames are ignored so old clients keep working.
	}
}

func (s *Server) sendError(client *wsClient, err error) {
	ev, marshalErr := chat.NewEvent("error", map[string]string{"message": apperr.ClientMessage(err)})
	if marshalErr != nil {
		return
	}
	_ = client.Send(ev)
}
