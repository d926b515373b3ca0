package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/akindipe/careerbridge/internal/auth"
	"github.com/akindipe/careerbridge/internal/chat"
	"github.com/akindipe/careerbridge/internal/data"
	"github.com/akindipe/careerbridge/internal/middleware"
)

// userStore is the slice of UsersStore the handlers depend on.
type userStore interface {
	CreateUser(ctx context.Context, email, hashedPassword, name string, role data.Role, mentor *bson.ObjectID) (*data.User, error)
	GetUserByEmail(ctx context.Context, email string) (*data.User, error)
	UserExists(ctx context.Context, id bson.ObjectID) (bool, error)
	TouchLastSeen(ctx context.Context, id bson.ObjectID) error
}

// messageStore is the slice of MessagesStore the handlers depend on.
type messageStore interface {
	Send(ctx context.Context, sender, recipient bson.ObjectID, content string) (*data.Message, error)
	History(ctx context.Context, requester, other bson.ObjectID) ([]data.Message, error)
	MarkRead(ctx context.Context, sender, recipient bson.ObjectID) (int64, error)
	ConversationPreviews(ctx context.Context, userID bson.ObjectID) ([]data.ConversationPreview, error)
}

// contactLister builds the stats-annotated, sorted contact list.
type contactLister interface {
	BuildContactList(ctx context.Context, requesterID bson.ObjectID) ([]data.ContactView, error)
}

// Server wires stores, auth and the realtime hub behind the HTTP surface.
type Server struct {
	users    userStore
	msgs     messageStore
	contacts contactLister
	auth     *auth.JWTManager
	hub      *chat.Hub
	delivery *chat.Router
	throttle *data.ReadThrottle
}

func newServer(users userStore, msgs messageStore, contacts contactLister, jwtMgr *auth.JWTManager, hub *chat.Hub, delivery *chat.Router, throttle *data.ReadThrottle) *Server {
	return &Server{
		users:    users,
		msgs:     msgs,
		contacts: contacts,
		auth:     jwtMgr,
		hub:      hub,
		delivery: delivery,
		throttle: throttle,
	}
}

// routes assembles the router. limiter guards the credential endpoints only.
func (s *Server) routes(limiter *middleware.LimiterStore) *mux.Router {
	r := mux.NewRouter()

	limited := middleware.RateLimit(limiter, credentialKey)
	r.Handle("/auth/register", limited(http.HandlerFunc(s.handleRegister))).Methods(http.MethodPost)
	r.Handle("/auth/login", limited(http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)

	api := r.NewRoute().Subrouter()
	api.Use(s.requireAuth)

	// /messages/contacts must outrank the {userId} pattern
	api.HandleFunc("/messages/contacts", s.handleContacts).Methods(http.MethodGet)
	api.HandleFunc("/messages/{senderId}/read", s.handleMarkRead).Methods(http.MethodPut)
	api.HandleFunc("/messages/{userId}", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/messages", s.handleSendMessage).Methods(http.MethodPost)
	api.HandleFunc("/messages", s.handleConversations).Methods(http.MethodGet)

	r.HandleFunc("/ws", s.handleWebSocket)

	return r
}
