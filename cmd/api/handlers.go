package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/akindipe/careerbridge/internal/apperr"
	"github.com/akindipe/careerbridge/internal/auth"
	"github.com/akindipe/careerbridge/internal/data"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Mentor   string `json:"mentor"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse pairs the issued token with the account it represents so the
// client never needs a second lookup after signing in.
type authResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *data.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		respondError(w, apperr.Validation("email, password and name are required"))
		return
	}
	if len(req.Password) < 6 {
		respondError(w, apperr.Validation("password must be at least 6 characters"))
		return
	}

	role := data.Role(req.Role)
	if req.Role == "" {
		role = data.RoleUser
	}

	var mentor *bson.ObjectID
	if req.Mentor != "" {
		id, err := bson.ObjectIDFromHex(req.Mentor)
		if err != nil {
			respondError(w, apperr.Validation("invalid mentor id"))
			return
		}
		mentor = &id
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, apperr.Internal("hashing password", err))
		return
	}

	user, err := s.users.CreateUser(r.Context(), req.Email, hashed, strings.TrimSpace(req.Name), role, mentor)
	if err != nil {
		respondError(w, err)
		return
	}

	token, expires, err := s.auth.GenerateToken(user.ID.Hex(), user.Email, string(user.Role))
	if err != nil {
		respondError(w, apperr.Internal("issuing token", err))
		return
	}

	respondData(w, http.StatusCreated, authResponse{Token: token, ExpiresAt: expires, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, apperr.Validation("email and password are required"))
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		// A missing account and a wrong password produce the same answer.
		respondError(w, apperr.Authentication("invalid credentials"))
		return
	}
	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		respondError(w, apperr.Authentication("invalid credentials"))
		return
	}

	if err := s.users.TouchLastSeen(r.Context(), user.ID); err != nil {
		log.Printf("updating last seen for %s: %v", user.ID.Hex(), err)
	}

	token, expires, err := s.auth.GenerateToken(user.ID.Hex(), user.Email, string(user.Role))
	if err != nil {
		respondError(w, apperr.Internal("issuing token", err))
		return
	}

	respondData(w, http.StatusOK, authResponse{Token: token, ExpiresAt: expires, User: user})
}

type sendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, apperr.Authentication("missing authorization token"))
		return
	}

	var req sendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	senderID, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, apperr.Authentication("invalid token subject"))
		return
	}
	recipientID, err := bson.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		respondError(w, apperr.Validation("invalid recipient id"))
		return
	}

	exists, err := s.users.UserExists(r.Context(), recipientID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !exists {
		respondError(w, apperr.Validation("recipient does not exist"))
		return
	}

	msg, err := s.msgs.Send(r.Context(), senderID, recipientID, req.Content)
	if err != nil {
		respondError(w, err)
		return
	}

	s.delivery.Deliver(msg)
	respondData(w, http.StatusCreated, msg)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, apperr.Authentication("missing authorization token"))
		return
	}

	requesterID, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, apperr.Authentication("invalid token subject"))
		return
	}
	otherID, err := bson.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		respondError(w, apperr.Validation("invalid user id"))
		return
	}

	msgs, err := s.msgs.History(r.Context(), requesterID, otherID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, msgs)
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, apperr.Authentication("missing authorization token"))
		return
	}
	userID, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, apperr.Authentication("invalid token subject"))
		return
	}

	previews, err := s.msgs.ConversationPreviews(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, previews)
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, apperr.Authentication("missing authorization token"))
		return
	}
	userID, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, apperr.Authentication("invalid token subject"))
		return
	}

	contacts, err := s.contacts.BuildContactList(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, contacts)
}

// markReadResult reports how many messages flipped to read. cached means the
// request landed inside the throttle window and was answered without a write.
type markReadResult struct {
	Updated int64 `json:"updated"`
	Cached  bool  `json:"cached"`
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, apperr.Authentication("missing authorization token"))
		return
	}

	recipientID, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, apperr.Authentication("invalid token subject"))
		return
	}
	senderID, err := bson.ObjectIDFromHex(mux.Vars(r)["senderId"])
	if err != nil {
		respondError(w, apperr.Validation("invalid sender id"))
		return
	}

	if !s.throttle.Allow(recipientID.Hex(), senderID.Hex()) {
		respondData(w, http.StatusOK, markReadResult{Updated: 0, Cached: true})
		return
	}

	updated, err := s.msgs.MarkRead(r.Context(), senderID, recipientID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, markReadResult{Updated: updated, Cached: false})
}
