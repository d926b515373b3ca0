package data

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser   Role = "user"
	RoleMentor Role = "mentor"
	RoleAdmin  Role = "admin"
)

// ValidRole reports whether r belongs to the closed role set.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleMentor, RoleAdmin:
		return true
	}
	return false
}

// User maps to the users collection. Mentor is an optional back-reference: a
// user-role account may point at the mentor assigned to it.
type User struct {
	ID        bson.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Email     string         `bson:"email" json:"email"`
	Password  string         `bson:"password" json:"-"`
	Name      string         `bson:"name" json:"name"`
	Avatar    string         `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role      Role           `bson:"role" json:"role"`
	Mentor    *bson.ObjectID `bson:"mentor,omitempty" json:"mentor,omitempty"`
	LastSeen  time.Time      `bson:"last_seen" json:"lastSeen"`
	CreatedAt time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updatedAt"`
}

// Message maps to the messages collection. A message is immutable after
// insert except for the read flag, which only ever flips false to true.
type Message struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Sender    bson.ObjectID `bson:"sender" json:"sender"`
	Recipient bson.ObjectID `bson:"recipient" json:"recipient"`
	Content   string        `bson:"content" json:"content"`
	Read      bool          `bson:"read" json:"read"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
}

// Candidate is one person a requester may message, as produced by the
// contact resolver. Derived per request, never persisted.
type Candidate struct {
	UserID     string    `json:"_id"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar,omitempty"`
	Role       Role      `json:"role"`
	LastActive time.Time `json:"lastActive"`
}

// ContactView is a candidate annotated with conversation stats for the
// contact-list endpoint.
type ContactView struct {
	Candidate
	UnreadCount     int64  `json:"unreadCount"`
	LastMessageTime string `json:"lastMessageTime"`
}

// ConversationPreview summarizes a conversation with one partner: the most
// recent message and how many of the partner's messages remain unread.
type ConversationPreview struct {
	PartnerID     string    `json:"partnerId"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int64     `json:"unreadCount"`
}
