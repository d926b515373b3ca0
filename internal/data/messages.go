package data

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/akindipe/careerbridge/internal/apperr"
)

// MessagesStore provides message database operations. The messages
// collection is the system of record; no component writes to it except
// through this store.
type MessagesStore struct {
	coll *mongo.Collection
}

// NewMessagesStore returns a MessagesStore using the given collection.
func NewMessagesStore(coll *mongo.Collection) *MessagesStore {
	return &MessagesStore{coll: coll}
}

// Send appends a new message document and returns the saved record.
// Recipient existence is checked by the caller against the users store;
// content validation happens here.
func (m *MessagesStore) Send(ctx context.Context, sender, recipient bson.ObjectID, content string) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("message content is required")
	}

	msg := &Message{
		Sender:    sender,
		Recipient: recipient,
		Content:   content,
		Read:      false,
		CreatedAt: time.Now(),
	}

	result, err := m.coll.InsertOne(ctx, msg)
	if err != nil {
		return nil, err
	}
	msg.ID = result.InsertedID.(bson.ObjectID)
	return msg, nil
}

// History returns every message between the requesting user and other,
// ascending by creation time. Fetching a conversation implicitly clears
// unread state for the fetching party: messages other sent to requester are
// marked read before the result is loaded, so the returned records already
// carry read=true.
func (m *MessagesStore) History(ctx context.Context, requester, other bson.ObjectID) ([]Message, error) {
	if _, err := m.MarkRead(ctx, other, requester); err != nil {
		return nil, err
	}

	filter := bson.M{
		"$or": bson.A{
			bson.M{"sender": requester, "recipient": other},
			bson.M{"sender": other, "recipient": requester},
		},
	}

	cursor, err := m.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flips read to true on every unread message from sender to
// recipient and returns how many documents were updated. Idempotent: with
// nothing unread it updates zero rows and reports no error.
func (m *MessagesStore) MarkRead(ctx context.Context, sender, recipient bson.ObjectID) (int64, error) {
	result, err := m.coll.UpdateMany(ctx,
		bson.M{"sender": sender, "recipient": recipient, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// UnreadCount counts unread messages from one user to another.
func (m *MessagesStore) UnreadCount(ctx context.Context, sender, recipient bson.ObjectID) (int64, error) {
	return m.coll.CountDocuments(ctx, bson.M{
		"sender":    sender,
		"recipient": recipient,
		"read":      false,
	})
}

// LastMessageBetween returns the most recent message exchanged between a and
// b in either direction, or nil when the pair has no history.
func (m *MessagesStore) LastMessageBetween(ctx context.Context, a, b bson.ObjectID) (*Message, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"sender": a, "recipient": b},
			bson.M{"sender": b, "recipient": a},
		},
	}

	var msg Message
	err := m.coll.FindOne(ctx, filter, options.FindOne().SetSort(bson.M{"created_at": -1})).Decode(&msg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// PartnerIDs returns the distinct set of users the given user has exchanged
// at least one message with, in either direction.
func (m *MessagesStore) PartnerIDs(ctx context.Context, userID bson.ObjectID) ([]bson.ObjectID, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "sender", Value: userID}},
				bson.D{{Key: "recipient", Value: userID}},
			}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$sender", userID}}},
					"$recipient",
					"$sender",
				}},
			}},
		}}},
	}

	cursor, err := m.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID bson.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	ids := make([]bson.ObjectID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// ConversationPreviews groups the user's messages by conversation partner,
// keeping the most recent message and an unread tally per partner, sorted by
// most-recent-message time descending.
func (m *MessagesStore) ConversationPreviews(ctx context.Context, userID bson.ObjectID) ([]ConversationPreview, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "sender", Value: userID}},
				bson.D{{Key: "recipient", Value: userID}},
			}},
		}}},
		// sort ascending so $last picks the newest message per group
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "partner", Value: bson.D{
					{Key: "$cond", Value: bson.A{
						bson.D{{Key: "$eq", Value: bson.A{"$sender", userID}}},
						"$recipient",
						"$sender",
					}},
				}},
			}},
			{Key: "last_message", Value: bson.D{{Key: "$last", Value: "$content"}}},
			{Key: "last_message_at", Value: bson.D{{Key: "$last", Value: "$created_at"}}},
			{Key: "unread_count", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$and", Value: bson.A{
						bson.D{{Key: "$eq", Value: bson.A{"$recipient", userID}}},
						bson.D{{Key: "$eq", Value: bson.A{"$read", false}}},
					}}},
					1,
					0,
				}},
			}}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "last_message_at", Value: -1}}}},
	}

	cursor, err := m.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID struct {
			Partner bson.ObjectID `bson:"partner"`
		} `bson:"_id"`
		LastMessage   string    `bson:"last_message"`
		LastMessageAt time.Time `bson:"last_message_at"`
		UnreadCount   int64     `bson:"unread_count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	previews := make([]ConversationPreview, 0, len(rows))
	for _, r := range rows {
		previews = append(previews, ConversationPreview{
			PartnerID:     r.ID.Partner.Hex(),
			LastMessage:   r.LastMessage,
			LastMessageAt: r.LastMessageAt,
			UnreadCount:   r.UnreadCount,
		})
	}
	return previews, nil
}
