package data

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ConversationStats is the subset of MessagesStore the aggregator needs.
type ConversationStats interface {
	UnreadCount(ctx context.Context, sender, recipient bson.ObjectID) (int64, error)
	LastMessageBetween(ctx context.Context, a, b bson.ObjectID) (*Message, error)
}

// Aggregator annotates resolved contacts with unread counts and recency
// labels and orders the result for the contact-list view.
type Aggregator struct {
	resolver *ContactResolver
	stats    ConversationStats
	now      func() time.Time
}

// NewAggregator builds an aggregator over the given resolver and stats
// source.
func NewAggregator(resolver *ContactResolver, stats ConversationStats) *Aggregator {
	return &Aggregator{resolver: resolver, stats: stats, now: time.Now}
}

// BuildContactList resolves the requester's contacts and computes, per
// candidate, the number of unread messages they have sent the requester and
// a label for the most recent exchange.
func (a *Aggregator) BuildContactList(ctx context.Context, requesterID bson.ObjectID) ([]ContactView, error) {
	candidates, err := a.resolver.Resolve(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	views := make([]ContactView, 0, len(candidates))
	for _, c := range candidates {
		candidateID, err := bson.ObjectIDFromHex(c.UserID)
		if err != nil {
			continue
		}

		unread, err := a.stats.UnreadCount(ctx, candidateID, requesterID)
		if err != nil {
			return nil, err
		}

		last, err := a.stats.LastMessageBetween(ctx, requesterID, candidateID)
		if err != nil {
			return nil, err
		}
		var lastAt time.Time
		if last != nil {
			lastAt = last.CreatedAt
		}

		views = append(views, ContactView{
			Candidate:       c,
			UnreadCount:     unread,
			LastMessageTime: RecencyLabel(lastAt, a.now()),
		})
	}

	sortContactViews(views)
	return views, nil
}

// sortContactViews orders contacts by unread count descending, then by the
// recency label compared descending as a plain string (labeled entries
// before unlabeled ones), then by display name ascending. The string
// comparison of labels is not chronological ("Yesterday" vs "3:45 PM") but
// is kept for compatibility with the existing client ordering.
func sortContactViews(views []ContactView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.UnreadCount != b.UnreadCount {
			return a.UnreadCount > b.UnreadCount
		}
		if (a.LastMessageTime != "") != (b.LastMessageTime != "") {
			return a.LastMessageTime != ""
		}
		if a.LastMessageTime != b.LastMessageTime {
			return a.LastMessageTime > b.LastMessageTime
		}
		return a.Name < b.Name
	})
}
