package data

import (
	"context"
	"testing"

	"github.com/akindipe/careerbridge/internal/apperr"
)

// Integration tests; require a running MongoDB (MONGODB_URI).

func TestMessagesStore_SendThenHistory(t *testing.T) {
	c := setupDB(t)
	ctx := context.Background()
	users := NewUsersStore(c.UsersCollection())
	msgs := NewMessagesStore(c.MessagesCollection())

	a, err := users.CreateUser(ctx, "a@example.com", "hash", "A", RoleUser, nil)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	b, err := users.CreateUser(ctx, "b@example.com", "hash", "B", RoleUser, nil)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if _, err := msgs.Send(ctx, a.ID, b.ID, "   "); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error on blank content, got %v", err)
	}

	sent, err := msgs.Send(ctx, a.ID, b.ID, "Hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if sent.Read {
		t.Fatal("new messages must start unread")
	}

	// from the sender's side the message stays unread
	fromSender, err := msgs.History(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(fromSender) != 1 || fromSender[0].Content != "Hello" {
		t.Fatalf("expected exactly the sent message, got %d", len(fromSender))
	}
	if fromSender[0].Read {
		t.Fatal("sender fetching history must not mark their own message read")
	}

	// B fetching the conversation flips the read flag as a side effect
	fromRecipient, err := msgs.History(ctx, b.ID, a.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(fromRecipient) != 1 || !fromRecipient[0].Read {
		t.Fatalf("expected the returned entry with read=true, got %+v", fromRecipient)
	}
}

func TestMessagesStore_HistoryAscendingAndLastElement(t *testing.T) {
	c := setupDB(t)
	ctx := context.Background()
	users := NewUsersStore(c.UsersCollection())
	msgs := NewMessagesStore(c.MessagesCollection())

	a, _ := users.CreateUser(ctx, "a@example.com", "hash", "A", RoleUser, nil)
	b, _ := users.CreateUser(ctx, "b@example.com", "hash", "B", RoleUser, nil)

	if _, err := msgs.Send(ctx, a.ID, b.ID, "first"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := msgs.Send(ctx, b.ID, a.ID, "second"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := msgs.Send(ctx, a.ID, b.ID, "third"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	history, err := msgs.History(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(history))
	}
	if history[len(history)-1].Content != "third" {
		t.Fatalf("newest send must be the last element, got %q", history[len(history)-1].Content)
	}
	for i := 1; i < len(history); i++ {
		if history[i].CreatedAt.Before(history[i-1].CreatedAt) {
			t.Fatal("history must be ascending by creation time")
		}
	}
}

func TestMessagesStore_MarkReadIdempotent(t *testing.T) {
	c := setupDB(t)
	ctx := context.Background()
	users := NewUsersStore(c.UsersCollection())
	msgs := NewMessagesStore(c.MessagesCollection())

	a, _ := users.CreateUser(ctx, "a@example.com", "hash", "A", RoleUser, nil)
	b, _ := users.CreateUser(ctx, "b@example.com", "hash", "B", RoleUser, nil)

	if _, err := msgs.Send(ctx, a.ID, b.ID, "one"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := msgs.Send(ctx, a.ID, b.ID, "two"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	n, err := msgs.MarkRead(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows updated, got %d", n)
	}

	n, err = msgs.MarkRead(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("MarkRead repeat errored: %v", err)
	}
	if n != 0 {
		t.Fatalf("repeat with nothing unread must update zero rows, got %d", n)
	}
}

func TestMessagesStore_PartnerIDsAndPreviews(t *testing.T) {
	c := setupDB(t)
	ctx := context.Background()
	users := NewUsersStore(c.UsersCollection())
	msgs := NewMessagesStore(c.MessagesCollection())

	a, _ := users.CreateUser(ctx, "a@example.com", "hash", "A", RoleUser, nil)
	b, _ := users.CreateUser(ctx, "b@example.com", "hash", "B", RoleUser, nil)
	d, _ := users.CreateUser(ctx, "d@example.com", "hash", "D", RoleUser, nil)

	_, _ = msgs.Send(ctx, a.ID, b.ID, "to b")
	_, _ = msgs.Send(ctx, d.ID, a.ID, "from d")
	_, _ = msgs.Send(ctx, d.ID, a.ID, "from d again")

	partners, err := msgs.PartnerIDs(ctx, a.ID)
	if err != nil {
		t.Fatalf("PartnerIDs failed: %v", err)
	}
	if len(partners) != 2 {
		t.Fatalf("expected 2 distinct partners, got %d", len(partners))
	}

	previews, err := msgs.ConversationPreviews(ctx, a.ID)
	if err != nil {
		t.Fatalf("ConversationPreviews failed: %v", err)
	}
	if len(previews) != 2 {
		t.Fatalf("expected 2 previews, got %d", len(previews))
	}
	// most recent conversation first
	if previews[0].PartnerID != d.ID.Hex() {
		t.Fatalf("expected most recent partner first, got %s", previews[0].PartnerID)
	}
	if previews[0].LastMessage != "from d again" {
		t.Fatalf("expected newest message in preview, got %q", previews[0].LastMessage)
	}
	if previews[0].UnreadCount != 2 {
		t.Fatalf("expected 2 unread from d, got %d", previews[0].UnreadCount)
	}

	unread, err := msgs.UnreadCount(ctx, d.ID, a.ID)
	if err != nil || unread != 2 {
		t.Fatalf("UnreadCount = %d, err = %v; want 2", unread, err)
	}

	last, err := msgs.LastMessageBetween(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("LastMessageBetween failed: %v", err)
	}
	if last == nil || last.Content != "to b" {
		t.Fatalf("unexpected last message: %+v", last)
	}

	none, err := msgs.LastMessageBetween(ctx, b.ID, d.ID)
	if err != nil {
		t.Fatalf("LastMessageBetween failed: %v", err)
	}
	if none != nil {
		t.Fatal("expected nil for a pair with no history")
	}
}
