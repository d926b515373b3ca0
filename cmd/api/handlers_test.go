package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/akindipe/careerbridge/internal/apperr"
	"github.com/akindipe/careerbridge/internal/auth"
	"github.com/akindipe/careerbridge/internal/chat"
	"github.com/akindipe/careerbridge/internal/data"
	"github.com/akindipe/careerbridge/internal/middleware"
)

type fakeUsers struct {
	byEmail map[string]*data.User
	byID    map[string]*data.User
	touched []string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail: make(map[string]*data.User),
		byID:    make(map[string]*data.User),
	}
}

func (f *fakeUsers) add(u *data.User) {
	f.byEmail[u.Email] = u
	f.byID[u.ID.Hex()] = u
}

func (f *fakeUsers) CreateUser(_ context.Context, email, hashedPassword, name string, role data.Role, mentor *bson.ObjectID) (*data.User, error) {
	if !data.ValidRole(role) {
		return nil, apperr.Validation("invalid role")
	}
	if _, ok := f.byEmail[email]; ok {
		return nil, apperr.Validation("email already registered")
	}
	u := &data.User{
		ID:       bson.NewObjectID(),
		Email:    email,
		Password: hashedPassword,
		Name:     name,
		Role:     role,
		Mentor:   mentor,
	}
	f.add(u)
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*data.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUsers) UserExists(_ context.Context, id bson.ObjectID) (bool, error) {
	_, ok := f.byID[id.Hex()]
	return ok, nil
}

func (f *fakeUsers) TouchLastSeen(_ context.Context, id bson.ObjectID) error {
	f.touched = append(f.touched, id.Hex())
	return nil
}

type fakeMsgs struct {
	sent       []data.Message
	markedRead int
	unread     int64
}

func (f *fakeMsgs) Send(_ context.Context, sender, recipient bson.ObjectID, content string) (*data.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("message content cannot be empty")
	}
	m := data.Message{
		ID:        bson.NewObjectID(),
		Sender:    sender,
		Recipient: recipient,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.sent = append(f.sent, m)
	return &m, nil
}

func (f *fakeMsgs) History(_ context.Context, _, _ bson.ObjectID) ([]data.Message, error) {
	return f.sent, nil
}

func (f *fakeMsgs) MarkRead(_ context.Context, _, _ bson.ObjectID) (int64, error) {
	f.markedRead++
	return f.unread, nil
}

func (f *fakeMsgs) ConversationPreviews(_ context.Context, _ bson.ObjectID) ([]data.ConversationPreview, error) {
	return []data.ConversationPreview{}, nil
}

type fakeContacts struct {
	views []data.ContactView
	err   error
}

func (f *fakeContacts) BuildContactList(_ context.Context, _ bson.ObjectID) ([]data.ContactView, error) {
	return f.views, f.err
}

type testEnv struct {
	users    *fakeUsers
	msgs     *fakeMsgs
	contacts *fakeContacts
	jwt      *auth.JWTManager
	handler  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newFakeUsers()
	msgs := &fakeMsgs{}
	contacts := &fakeContacts{}
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)

	hub := chat.NewHub(nil)
	throttle := data.NewReadThrottle(2*time.Second, 10*time.Minute, time.Minute)
	t.Cleanup(throttle.Stop)

	limiter := middleware.NewLimiterStore(10000, 10000, time.Minute)
	t.Cleanup(limiter.Stop)

	srv := newServer(users, msgs, contacts, jwtMgr, hub, chat.NewRouter(hub), throttle)
	return &testEnv{
		users:    users,
		msgs:     msgs,
		contacts: contacts,
		jwt:      jwtMgr,
		handler:  srv.routes(limiter),
	}
}

// seedUser registers a user directly in the fake store and returns it with a
// valid bearer token.
func (e *testEnv) seedUser(t *testing.T, email, password string, role data.Role) (*data.User, string) {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	u := &data.User{
		ID:       bson.NewObjectID(),
		Email:    email,
		Password: hash,
		Name:     strings.Split(email, "@")[0],
		Role:     role,
	}
	e.users.add(u)

	token, _, err := e.jwt.GenerateToken(u.ID.Hex(), u.Email, string(u.Role))
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return u, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "Ada@Example.com",
		"password": "secret123",
		"name":     "Ada",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if !resp.Success {
		t.Fatal("expected success envelope")
	}

	payload, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("data has unexpected shape: %T", resp.Data)
	}
	if payload["token"] == "" {
		t.Error("expected a token in the response")
	}
	user, ok := payload["user"].(map[string]any)
	if !ok {
		t.Fatalf("user has unexpected shape: %T", payload["user"])
	}
	if user["email"] != "ada@example.com" {
		t.Errorf("email = %v, want normalized ada@example.com", user["email"])
	}
	if user["role"] != "user" {
		t.Errorf("role = %v, want default user", user["role"])
	}
	if _, leaked := user["password"]; leaked {
		t.Error("password hash leaked in response")
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "secret123", "name": "Ada"}},
		{"missing password", map[string]string{"email": "a@b.com", "name": "Ada"}},
		{"short password", map[string]string{"email": "a@b.com", "password": "abc", "name": "Ada"}},
		{"bad mentor id", map[string]string{"email": "a@b.com", "password": "secret123", "name": "Ada", "mentor": "nothex"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/auth/register", "", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "taken@example.com", "secret123", data.RoleUser)

	rec := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "taken@example.com",
		"password": "secret123",
		"name":     "Copycat",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	u, _ := env.seedUser(t, "ada@example.com", "secret123", data.RoleUser)

	rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if len(env.users.touched) != 1 || env.users.touched[0] != u.ID.Hex() {
		t.Errorf("expected last seen touch for %s, got %v", u.ID.Hex(), env.users.touched)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "ada@example.com", "secret123", data.RoleUser)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"wrong password", map[string]string{"email": "ada@example.com", "password": "wrong"}},
		{"unknown account", map[string]string{"email": "ghost@example.com", "password": "secret123"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/auth/login", "", tc.body)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Message != "invalid credentials" {
				t.Errorf("message = %q, want the uniform credential error", resp.Message)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/messages"},
		{http.MethodGet, "/messages/contacts"},
		{http.MethodPost, "/messages"},
	}
	for _, p := range paths {
		rec := env.do(t, p.method, p.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want %d", p.method, p.path, rec.Code, http.StatusUnauthorized)
		}
	}

	rec := env.do(t, http.MethodGet, "/messages", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestSendMessage(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "sender@example.com", "secret123", data.RoleUser)
	recipient, _ := env.seedUser(t, "mentor@example.com", "secret123", data.RoleMentor)

	rec := env.do(t, http.MethodPost, "/messages", token, map[string]string{
		"recipientId": recipient.ID.Hex(),
		"content":     "hello there",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if len(env.msgs.sent) != 1 {
		t.Fatalf("persisted %d messages, want 1", len(env.msgs.sent))
	}
	if env.msgs.sent[0].Recipient != recipient.ID {
		t.Errorf("recipient = %s, want %s", env.msgs.sent[0].Recipient.Hex(), recipient.ID.Hex())
	}
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "sender@example.com", "secret123", data.RoleUser)
	recipient, _ := env.seedUser(t, "mentor@example.com", "secret123", data.RoleMentor)

	rec := env.do(t, http.MethodPost, "/messages", token, map[string]string{
		"recipientId": recipient.ID.Hex(),
		"content":     "   ",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(env.msgs.sent) != 0 {
		t.Errorf("persisted %d messages, want 0", len(env.msgs.sent))
	}
}

func TestSendMessageRejectsUnknownRecipient(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "sender@example.com", "secret123", data.RoleUser)

	rec := env.do(t, http.MethodPost, "/messages", token, map[string]string{
		"recipientId": bson.NewObjectID().Hex(),
		"content":     "hello",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = env.do(t, http.MethodPost, "/messages", token, map[string]string{
		"recipientId": "nothex",
		"content":     "hello",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)
	sender, token := env.seedUser(t, "sender@example.com", "secret123", data.RoleUser)
	other, _ := env.seedUser(t, "mentor@example.com", "secret123", data.RoleMentor)

	if _, err := env.msgs.Send(context.Background(), sender.ID, other.ID, "first"); err != nil {
		t.Fatalf("seeding message: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/messages/"+other.ID.Hex(), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	items, ok := resp.Data.([]any)
	if !ok {
		t.Fatalf("data has unexpected shape: %T", resp.Data)
	}
	if len(items) != 1 {
		t.Errorf("returned %d messages, want 1", len(items))
	}
}

func TestMarkReadThrottled(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "reader@example.com", "secret123", data.RoleUser)
	sender, _ := env.seedUser(t, "sender@example.com", "secret123", data.RoleMentor)
	env.msgs.unread = 3

	first := env.do(t, http.MethodPut, "/messages/"+sender.ID.Hex()+"/read", token, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", first.Code, http.StatusOK, first.Body.String())
	}
	resp := decodeEnvelope(t, first)
	payload := resp.Data.(map[string]any)
	if payload["cached"] != false || payload["updated"] != float64(3) {
		t.Errorf("first call = %v, want updated 3 and cached false", payload)
	}

	second := env.do(t, http.MethodPut, "/messages/"+sender.ID.Hex()+"/read", token, nil)
	if second.Code != http.StatusOK {
		t.Fatalf("throttled status = %d, want %d", second.Code, http.StatusOK)
	}
	resp = decodeEnvelope(t, second)
	payload = resp.Data.(map[string]any)
	if payload["cached"] != true {
		t.Errorf("second call inside the window should be cached, got %v", payload)
	}
	if env.msgs.markedRead != 1 {
		t.Errorf("store written %d times, want 1", env.msgs.markedRead)
	}
}

func TestContacts(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "ada@example.com", "secret123", data.RoleUser)

	env.contacts.views = []data.ContactView{
		{Candidate: data.Candidate{UserID: bson.NewObjectID().Hex(), Name: "Mentor M", Role: data.RoleMentor}, UnreadCount: 2, LastMessageTime: "Yesterday"},
		{Candidate: data.Candidate{UserID: bson.NewObjectID().Hex(), Name: "Admin A", Role: data.RoleAdmin}},
	}

	rec := env.do(t, http.MethodGet, "/messages/contacts", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	items, ok := resp.Data.([]any)
	if !ok {
		t.Fatalf("data has unexpected shape: %T", resp.Data)
	}
	if len(items) != 2 {
		t.Fatalf("returned %d contacts, want 2", len(items))
	}
}

func TestContactsInternalErrorIsOpaque(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "ada@example.com", "secret123", data.RoleUser)
	env.contacts.err = context.DeadlineExceeded

	rec := env.do(t, http.MethodGet, "/messages/contacts", token, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Message != "internal server error" {
		t.Errorf("message = %q, internal detail must not leak", resp.Message)
	}
}
