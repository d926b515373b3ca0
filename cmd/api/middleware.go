package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/akindipe/careerbridge/internal/apperr"
	"github.com/akindipe/careerbridge/internal/auth"
)

// context key type for storing auth claims in the request context
type authContextKey struct{}

// claimsFromContext extracts auth claims from the context, if present.
func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	v := ctx.Value(authContextKey{})
	if v == nil {
		return nil, false
	}
	c, ok := v.(*auth.Claims)
	return c, ok
}

// requireAuth enforces a bearer token on every route of its subrouter and
// attaches the verified claims to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.verifyRequest(r)
		if err != nil {
			respondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), authContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// verifyRequest checks the bearer credential on a request. The WebSocket
// handshake also accepts the token as a query parameter because browser
// WebSocket clients cannot set headers.
func (s *Server) verifyRequest(r *http.Request) (*auth.Claims, error) {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return nil, apperr.Authentication("missing authorization token")
	}

	claims, err := s.auth.VerifyToken(token)
	if err != nil {
		return nil, apperr.Authentication("invalid or expired token")
	}
	return claims, nil
}

// credentialKey derives the rate-limiter key for register/login: the
// submitted email when present, so one account cannot be hammered from many
// addresses, with an empty fallback letting the limiter key on remote addr.
func credentialKey(r *http.Request) string {
	var body struct {
		Email string `json:"email"`
	}
	raw := peekBody(r)
	if err := json.Unmarshal(raw, &body); err != nil || body.Email == "" {
		return ""
	}
	return "email:" + body.Email
}
