package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
)

type tokenIssuer struct {
	clientID     string
	clientSecret string
	ttl          time.Duration

	mu     sync.Mutex
	issued map[string]time.Time
}

func newTokenIssuer(clientID, clientSecret string, ttl time.Duration) *tokenIssuer {
	return &tokenIssuer{
		clientID:     clientID,
		clientSecret: clientSecret,
		ttl:          ttl,
		issued:       make(map[string]time.Time),
	}
}

// ServeToken implements the client-credentials grant with form-encoded
// credentials.
func (t *tokenIssuer) ServeToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	if r.PostForm.Get("grant_type") != "client_credentials" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
		return
	}
	if r.PostForm.Get("client_id") != t.clientID || r.PostForm.Get("client_secret") != t.clientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
		return
	}

	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	token := hex.EncodeToString(buf)

	t.mu.Lock()
	t.issued[token] = time.Now().Add(t.ttl)
	t.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"type":         "amadeusOAuth2Token",
		"token_type":   "Bearer",
		"access_token": token,
		"expires_in":   int(t.ttl.Seconds()),
		"state":        "approved",
	})
}

// Require rejects requests without a live bearer token.
func (t *tokenIssuer) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		t.mu.Lock()
		expiry, ok := t.issued[token]
		t.mu.Unlock()

		if !ok || time.Now().After(expiry) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"errors": []map[string]any{{"status": 401, "title": "Invalid access token"}},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
