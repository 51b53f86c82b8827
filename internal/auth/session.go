// Package auth owns the session subsystem: the in-process SessionRegistry that
// maps opaque tokens to identities, and the Gate middleware that turns the
// request's `token` cookie into an authorization decision.
//
// SESSION LIFECYCLE:
//
//	Create  → token is issued (live)
//	Revoke  → token is gone (terminal; the same token never comes back)
//
// There is no expiry: a session lives until logout or process restart.
// Sessions are never persisted, so a restart logs everybody out.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"github.com/rs/xid"
)

// TokenBytes is the amount of randomness in a session token.
// Tokens are hex encoded, so the cookie value is 2*TokenBytes characters.
const TokenBytes = 16

// Identity is what a live token resolves to.
//
// IsAdmin is a snapshot taken at login. Changing the user's role in the
// database does not affect sessions that already exist.
type Identity struct {
	UserID  int64
	IsAdmin bool
	// Handle is a non-secret identifier for the session, safe to log.
	Handle string
}

// SessionRegistry is the sole holder of the token → identity mapping.
//
// It is safe for concurrent use. Resolve takes a read lock so lookups from
// many requests run in parallel; Create and Revoke take the write lock.
// Construct one per process with NewSessionRegistry and share the pointer.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Identity
	random   io.Reader
}

// NewSessionRegistry returns an empty registry backed by crypto/rand.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]Identity),
		random:   rand.Reader,
	}
}

// Create issues a new token for the given user and role snapshot.
//
// The token is TokenBytes of crypto/rand output, hex encoded. Collisions are
// not checked: with 128 bits of entropy they are not a practical concern.
// The only error source is the random reader.
func (r *SessionRegistry) Create(userID int64, isAdmin bool) (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := io.ReadFull(r.random, buf); err != nil {
		return "", fmt.Errorf("auth: generating session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	r.mu.Lock()
	r.sessions[token] = Identity{
		UserID:  userID,
		IsAdmin: isAdmin,
		Handle:  xid.New().String(),
	}
	r.mu.Unlock()

	return token, nil
}

// Resolve looks up a token. The boolean is false if the token was never
// issued or has been revoked.
func (r *SessionRegistry) Resolve(token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.sessions[token]
	return id, ok
}

// Revoke ends a session. Revoking an unknown token is a no-op.
func (r *SessionRegistry) Revoke(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Len reports the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
