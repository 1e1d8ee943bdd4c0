// Package session issues and tracks worker sessions for the admin area.
//
// A session token is a signed JWT carrying the worker id plus a unique
// session id. Live session ids are kept in process memory so that logout
// invalidates a token immediately; tokens carry no expiry, matching the
// login-until-logout lifetime of the site.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the worker identity inside a session token.
type Claims struct {
	WorkerID uint64 `json:"worker_id"`
	jwt.RegisteredClaims
}

// Manager signs, resolves, and revokes session tokens.
type Manager struct {
	secret []byte

	mu   sync.RWMutex
	live map[string]uint64 // session id -> worker id
}

// NewManager constructs a session manager signing with the given secret.
func NewManager(secret string) *Manager {
	return &Manager{
		secret: []byte(secret),
		live:   make(map[string]uint64),
	}
}

// Issue creates a session bound to the worker and returns its token.
func (m *Manager) Issue(workerID uint64) (string, error) {
	if m == nil {
		return "", fmt.Errorf("session: nil manager")
	}
	sessionID, errID := randomSessionID()
	if errID != nil {
		return "", fmt.Errorf("session: generate id: %w", errID)
	}

	claims := Claims{
		WorkerID:         workerID,
		RegisteredClaims: jwt.RegisteredClaims{ID: sessionID},
	}
	token, errSign := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if errSign != nil {
		return "", fmt.Errorf("session: sign token: %w", errSign)
	}

	m.mu.Lock()
	m.live[sessionID] = workerID
	m.mu.Unlock()
	return token, nil
}

// Resolve verifies a token and returns the bound worker id.
// Tokens whose session has been revoked do not resolve.
func (m *Manager) Resolve(token string) (uint64, bool) {
	if m == nil {
		return 0, false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}

	claims := Claims{}
	parsed, errParse := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("session: unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if errParse != nil || !parsed.Valid {
		return 0, false
	}

	m.mu.RLock()
	workerID, ok := m.live[claims.ID]
	m.mu.RUnlock()
	if !ok || workerID != claims.WorkerID {
		return 0, false
	}
	return workerID, true
}

// Revoke ends the session carried by the token. Unknown or malformed
// tokens are ignored.
func (m *Manager) Revoke(token string) {
	if m == nil {
		return
	}
	claims := Claims{}
	if _, errParse := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}); errParse != nil {
		return
	}

	m.mu.Lock()
	delete(m.live, claims.ID)
	m.mu.Unlock()
}

// randomSessionID returns a fresh random session identifier.
func randomSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
