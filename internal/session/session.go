// Package session keeps the per browser state of the portal: the token
// pair, the cached user profile and pending toasts. Records live in a
// Store keyed by an opaque cookie id.
package session

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yigit/schoolportal/internal/app/models"
)

// Toast kinds
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast is a one shot notification shown on the next rendered page
type Toast struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session is one browser's state. It is shared by the goroutines serving
// a single request, so fields are read and written through its methods.
type Session struct {
	ID           string       `json:"id"`
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         *models.User `json:"user,omitempty"`
	Flash        []Toast      `json:"flash,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`

	mu sync.RWMutex
}

// New returns an empty, unauthenticated session
func New(id string) *Session {
	return &Session{ID: id, CreatedAt: time.Now().UTC()}
}

func (s *Session) encode() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(s)
}

func decode(data []byte) (*Session, error) {
	s := &Session{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// IsAuthenticated reports whether the session carries an access token
func (s *Session) IsAuthenticated() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.AccessToken != ""
}

// Tokens returns the current token pair
func (s *Session) Tokens() models.TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.TokenPair{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken}
}

// SetTokens stores a pair; an empty refresh token keeps the current one
func (s *Session) SetTokens(pair models.TokenPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		s.RefreshToken = pair.RefreshToken
	}
}

// SetUser caches the profile
func (s *Session) SetUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.User = &u
}

// CurrentUser returns a copy of the cached profile, or nil
func (s *Session) CurrentUser() *models.User {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.User == nil {
		return nil
	}
	u := *s.User
	return &u
}

// ClearAuth drops the tokens and the profile; pending toasts survive
func (s *Session) ClearAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AccessToken = ""
	s.RefreshToken = ""
	s.User = nil
}

// AddFlash queues a toast
func (s *Session) AddFlash(kind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Flash = append(s.Flash, Toast{Kind: kind, Message: message})
}

// TakeFlash returns and removes the queued toasts
func (s *Session) TakeFlash() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	toasts := s.Flash
	s.Flash = nil
	return toasts
}

// Roles returns the user's roles. When the cached profile has none, the
// role claims of the access token are used instead.
func (s *Session) Roles() []models.Role {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.User != nil && len(s.User.Roles) > 0 {
		return append([]models.Role(nil), s.User.Roles...)
	}
	return RolesFromToken(s.AccessToken)
}

// HasRole reports whether the session holds r
func (s *Session) HasRole(r models.Role) bool {
	for _, have := range s.Roles() {
		if have == r {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the session holds at least one of rs
func (s *Session) HasAnyRole(rs ...models.Role) bool {
	for _, r := range rs {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

// RolesFromToken reads `roles` or `role` from the JWT payload without
// verifying the signature. The backend verifies every call; the portal
// only uses the claim to pick screens.
func RolesFromToken(token string) []models.Role {
	if token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	var roles []models.Role
	switch v := claims["roles"].(type) {
	case []interface{}:
		for _, item := range v {
			if name, ok := item.(string); ok && name != "" {
				roles = append(roles, models.NormalizeRole(name))
			}
		}
	case string:
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				roles = append(roles, models.NormalizeRole(name))
			}
		}
	}
	if len(roles) == 0 {
		for _, key := range []string{"role", "roleType"} {
			if name, ok := claims[key].(string); ok && name != "" {
				roles = append(roles, models.NormalizeRole(name))
				break
			}
		}
	}
	return roles
}
