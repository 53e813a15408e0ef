package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"items-api/internal/config"
	"net/http"
	"time"
)

const stateBytes = 32

// StateManager issues and checks the anti-CSRF value that ties an OAuth
// redirect back to the browser that started it. Nothing is stored server side:
// the value lives in a short-lived cookie and in the state query parameter.
type StateManager struct {
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

type LoginState struct {
	Value    string
	IssuedAt time.Time
	TTL      time.Duration
}

func NewStateManager(cfg *config.Config) *StateManager {
	return &StateManager{
		cookieName: cfg.State.CookieName,
		ttl:        cfg.State.TTL,
		secure:     cfg.IsProduction(),
		now:        time.Now,
	}
}

// Issue creates a fresh state value and the cookie that carries it.
func (s *StateManager) Issue() (LoginState, *http.Cookie, error) {
	value, err := GenerateRandString(stateBytes)
	if err != nil {
		return LoginState{}, nil, fmt.Errorf("failed to generate state: %w", err)
	}

	issuedAt := s.now()
	state := LoginState{Value: value, IssuedAt: issuedAt, TTL: s.ttl}

	cookie := &http.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		Expires:  issuedAt.Add(s.ttl),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}

	return state, cookie, nil
}

// Validate accepts only when both values are present and equal.
func (s *StateManager) Validate(cookieValue, queryValue string) error {
	if cookieValue == "" || queryValue == "" {
		return ErrStateMismatch
	}

	if subtle.ConstantTimeCompare([]byte(cookieValue), []byte(queryValue)) != 1 {
		return ErrStateMismatch
	}

	return nil
}

// ValidateRequest reads the state cookie and query parameter from r.
func (s *StateManager) ValidateRequest(r *http.Request) error {
	var cookieValue string
	if c, err := r.Cookie(s.cookieName); err == nil {
		cookieValue = c.Value
	}
	return s.Validate(cookieValue, r.URL.Query().Get("state"))
}

// Clear returns a cookie that removes the state from the browser.
func (s *StateManager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// GenerateRandString returns n bytes from crypto/rand, base64url encoded
// without padding.
func GenerateRandString(n int) (string, error) {
	if n <= 0 {
		n = stateBytes
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
