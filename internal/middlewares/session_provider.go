package middlewares

import (
	"items-api/internal/auth"
	"items-api/internal/models"
	"net/http"
	"time"
)

// StateProvider issues and checks the anti-CSRF login state cookie.
type StateProvider interface {
	Issue() (auth.LoginState, *http.Cookie, error)
	ValidateRequest(r *http.Request) error
	Clear() *http.Cookie
}

// SessionProvider mints and verifies bearer session tokens.
type SessionProvider interface {
	Issue(identity *models.Identity) (string, error)
	Verify(token string) (*models.Identity, error)
	TTL() time.Duration
}
