package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// BearerScheme is the Authorization scheme session tokens are presented with.
const BearerScheme = "Bearer"

var (
	ErrMissingAuthzHeader     = errors.New("missing authorization header")
	ErrInvalidAuthzHeader     = errors.New("invalid authorization header")
	ErrUnsupportedAuthzScheme = errors.New("unsupported authorization scheme")
	ErrMissingAuthzToken      = errors.New("missing authorization token")
)

// ExtractBearerToken returns the session token from an
// "Authorization: Bearer <token>" header. The scheme is matched
// case-insensitively and surrounding whitespace on the token is ignored.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", ErrMissingAuthzHeader
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok {
		if strings.EqualFold(scheme, BearerScheme) {
			return "", ErrMissingAuthzToken
		}
		return "", ErrInvalidAuthzHeader
	}

	if !strings.EqualFold(scheme, BearerScheme) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAuthzScheme, scheme)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingAuthzToken
	}

	return token, nil
}
