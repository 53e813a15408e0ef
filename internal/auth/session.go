package auth

import (
	"errors"
	"fmt"
	"items-api/internal/config"
	"items-api/internal/metrics"
	"items-api/internal/models"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	UserID        string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	jwt.RegisteredClaims
}

func (c *SessionClaims) Identity() *models.Identity {
	return &models.Identity{
		ID:            c.UserID,
		Email:         c.Email,
		Name:          c.Name,
		Picture:       c.Picture,
		EmailVerified: c.EmailVerified,
	}
}

// SessionIssuer mints and verifies the stateless HS256 bearer tokens handed
// out after a successful login. Nothing about a session is stored: validity
// is recomputed from the signature and the exp claim on every request.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewSessionIssuer(cfg config.SessionConfig) (*SessionIssuer, error) {
	if len(cfg.Secret) < config.MinSessionSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d characters", config.MinSessionSecretLength)
	}

	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", cfg.TTL)
	}

	return &SessionIssuer{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for identity. iat is always the issuer's clock and exp
// is exactly iat plus the configured ttl.
func (s *SessionIssuer) Issue(identity *models.Identity) (string, error) {
	if identity == nil || identity.ID == "" {
		return "", errors.New("cannot issue a session token without a subject")
	}

	issuedAt := s.now().UTC().Truncate(time.Second)

	claims := SessionClaims{
		UserID:        identity.ID,
		Email:         identity.Email,
		Name:          identity.Name,
		Picture:       identity.Picture,
		EmailVerified: identity.EmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   identity.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	metrics.SessionTokensIssued.Inc()

	return signed, nil
}

// ParseClaims checks the signature, algorithm and expiry of token. Tokens are
// stamped with the configured issuer, but iss is only compared when present.
func (s *SessionIssuer) ParseClaims(token string) (*SessionClaims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	var claims SessionClaims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if claims.Issuer != "" && s.issuer != "" && claims.Issuer != s.issuer {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, jwt.ErrTokenInvalidIssuer)
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: token has no id claim", ErrUnauthorized)
	}

	return &claims, nil
}

func (s *SessionIssuer) Verify(token string) (*models.Identity, error) {
	claims, err := s.ParseClaims(token)
	if err != nil {
		return nil, err
	}
	return claims.Identity(), nil
}
