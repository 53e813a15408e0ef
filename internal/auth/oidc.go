package auth

import (
	"context"
	"errors"
	"fmt"
	"items-api/internal/config"
	"items-api/internal/metrics"
	"items-api/internal/models"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
)

// ProviderTokens is what the token endpoint returned for an authorization code.
type ProviderTokens struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       time.Time
}

// GoogleProvider talks to Google's OAuth2 endpoints and verifies the ID tokens
// they hand back. Configuration is loaded once and never mutated.
type GoogleProvider struct {
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
	httpClient   *http.Client
	limiter      *rate.Limiter
	retries      uint
	timeout      time.Duration
	logger       *slog.Logger
}

type GoogleProviderOption func(*googleProviderOptions)

type googleProviderOptions struct {
	endpoint   *oauth2.Endpoint
	keySet     oidc.KeySet
	httpClient *http.Client
	now        func() time.Time
}

// WithEndpoint replaces Google's authorization and token endpoints.
func WithEndpoint(endpoint oauth2.Endpoint) GoogleProviderOption {
	return func(o *googleProviderOptions) {
		o.endpoint = &endpoint
	}
}

// WithKeySet replaces the remote JWKS used to check ID token signatures.
func WithKeySet(keySet oidc.KeySet) GoogleProviderOption {
	return func(o *googleProviderOptions) {
		o.keySet = keySet
	}
}

func WithHTTPClient(client *http.Client) GoogleProviderOption {
	return func(o *googleProviderOptions) {
		o.httpClient = client
	}
}

func WithClock(now func() time.Time) GoogleProviderOption {
	return func(o *googleProviderOptions) {
		o.now = now
	}
}

// NewGoogleProvider builds the adapter without any network round trip. Signing
// keys are fetched lazily on the first verification.
func NewGoogleProvider(cfg config.GoogleConfig, logger *slog.Logger, opts ...GoogleProviderOption) *GoogleProvider {
	options := &googleProviderOptions{}
	for _, opt := range opts {
		opt(options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	endpoint := google.Endpoint
	if options.endpoint != nil {
		endpoint = *options.endpoint
	}

	keySet := options.keySet
	if keySet == nil {
		keySet = oidc.NewRemoteKeySet(oidc.ClientContext(context.Background(), httpClient), cfg.JWKSURL)
	}

	verifier := oidc.NewVerifier(cfg.IssuerURL, keySet, &oidc.Config{
		ClientID: cfg.ClientID,
		Now:      options.now,
	})

	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       cfg.Scopes,
			RedirectURL:  cfg.RedirectURI,
		},
		verifier:   verifier,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.ExchangeRate), cfg.ExchangeBurst),
		retries:    cfg.ExchangeRetries,
		timeout:    cfg.HTTPTimeout,
		logger:     logger,
	}
}

// AuthCodeURL is deterministic for a given state and performs no I/O.
func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.oauth2Config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*ProviderTokens, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	if err := g.limiter.Wait(ctx); err != nil {
		metrics.ProviderRequestErrors.WithLabelValues(metrics.ProviderOperationExchange).Inc()
		return nil, fmt.Errorf("%w: outbound limit: %v", ErrTokenExchange, err)
	}

	start := time.Now()
	token, err := backoff.Retry(ctx, func() (*oauth2.Token, error) {
		token, err := g.oauth2Config.Exchange(ctx, code)
		if err != nil {
			if !isRetryableExchangeError(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return token, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(g.retries+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			g.logger.Warn("retrying token exchange", "error", err, "backoff", next)
		}),
	)
	metrics.ProviderRequestDuration.WithLabelValues(metrics.ProviderOperationExchange).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderRequestErrors.WithLabelValues(metrics.ProviderOperationExchange).Inc()
		return nil, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		metrics.ProviderRequestErrors.WithLabelValues(metrics.ProviderOperationExchange).Inc()
		return nil, fmt.Errorf("%w: no id_token found in token response", ErrTokenExchange)
	}

	return &ProviderTokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		IDToken:      rawIDToken,
		Expiry:       token.Expiry,
	}, nil
}

// isRetryableExchangeError only lets transport failures and 5xx responses be
// retried. A 4xx means the code was rejected and retrying cannot help.
func isRetryableExchangeError(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (g *GoogleProvider) VerifyIDToken(ctx context.Context, rawIDToken string) (*models.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	idToken, err := g.verifier.Verify(oidc.ClientContext(ctx, g.httpClient), rawIDToken)
	metrics.ProviderRequestDuration.WithLabelValues(metrics.ProviderOperationVerify).Observe(time.Since(start).Seconds())
	if err != nil {
		assertionErr := &AssertionError{Reason: classifyVerifyError(err), Err: err}
		metrics.AssertionFailures.WithLabelValues(assertionErr.Reason).Inc()
		return nil, assertionErr
	}

	identity, err := extractIdentity(idToken)
	if err != nil {
		metrics.AssertionFailures.WithLabelValues(ReasonClaims).Inc()
		return nil, &AssertionError{Reason: ReasonClaims, Err: err}
	}

	return identity, nil
}

func extractIdentity(idToken *oidc.IDToken) (*models.Identity, error) {
	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse id token claims: %w", err)
	}

	if idToken.Subject == "" {
		return nil, errors.New("id token has no subject")
	}

	return &models.Identity{
		ID:            idToken.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		Picture:       claims.Picture,
		EmailVerified: claims.EmailVerified,
	}, nil
}

func classifyVerifyError(err error) string {
	var expired *oidc.TokenExpiredError
	if errors.As(err, &expired) {
		return ReasonExpired
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "expected audience"):
		return ReasonAudience
	case strings.Contains(msg, "issued by a different provider"):
		return ReasonIssuer
	case strings.Contains(msg, "failed to verify signature"),
		strings.Contains(msg, "unsupported algorithm"),
		strings.Contains(msg, "id token not signed"):
		return ReasonSignature
	case strings.Contains(msg, "malformed jwt"):
		return ReasonMalformed
	}

	return ReasonInvalid
}
