package auth

import (
	"errors"
	"fmt"
)

var (
	ErrProviderReported = errors.New("identity provider reported an error")
	ErrMissingCode      = errors.New("authorization code is required")
	ErrStateMismatch    = errors.New("invalid state parameter")
	ErrTokenExchange    = errors.New("failed to exchange code for tokens")
	ErrAssertionInvalid = errors.New("invalid identity assertion")
	ErrUnauthorized     = errors.New("invalid or missing session token")
	ErrForbidden        = errors.New("admin access required")
)

// Reasons an identity assertion can be rejected. They are logged and counted,
// never returned to the client.
const (
	ReasonSignature = "signature"
	ReasonAudience  = "audience"
	ReasonIssuer    = "issuer"
	ReasonExpired   = "expired"
	ReasonMalformed = "malformed"
	ReasonClaims    = "claims"
	ReasonInvalid   = "invalid"
)

// AssertionError describes why an ID token failed verification. It matches
// ErrAssertionInvalid with errors.Is.
type AssertionError struct {
	Reason string
	Err    error
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrAssertionInvalid, e.Reason, e.Err)
}

func (e *AssertionError) Unwrap() error {
	return e.Err
}

func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertionInvalid
}

// ProviderError carries the error code the identity provider sent back on the
// redirect. It matches ErrProviderReported with errors.Is.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s (%s)", ErrProviderReported, e.Code, e.Description)
	}
	return fmt.Sprintf("%s: %s", ErrProviderReported, e.Code)
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderReported
}
