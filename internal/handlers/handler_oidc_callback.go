package handlers

import (
	"errors"
	"items-api/internal/auth"
	"items-api/internal/metrics"
	"items-api/internal/middlewares"
	"net/http"
)

// GETGoogleCallback finishes the login. Checks run in a fixed order and the
// provider is never contacted until the state has been validated.
func GETGoogleCallback(ctx *middlewares.AppContext) {
	query := ctx.Request.URL.Query()

	if errorParam := query.Get("error"); errorParam != "" {
		providerErr := &auth.ProviderError{Code: errorParam, Description: query.Get("error_description")}
		ctx.Logger.Warn("Google OAuth callback error", "error", providerErr)
		metrics.LoginAttempts.WithLabelValues(metrics.LoginOutcomeProviderError).Inc()
		ctx.WriteFailure(http.StatusBadRequest, MessageProviderError, errorParam)
		return
	}

	code := query.Get("code")
	if code == "" {
		ctx.Logger.Warn("Callback without authorization code", "error", auth.ErrMissingCode)
		metrics.LoginAttempts.WithLabelValues(metrics.LoginOutcomeMissingCode).Inc()
		ctx.WriteFailure(http.StatusBadRequest, MessageCodeRequired, "")
		return
	}

	if err := ctx.StateManager.ValidateRequest(ctx.Request); err != nil {
		ctx.Logger.Warn("Rejected callback with invalid state", "error", err)
		metrics.LoginAttempts.WithLabelValues(metrics.LoginOutcomeStateMismatch).Inc()
		ctx.WriteFailure(http.StatusBadRequest, MessageInvalidState, "")
		return
	}

	// The state is single use from here on, whatever the outcome.
	http.SetCookie(ctx.Response, ctx.StateManager.Clear())

	tokens, err := ctx.IdentityProvider.Exchange(ctx, code)
	if err != nil {
		ctx.Logger.Error("Failed to exchange authorization code", "error", err)
		metrics.LoginAttempts.WithLabelValues(metrics.LoginOutcomeExchangeFailed).Inc()
		ctx.WriteFailure(http.StatusInternalServerError, MessageAuthFailed, DetailExchangeFailed)
		return
	}

	identity, err := ctx.IdentityProvider.VerifyIDToken(ctx, tokens.IDToken)
	if err != nil {
		reason := auth.ReasonInvalid
		var assertionErr *auth.AssertionError
		if errors.As(err, &assertionErr) {
			reason = assertionErr.Reason
		}

		ctx.Logger.Error("Failed to verify Google ID token", "error", err, "reason", reason)
		metrics.LoginAttempts.WithLabelValues(metrics.LoginOutcomeAssertionFailed).Inc()
		ctx.WriteFailure(http.StatusInternalServerError, MessageAuthFailed, DetailInvalidGoogleToken)
		return
	}

	token, err := ctx.SessionManager.Issue(identity)
	if err != nil {
		ctx.Logger.Error("Failed to issue session token", "error", err, "user_id", identity.ID)
		metrics.LoginAttempts.WithLabelValues(metrics.LoginOutcomeIssueFailed).Inc()
		ctx.WriteFailure(http.StatusInternalServerError, MessageAuthFailed, DetailSessionIssueFailed)
		return
	}

	ctx.Logger.Info("User successfully authenticated",
		"user_id", identity.ID,
		"email", RedactEmail(identity.Email),
	)
	metrics.LoginAttempts.WithLabelValues(metrics.LoginOutcomeSuccess).Inc()

	ctx.WriteSuccess(http.StatusOK, MessageAuthSuccessful, LoginResult{
		Token: token,
		User:  identity.Profile(),
	})
}
