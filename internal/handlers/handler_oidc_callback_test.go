package handlers

import (
	"errors"
	"fmt"
	"items-api/internal/auth"
	"items-api/internal/models"
	"items-api/internal/testutil"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var googleUser = &models.Identity{
	ID:            "109876543210",
	Email:         "jane.doe@gmail.com",
	Name:          "Jane Doe",
	Picture:       "https://lh3.googleusercontent.com/a/photo.jpg",
	EmailVerified: true,
}

// newCallbackContext builds a callback request carrying a matching state
// cookie and query parameter plus the given code.
func newCallbackContext(t *testing.T, code string) *testutil.TestContext {
	t.Helper()

	tc := testutil.NewTestContextWithURL(t, http.MethodGet, "/auth/google/callback")

	state, cookie, err := tc.StateManager.Issue()
	require.NoError(t, err)

	tc.WithCookie(cookie)
	tc.WithQueryParam("state", state.Value)
	if code != "" {
		tc.WithQueryParam("code", code)
	}

	return tc
}

func assertStateCookieCleared(t *testing.T, tc *testutil.TestContext) {
	t.Helper()
	cookie := tc.GetCookie("oauth_state")
	if assert.NotNil(t, cookie, "expected state cookie to be cleared") {
		assert.Equal(t, "", cookie.Value)
		assert.Less(t, cookie.MaxAge, 0)
	}
}

func TestGETGoogleCallback_Success(t *testing.T) {
	tc := newCallbackContext(t, "4/0AX4XfWh")
	defer tc.Finish()

	gomock.InOrder(
		tc.MockProvider.EXPECT().Exchange(gomock.Any(), "4/0AX4XfWh").Return(&auth.ProviderTokens{
			AccessToken: "ya29.access",
			IDToken:     "google.id.token",
		}, nil),
		tc.MockProvider.EXPECT().VerifyIDToken(gomock.Any(), "google.id.token").Return(googleUser, nil),
	)

	before := time.Now().Truncate(time.Second)
	tc.CallHandler(GETGoogleCallback)

	tc.AssertStatus(t, http.StatusOK)
	tc.AssertContentType(t, "application/json")
	tc.AssertJSONBool(t, "result", true)
	tc.AssertJSONString(t, "message", MessageAuthSuccessful)
	assertStateCookieCleared(t, tc)

	data, ok := tc.GetJSONResponse(t)["data"].(map[string]interface{})
	require.True(t, ok)

	assert.Equal(t, map[string]interface{}{
		"id":      googleUser.ID,
		"email":   googleUser.Email,
		"name":    googleUser.Name,
		"picture": googleUser.Picture,
	}, data["user"])

	token, ok := data["token"].(string)
	require.True(t, ok)

	claims, err := tc.SessionIssuer.ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, googleUser.ID, claims.UserID)
	assert.Equal(t, googleUser.Email, claims.Email)
	assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	assert.False(t, claims.IssuedAt.Time.Before(before))

	tc.AssertLogContains(t, slog.LevelInfo, "User successfully authenticated")
	for _, record := range tc.GetLogRecords() {
		assert.NotEqual(t, googleUser.Email, record.Attrs["email"], "email must be redacted in logs")
	}
}

func TestGETGoogleCallback_ProviderErrorWins(t *testing.T) {
	tests := []struct {
		name  string
		setup func(tc *testutil.TestContext)
	}{
		{
			name:  "no code no state",
			setup: func(tc *testutil.TestContext) {},
		},
		{
			name: "valid code and state",
			setup: func(tc *testutil.TestContext) {
				state, cookie, _ := tc.StateManager.Issue()
				tc.WithCookie(cookie)
				tc.WithQueryParam("state", state.Value)
				tc.WithQueryParam("code", "abc")
			},
		},
		{
			name: "mismatched state",
			setup: func(tc *testutil.TestContext) {
				tc.WithQueryParam("state", "x")
				tc.WithQueryParam("code", "abc")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContextWithURL(t, http.MethodGet, "/auth/google/callback")
			defer tc.Finish()

			tt.setup(tc)
			tc.WithQueryParam("error", "access_denied")

			tc.CallHandler(GETGoogleCallback)

			tc.AssertStatus(t, http.StatusBadRequest)
			tc.AssertJSONBool(t, "result", false)
			tc.AssertJSONString(t, "message", MessageProviderError)
			tc.AssertJSONString(t, "error", "access_denied")
			tc.AssertLogContains(t, slog.LevelWarn, "Google OAuth callback error")
		})
	}
}

func TestGETGoogleCallback_MissingCode(t *testing.T) {
	tc := newCallbackContext(t, "")
	defer tc.Finish()

	tc.CallHandler(GETGoogleCallback)

	tc.AssertStatus(t, http.StatusBadRequest)
	tc.AssertJSONBool(t, "result", false)
	tc.AssertJSONString(t, "message", MessageCodeRequired)
}

func TestGETGoogleCallback_StateMismatchNeverCallsProvider(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		queryState string
	}{
		{name: "no cookie", queryState: "abc"},
		{name: "no query state", cookie: "abc"},
		{name: "different values", cookie: "abc", queryState: "abd"},
		{name: "both empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContextWithURL(t, http.MethodGet, "/auth/google/callback")
			defer tc.Finish()

			tc.WithQueryParam("code", "valid-code")
			if tt.queryState != "" {
				tc.WithQueryParam("state", tt.queryState)
			}
			if tt.cookie != "" {
				tc.WithCookie(&http.Cookie{Name: "oauth_state", Value: tt.cookie})
			}

			// no EXPECT on the provider: any call fails the test
			tc.CallHandler(GETGoogleCallback)

			tc.AssertStatus(t, http.StatusBadRequest)
			tc.AssertJSONString(t, "message", MessageInvalidState)
			assert.Nil(t, tc.GetCookie("oauth_state"), "state cookie must not be touched on mismatch")
		})
	}
}

func TestGETGoogleCallback_ExchangeFailure(t *testing.T) {
	tc := newCallbackContext(t, "expired-code")
	defer tc.Finish()

	tc.MockProvider.EXPECT().Exchange(gomock.Any(), "expired-code").
		Return(nil, fmt.Errorf("%w: invalid_grant", auth.ErrTokenExchange)).Times(1)

	tc.CallHandler(GETGoogleCallback)

	tc.AssertStatus(t, http.StatusInternalServerError)
	tc.AssertJSONBool(t, "result", false)
	tc.AssertJSONString(t, "message", MessageAuthFailed)
	tc.AssertJSONString(t, "error", DetailExchangeFailed)
	tc.AssertLogContains(t, slog.LevelError, "Failed to exchange authorization code")
	assertStateCookieCleared(t, tc)
}

func TestGETGoogleCallback_AssertionInvalid(t *testing.T) {
	tc := newCallbackContext(t, "code")
	defer tc.Finish()

	tc.MockProvider.EXPECT().Exchange(gomock.Any(), "code").
		Return(&auth.ProviderTokens{IDToken: "forged"}, nil)
	tc.MockProvider.EXPECT().VerifyIDToken(gomock.Any(), "forged").
		Return(nil, &auth.AssertionError{Reason: auth.ReasonAudience, Err: errors.New("expected audience")})

	tc.CallHandler(GETGoogleCallback)

	tc.AssertStatus(t, http.StatusInternalServerError)
	tc.AssertJSONString(t, "message", MessageAuthFailed)
	tc.AssertJSONString(t, "error", DetailInvalidGoogleToken)

	found := false
	for _, record := range tc.LogHandler.GetRecordsByLevel(slog.LevelError) {
		if record.Message == "Failed to verify Google ID token" {
			found = true
			assert.Equal(t, auth.ReasonAudience, record.Attrs["reason"])
		}
	}
	assert.True(t, found)
}

func TestGETGoogleCallback_ReplayWithoutCookieFails(t *testing.T) {
	first := newCallbackContext(t, "code")
	defer first.Finish()

	first.MockProvider.EXPECT().Exchange(gomock.Any(), "code").Return(&auth.ProviderTokens{IDToken: "id"}, nil)
	first.MockProvider.EXPECT().VerifyIDToken(gomock.Any(), "id").Return(googleUser, nil)
	first.CallHandler(GETGoogleCallback)
	first.AssertStatus(t, http.StatusOK)

	// the browser honours the clearing cookie, so a replay only has the query
	replay := testutil.NewTestContextWithURL(t, http.MethodGet, "/auth/google/callback?"+first.Request.URL.RawQuery)
	defer replay.Finish()

	replay.CallHandler(GETGoogleCallback)

	replay.AssertStatus(t, http.StatusBadRequest)
	replay.AssertJSONString(t, "message", MessageInvalidState)
}
