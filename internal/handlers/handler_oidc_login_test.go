package handlers

import (
	"items-api/internal/auth"
	"items-api/internal/testutil"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGETGoogleLogin_RedirectsWithStateCookie(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, "/auth/google")
	defer tc.Finish()

	var sentState string
	tc.MockProvider.EXPECT().AuthCodeURL(gomock.Any()).DoAndReturn(func(state string) string {
		sentState = state
		return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state
	}).Times(1)

	tc.CallHandler(GETGoogleLogin)

	tc.AssertStatus(t, http.StatusFound)
	tc.AssertLocationHeader(t, "https://accounts.google.com/o/oauth2/v2/auth?state="+sentState)

	cookie := tc.GetCookie("oauth_state")
	require.NotNil(t, cookie)
	assert.Equal(t, sentState, cookie.Value)
	assert.Len(t, cookie.Value, 43)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, 600, cookie.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
}

func TestGETGoogleLogin_SecureCookieInProduction(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, "/auth/google")
	defer tc.Finish()

	cfg := testutil.NewTestConfig()
	cfg.Server.ExternalURL = "https://items.example.com"
	tc.AppContext.StateManager = auth.NewStateManager(cfg)

	tc.MockProvider.EXPECT().AuthCodeURL(gomock.Any()).Return("https://accounts.google.com/o/oauth2/v2/auth").Times(1)

	tc.CallHandler(GETGoogleLogin)

	tc.AssertStatus(t, http.StatusFound)
	cookie := tc.GetCookie("oauth_state")
	require.NotNil(t, cookie)
	assert.True(t, cookie.Secure)
}

func TestGETGoogleLogin_FreshStateEachTime(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 5; i++ {
		tc := testutil.NewTestContextWithURL(t, http.MethodGet, "/auth/google")
		tc.MockProvider.EXPECT().AuthCodeURL(gomock.Any()).Return("https://accounts.google.com/o/oauth2/v2/auth").Times(1)

		tc.CallHandler(GETGoogleLogin)

		cookie := tc.GetCookie("oauth_state")
		require.NotNil(t, cookie)
		assert.False(t, seen[cookie.Value], "state reused")
		seen[cookie.Value] = true
		tc.Finish()
	}
}
