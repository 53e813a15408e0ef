package handlers

import (
	"items-api/internal/middlewares"
	"net/http"
)

// GETGoogleLogin starts the authorization code flow: it drops a fresh state
// cookie and redirects the browser to Google's consent screen.
func GETGoogleLogin(ctx *middlewares.AppContext) {
	state, cookie, err := ctx.StateManager.Issue()
	if err != nil {
		ctx.Logger.Error("Failed to generate login state", "error", err)
		ctx.WriteFailure(http.StatusInternalServerError, MessageLoginInitFailed, err.Error())
		return
	}

	http.SetCookie(ctx.Response, cookie)

	authURL := ctx.IdentityProvider.AuthCodeURL(state.Value)

	ctx.Logger.Debug("Redirecting to Google", "state_ttl", state.TTL)
	ctx.Redirect(authURL, http.StatusFound)
}
