package handlers

import (
	"items-api/internal/middlewares"
	"net/http"
)

// POSTLogout is advisory. Session tokens are stateless and stay valid until
// they expire; the client is expected to drop its copy.
func POSTLogout(ctx *middlewares.AppContext) {
	if principal := ctx.GetPrincipal(); principal != nil {
		ctx.Logger.Info("User logged out", "user_id", principal.ID, "email", RedactEmail(principal.Email))
	}

	ctx.WriteSuccess(http.StatusOK, MessageLogoutSuccessful, nil)
}
