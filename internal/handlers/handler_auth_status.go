package handlers

import (
	"items-api/internal/middlewares"
	"net/http"
)

// GETMe returns the profile carried by the caller's session token. It sits
// behind RequireAuth, so a missing principal is a wiring bug.
func GETMe(ctx *middlewares.AppContext) {
	principal := ctx.GetPrincipal()
	if principal == nil {
		ctx.Logger.Error("GETMe reached without an authenticated principal")
		ctx.WriteFailure(http.StatusUnauthorized, middlewares.MessageUnauthorized, middlewares.DetailUnauthorized)
		return
	}

	ctx.WriteSuccess(http.StatusOK, MessageUserRetrieved, principal.Profile())
}
