package handlers

import (
	"items-api/internal/middlewares"
	"items-api/internal/version"
	"net/http"
)

func HandlerHealth(ctx *middlewares.AppContext) {
	ctx.WriteJSON(http.StatusOK, HealthResponse{
		Status:  "OK",
		Version: version.GetVersion(),
	})
}

func HandlerRoot(ctx *middlewares.AppContext) {
	ctx.WriteJSON(http.StatusOK, RootResponse{Message: "items-api"})
}
