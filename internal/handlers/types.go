package handlers

import (
	"items-api/internal/models"
)

// LoginResult is the data payload of a successful callback.
type LoginResult struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type RootResponse struct {
	Message string `json:"message"`
}
