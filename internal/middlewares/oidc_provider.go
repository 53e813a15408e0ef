package middlewares

import (
	"context"
	"items-api/internal/auth"
	"items-api/internal/models"
)

//go:generate mockgen -source=oidc_provider.go -destination=../mocks/oidc.go -package=mocks

// IdentityProvider is the upstream OAuth2/OIDC provider used for login.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.ProviderTokens, error)
	VerifyIDToken(ctx context.Context, rawIDToken string) (*models.Identity, error)
}
