package middlewares

import (
	"context"
	"items-api/internal/ratelimit"
)

//go:generate mockgen -source=rate_limiter.go -destination=../mocks/rate_limiter.go -package=mocks

type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}
