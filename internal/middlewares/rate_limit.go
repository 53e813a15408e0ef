package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"time"
)

const MessageRateLimited = "Too many authentication attempts, please try again later"

// RateLimit counts each request against the caller's window and answers 429
// once the window is exhausted. A limiter error lets the request through.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if appCtx.RateLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := rateLimitKey(r)
		decision, err := appCtx.RateLimiter.Allow(r.Context(), key)
		if err != nil {
			appCtx.Logger.Error("rate limiter unavailable, allowing request", "error", err, "client_ip", key)
			next.ServeHTTP(w, r)
			return
		}

		now := time.Now()
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := decision.RetryAfter(now)
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))

			appCtx.Logger.Warn("auth rate limit exceeded", "client_ip", key, "path", r.URL.Path, "retry_after", retryAfter)

			appCtx.Request = r
			appCtx.Response = w
			appCtx.WriteFailure(http.StatusTooManyRequests, MessageRateLimited, "")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitKey is the client address ClientIPMiddleware left in RemoteAddr.
func rateLimitKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
