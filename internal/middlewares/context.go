package middlewares

import (
	"context"
	"encoding/json"
	"items-api/internal/config"
	"items-api/internal/models"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type AppContext struct {
	context.Context
	Config           *config.Config
	Logger           *slog.Logger
	IdentityProvider IdentityProvider
	StateManager     StateProvider
	SessionManager   SessionProvider
	RateLimiter      RateLimiter
	Items            ItemStore

	principal *models.Identity

	Request  *http.Request
	Response http.ResponseWriter
}

type contextKey string

const appContextKey contextKey = "appContext"

func AppContextMiddleware(baseCtx *AppContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := baseCtx.Logger
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				logger = logger.With("request_id", reqID)
			}

			requestCtx := &AppContext{
				Context:          r.Context(),
				Config:           baseCtx.Config,
				Logger:           logger,
				IdentityProvider: baseCtx.IdentityProvider,
				StateManager:     baseCtx.StateManager,
				SessionManager:   baseCtx.SessionManager,
				RateLimiter:      baseCtx.RateLimiter,
				Items:            baseCtx.Items,
				Request:          r,
				Response:         w,
			}

			next.ServeHTTP(w, WithAppContext(r, requestCtx))
		})
	}
}

type AppHandler func(*AppContext)

// Handler converts an AppHandler to an http.Handler
func (ctx *AppContext) Handler(h AppHandler) http.Handler {
	return ctx.HandlerFunc(h)
}

// HandlerFunc converts AppHandler to a http.HandlerFunc
func (ctx *AppContext) HandlerFunc(h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// Middlewares may have swapped the writer or request after the
		// context was built.
		appCtx.Request = r
		appCtx.Response = w

		h(appCtx)
	}
}

func (ctx *AppContext) Redirect(url string, status int) {
	http.Redirect(ctx.Response, ctx.Request, url, status)
}

func NewAppContext(ctx context.Context, cfg *config.Config, logger *slog.Logger, identityProvider IdentityProvider, stateManager StateProvider, sessionManager SessionProvider, rateLimiter RateLimiter, items ItemStore) *AppContext {
	return &AppContext{
		Context:          ctx,
		Config:           cfg,
		Logger:           logger,
		IdentityProvider: identityProvider,
		StateManager:     stateManager,
		SessionManager:   sessionManager,
		RateLimiter:      rateLimiter,
		Items:            items,
	}
}

// WithAppContext returns a shallow copy of r carrying appCtx.
func WithAppContext(r *http.Request, appCtx *AppContext) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), appContextKey, appCtx))
}

func GetAppContext(r *http.Request) *AppContext {
	if ctx, ok := r.Context().Value(appContextKey).(*AppContext); ok {
		return ctx
	}

	return nil
}

func GetLogger(r *http.Request) *slog.Logger {
	if appCtx := GetAppContext(r); appCtx != nil {
		return appCtx.Logger
	}

	return nil
}

// SetPrincipal attaches the authenticated identity to this request only.
func (ctx *AppContext) SetPrincipal(identity *models.Identity) {
	ctx.principal = identity
}

func (ctx *AppContext) GetPrincipal() *models.Identity {
	return ctx.principal
}

// Envelope is the JSON body every API response is wrapped in.
type Envelope struct {
	Result  bool   `json:"result"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (ctx *AppContext) WriteJSON(status int, data interface{}) {
	ctx.Response.Header().Set("Content-Type", "application/json")
	ctx.Response.WriteHeader(status)
	if err := json.NewEncoder(ctx.Response).Encode(data); err != nil {
		ctx.Logger.Error("failed to marshal json", "error", err)
	}
}

func (ctx *AppContext) WriteSuccess(status int, message string, data any) {
	ctx.WriteJSON(status, Envelope{
		Result:  true,
		Message: message,
		Data:    data,
	})
}

// WriteFailure writes a result:false envelope. detail is omitted when empty.
func (ctx *AppContext) WriteFailure(status int, message, detail string) {
	ctx.WriteJSON(status, Envelope{
		Result:  false,
		Message: message,
		Error:   detail,
	})
}
