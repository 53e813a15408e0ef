package middlewares

import (
	"fmt"
	"items-api/internal/auth"
	"items-api/internal/metrics"
	"items-api/internal/models"
	"items-api/internal/utils"
	"net/http"
	"strconv"
)

const (
	MessageUnauthorized           = "Unauthorized: Invalid or missing token"
	DetailUnauthorized            = "Please provide a valid JWT token in the Authorization header"
	MessageAuthenticationRequired = "Unauthorized: Authentication required"
	MessageAdminRequired          = "Forbidden: Admin access required"
)

// OptionalAuth attaches the caller's identity when a valid bearer token is
// present and otherwise lets the request through anonymously.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		identity, err := authenticate(appCtx, r)
		if err == nil {
			appCtx.SetPrincipal(identity)
		} else if r.Header.Get("Authorization") != "" {
			appCtx.Logger.Debug("ignoring invalid bearer token on optional route", "error", err, "path", r.URL.Path)
		}

		next.ServeHTTP(w, r)
	})
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		identity, err := authenticate(appCtx, r)
		if err != nil {
			appCtx.Logger.Debug("rejected request without a valid session token", "error", err, "path", r.URL.Path)
			reject(appCtx, w, r, metrics.AuthModeRequired, http.StatusUnauthorized, MessageUnauthorized, DetailUnauthorized)
			return
		}

		appCtx.SetPrincipal(identity)
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin must be chained after RequireAuth. It checks the principal's
// email against auth.admin_emails.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		principal := appCtx.GetPrincipal()
		if principal == nil {
			reject(appCtx, w, r, metrics.AuthModeAdmin, http.StatusUnauthorized, MessageAuthenticationRequired, "")
			return
		}

		if !IsAdmin(appCtx, principal) {
			appCtx.Logger.Warn("non-admin attempted admin action", "user_id", principal.ID, "path", r.URL.Path, "error", auth.ErrForbidden)
			reject(appCtx, w, r, metrics.AuthModeAdmin, http.StatusForbidden, MessageAdminRequired, "")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IsAdmin reports whether identity's email is on the admin allowlist.
func IsAdmin(appCtx *AppContext, identity *models.Identity) bool {
	if identity == nil || identity.Email == "" {
		return false
	}
	return utils.IsStringInSliceFold(identity.Email, appCtx.Config.Auth.AdminEmails)
}

func authenticate(appCtx *AppContext, r *http.Request) (*models.Identity, error) {
	token, err := utils.ExtractBearerToken(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrUnauthorized, err)
	}

	return appCtx.SessionManager.Verify(token)
}

func reject(appCtx *AppContext, w http.ResponseWriter, r *http.Request, mode string, status int, message, detail string) {
	metrics.AuthRejections.WithLabelValues(mode, strconv.Itoa(status)).Inc()

	appCtx.Request = r
	appCtx.Response = w
	appCtx.WriteFailure(status, message, detail)
}
