package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"items-api/internal/auth"
	"items-api/internal/config"
	"items-api/internal/middlewares"
	"items-api/internal/mocks"
	"items-api/internal/models"
	"items-api/internal/utils"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"
)

const (
	TestSessionSecret = "0123456789abcdef0123456789abcdef"
	TestClientID      = "test-client-id.apps.googleusercontent.com"
	TestAdminEmail    = "admin@example.com"
)

// TestContext holds everything needed for testing
type TestContext struct {
	AppContext      *middlewares.AppContext
	Request         *http.Request
	Response        *httptest.ResponseRecorder
	MockController  *gomock.Controller
	MockProvider    *mocks.MockIdentityProvider
	MockRateLimiter *mocks.MockRateLimiter
	MockItems       *mocks.MockItemStore
	StateManager    *auth.StateManager
	SessionIssuer   *auth.SessionIssuer
	LogHandler      *TestLogHandler
}

// NewTestConfig returns a config that passes validation-level invariants
// without touching the environment.
func NewTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           3000,
			ExternalURL:    "http://localhost:3000",
			RequestTimeout: config.DefaultServerConfig.RequestTimeout,
		},
		Google: config.GoogleConfig{
			ClientID:     TestClientID,
			ClientSecret: "test-client-secret",
			RedirectURI:  "http://localhost:3000/auth/google/callback",
			IssuerURL:    config.DefaultGoogleConfig.IssuerURL,
			Scopes:       config.DefaultGoogleConfig.Scopes,
			HTTPTimeout:  time.Second,
		},
		Session: config.SessionConfig{
			Secret: TestSessionSecret,
			TTL:    config.DefaultSessionConfig.TTL,
			Issuer: config.DefaultSessionConfig.Issuer,
		},
		State:     config.DefaultStateConfig,
		Auth:      config.AuthConfig{AdminEmails: []string{TestAdminEmail}},
		RateLimit: config.DefaultRateLimitConfig,
		Log:       config.DefaultLogConfig,
		CORS:      config.DefaultCORSConfig,
	}
}

func NewTestContext(t *testing.T) *TestContext {
	return NewTestContextWithURL(t, http.MethodGet, "/")
}

// NewTestContextWithURL creates a complete test setup with sensible defaults.
// The identity provider, rate limiter and item store are gomock mocks; state
// and session handling use the real implementations.
func NewTestContextWithURL(t *testing.T, method, url string) *TestContext {
	t.Helper()

	cfg := NewTestConfig()

	logHandler := NewTestLogHandler()
	logger := slog.New(logHandler)

	ctrl := gomock.NewController(t)

	mockProvider := mocks.NewMockIdentityProvider(ctrl)
	mockLimiter := mocks.NewMockRateLimiter(ctrl)
	mockItems := mocks.NewMockItemStore(ctrl)

	stateManager := auth.NewStateManager(cfg)
	sessionIssuer, err := auth.NewSessionIssuer(cfg.Session)
	if err != nil {
		t.Fatalf("failed to create session issuer: %v", err)
	}

	req := httptest.NewRequest(method, url, nil)
	rr := httptest.NewRecorder()

	appCtx := middlewares.NewAppContext(req.Context(), cfg, logger, mockProvider, stateManager, sessionIssuer, mockLimiter, mockItems)
	appCtx.Request = req
	appCtx.Response = rr

	return &TestContext{
		AppContext:      appCtx,
		Request:         req,
		Response:        rr,
		MockController:  ctrl,
		MockProvider:    mockProvider,
		MockRateLimiter: mockLimiter,
		MockItems:       mockItems,
		StateManager:    stateManager,
		SessionIssuer:   sessionIssuer,
		LogHandler:      logHandler,
	}
}

// Finish should be called at the end of tests to clean up mocks
func (tc *TestContext) Finish() {
	if tc.MockController != nil {
		tc.MockController.Finish()
	}
}

func (tc *TestContext) AssertLogContains(t *testing.T, level slog.Level, message string) {
	t.Helper()
	if !tc.LogHandler.ContainsMessage(level, message) {
		t.Errorf("Expected to find log entry with level %v containing message: %s", level, message)
	}
}

func (tc *TestContext) AssertLogCount(t *testing.T, level slog.Level, expectedCount int) {
	t.Helper()
	count := tc.LogHandler.CountByLevel(level)
	if count != expectedCount {
		t.Errorf("Expected %d log entries at level %v, got %d", expectedCount, level, count)
	}
}

func (tc *TestContext) GetLogRecords() []TestLogRecord {
	return tc.LogHandler.GetRecords()
}

// CallHandler executes a handler with the test context
func (tc *TestContext) CallHandler(handler middlewares.AppHandler) {
	handler(tc.AppContext)
}

// ServeMiddleware runs mw in front of handler the way the router would, with
// the AppContext already attached to the request.
func (tc *TestContext) ServeMiddleware(mw func(http.Handler) http.Handler, handler middlewares.AppHandler) {
	req := middlewares.WithAppContext(tc.Request, tc.AppContext)
	mw(tc.AppContext.HandlerFunc(handler)).ServeHTTP(tc.Response, req)
}

// AssertStatus checks the HTTP status code
func (tc *TestContext) AssertStatus(t *testing.T, expectedStatus int) {
	t.Helper()
	if tc.Response.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d (body: %s)", expectedStatus, tc.Response.Code, tc.Response.Body.String())
	}
}

// AssertContentType checks the content type header
func (tc *TestContext) AssertContentType(t *testing.T, expectedType string) {
	t.Helper()
	if ct := tc.Response.Header().Get("Content-Type"); ct != expectedType {
		t.Errorf("Expected content type %s, got %s", expectedType, ct)
	}
}

// AssertLocationHeader checks the redirect target
func (tc *TestContext) AssertLocationHeader(t *testing.T, expected string) {
	t.Helper()
	if location := tc.Response.Header().Get("Location"); location != expected {
		t.Errorf("Expected Location %q, got %q", expected, location)
	}
}

// GetJSONResponse parses the response body as JSON
func (tc *TestContext) GetJSONResponse(t *testing.T) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(tc.Response.Body.Bytes(), &response); err != nil {
		t.Fatalf("Could not parse JSON response: %v", err)
	}
	return response
}

// AssertJSONBool checks a specific boolean field in a JSON response
func (tc *TestContext) AssertJSONBool(t *testing.T, field string, expected bool) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualBool, ok := actual.(bool)
	if !ok {
		t.Errorf("Expected %s to be a boolean, got %T", field, actual)
		return
	}

	if actualBool != expected {
		t.Errorf("Expected %s to be %v, got %v", field, expected, actualBool)
	}
}

// AssertJSONString checks a specific string field in a JSON response
func (tc *TestContext) AssertJSONString(t *testing.T, field string, expected string) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualString, ok := actual.(string)
	if !ok {
		t.Errorf("Expected %s to be a string, got %T", field, actual)
		return
	}

	if actualString != expected {
		t.Errorf("Expected %s to be %q, got %q", field, expected, actualString)
	}
}

// AssertJSONAbsent checks that field is not present in the response body.
func (tc *TestContext) AssertJSONAbsent(t *testing.T, field string) {
	t.Helper()
	if _, exists := tc.GetJSONResponse(t)[field]; exists {
		t.Errorf("Expected field %s to be absent", field)
	}
}

// AssertJSONObject validates an object field with expected key-value pairs
func (tc *TestContext) AssertJSONObject(t *testing.T, field string, expectedFields map[string]interface{}) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualObj, ok := actual.(map[string]interface{})
	if !ok {
		t.Errorf("Expected %s to be an object, got %T", field, actual)
		return
	}

	for key, expectedValue := range expectedFields {
		if actualValue, keyExists := actualObj[key]; !keyExists {
			t.Errorf("Expected field %s.%s to exist", field, key)
		} else if actualValue != expectedValue {
			t.Errorf("Expected %s.%s to be %v, got %v", field, key, expectedValue, actualValue)
		}
	}
}

// GetJSONArrayField returns field as a JSON array, failing the test if it isn't one.
func (tc *TestContext) GetJSONArrayField(t *testing.T, field string) []interface{} {
	t.Helper()
	actual, exists := tc.GetJSONResponse(t)[field]
	if !exists {
		t.Fatalf("Field %s not found in response", field)
	}

	arr, ok := actual.([]interface{})
	if !ok {
		t.Fatalf("Expected %s to be an array, got %T", field, actual)
	}
	return arr
}

// GetCookie returns the named cookie set on the response, or nil.
func (tc *TestContext) GetCookie(name string) *http.Cookie {
	for _, c := range tc.Response.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// WithConfig allows you to override the default config for specific tests
func (tc *TestContext) WithConfig(cfg *config.Config) *TestContext {
	tc.AppContext.Config = cfg
	return tc
}

// WithLogger allows you to override the default logger for specific tests
func (tc *TestContext) WithLogger(logger *slog.Logger) *TestContext {
	tc.AppContext.Logger = logger
	return tc
}

// WithRateLimiter replaces the mock limiter, e.g. with a real MemoryLimiter or nil.
func (tc *TestContext) WithRateLimiter(limiter middlewares.RateLimiter) *TestContext {
	tc.AppContext.RateLimiter = limiter
	return tc
}

// WithItemStore replaces the mock store with a real implementation.
func (tc *TestContext) WithItemStore(items middlewares.ItemStore) *TestContext {
	tc.AppContext.Items = items
	return tc
}

// WithQueryParam adds a query parameter to the request
func (tc *TestContext) WithQueryParam(key, value string) *TestContext {
	q := tc.Request.URL.Query()
	q.Add(key, value)
	tc.Request.URL.RawQuery = q.Encode()
	return tc
}

// WithHeader sets a request header
func (tc *TestContext) WithHeader(key, value string) *TestContext {
	tc.Request.Header.Set(key, value)
	return tc
}

func (tc *TestContext) WithCookie(cookie *http.Cookie) *TestContext {
	tc.Request.AddCookie(cookie)
	return tc
}

// WithBearer sets an Authorization: Bearer header.
func (tc *TestContext) WithBearer(token string) *TestContext {
	return tc.WithHeader("Authorization", utils.BearerScheme+" "+token)
}

// WithJSONBody replaces the request body with the JSON encoding of body.
func (tc *TestContext) WithJSONBody(t *testing.T, body any) *TestContext {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	return tc.WithRawBody(raw)
}

func (tc *TestContext) WithRawBody(raw []byte) *TestContext {
	req := httptest.NewRequest(tc.Request.Method, tc.Request.URL.String(), bytes.NewReader(raw))
	req.Header = tc.Request.Header.Clone()
	req.Header.Set("Content-Type", "application/json")
	return tc.WithRequest(req)
}

// WithURLParam sets a chi route parameter such as {id}.
func (tc *TestContext) WithURLParam(key, value string) *TestContext {
	rctx := chi.RouteContext(tc.Request.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		tc.WithRequest(tc.Request.WithContext(context.WithValue(tc.Request.Context(), chi.RouteCtxKey, rctx)))
	}
	rctx.URLParams.Add(key, value)
	return tc
}

// WithRequest allows you to set a custom request
func (tc *TestContext) WithRequest(req *http.Request) *TestContext {
	tc.Request = req
	tc.AppContext.Request = req
	tc.AppContext.Context = req.Context()
	return tc
}

// WithPrincipal marks the request as authenticated without a token.
func (tc *TestContext) WithPrincipal(identity *models.Identity) *TestContext {
	tc.AppContext.SetPrincipal(identity)
	return tc
}

// IssueToken mints a real session token for identity.
func (tc *TestContext) IssueToken(t *testing.T, identity *models.Identity) string {
	t.Helper()
	token, err := tc.SessionIssuer.Issue(identity)
	if err != nil {
		t.Fatalf("failed to issue session token: %v", err)
	}
	return token
}

// TestUser is a verified, non-admin identity.
func TestUser() *models.Identity {
	return &models.Identity{
		ID:            "test-user-123",
		Email:         "test@example.com",
		Name:          "Test User",
		Picture:       "https://example.com/avatar.jpg",
		EmailVerified: true,
	}
}

// TestAdmin is a verified identity on the admin allowlist.
func TestAdmin() *models.Identity {
	return &models.Identity{
		ID:            "admin-user-1",
		Email:         TestAdminEmail,
		Name:          "Admin User",
		EmailVerified: true,
	}
}
