package config

import (
	"time"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Google    GoogleConfig    `yaml:"google"`
	Session   SessionConfig   `yaml:"session"`
	State     StateConfig     `yaml:"state"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Redis     *RedisConfig    `yaml:"redis"`
}

type ServerConfig struct {
	Port              int                `yaml:"port"`
	ExternalURL       string             `yaml:"external_url"`
	TrustProxyHeaders bool               `yaml:"trust_proxy_headers"`
	RequestTimeout    time.Duration      `yaml:"request_timeout"`
	Debug             *ServerDebugConfig `yaml:"debug"`
}

var DefaultServerConfig = ServerConfig{
	Port:           3000,
	RequestTimeout: 60 * time.Second,
}

type ServerDebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

var DefaultDebugConfig = ServerDebugConfig{
	Enabled: false,
	Host:    "localhost",
	Port:    5123,
}

// GoogleConfig holds the OAuth client registration and the limits applied to
// outbound calls against Google's endpoints.
type GoogleConfig struct {
	ClientID        string        `yaml:"client_id"`
	ClientSecret    string        `yaml:"client_secret"`
	RedirectURI     string        `yaml:"redirect_url"`
	IssuerURL       string        `yaml:"issuer_url"`
	JWKSURL         string        `yaml:"jwks_url"`
	Scopes          []string      `yaml:"scopes"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	ExchangeRetries uint          `yaml:"exchange_retries"`
	ExchangeRate    float64       `yaml:"exchange_rate"`
	ExchangeBurst   int           `yaml:"exchange_burst"`
}

var DefaultGoogleConfig = GoogleConfig{
	IssuerURL:     "https://accounts.google.com",
	JWKSURL:       "https://www.googleapis.com/oauth2/v3/certs",
	Scopes:        []string{"openid", "email", "profile"},
	HTTPTimeout:   10 * time.Second,
	ExchangeRate:  50,
	ExchangeBurst: 100,
}

type SessionConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
	Issuer string        `yaml:"issuer"`
}

var DefaultSessionConfig = SessionConfig{
	TTL:    24 * time.Hour,
	Issuer: "items-api",
}

// MinSessionSecretLength is the smallest accepted HS256 signing secret.
const MinSessionSecretLength = 32

type StateConfig struct {
	CookieName string        `yaml:"cookie_name"`
	TTL        time.Duration `yaml:"ttl"`
}

var DefaultStateConfig = StateConfig{
	CookieName: "oauth_state",
	TTL:        10 * time.Minute,
}

type AuthConfig struct {
	AdminEmails []string `yaml:"admin_emails"`
}

type RateLimitConfig struct {
	Enabled *bool         `yaml:"enabled"`
	Store   string        `yaml:"store"` // "memory" or "redis"
	Max     int           `yaml:"max"`
	Window  time.Duration `yaml:"window"`
	// SweepInterval controls how often the memory store drops expired windows.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

func (r RateLimitConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

var DefaultRateLimitConfig = RateLimitConfig{
	Store:         "memory",
	Max:           10,
	Window:        15 * time.Minute,
	SweepInterval: time.Minute,
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	StackTraces bool   `yaml:"stack_traces"`
}

var DefaultLogConfig = LogConfig{
	Level:  "info",
	Format: "text",
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAgeSeconds    int      `yaml:"max_age_seconds"`
}

var DefaultCORSConfig = CORSConfig{
	AllowedOrigins: []string{"http://localhost:5173"},
	AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders: []string{"Authorization", "Content-Type"},
	ExposedHeaders: []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
	MaxAgeSeconds:  300,
}

type RedisConfig struct {
	Address  string               `yaml:"address"`
	Username string               `yaml:"username"`
	Password string               `yaml:"password"`
	Index    int                  `yaml:"index"`
	Prefix   string               `yaml:"prefix"`
	Sentinel *RedisSentinelConfig `yaml:"sentinel"`
}

var DefaultRedisConfig = RedisConfig{
	Index:  0,
	Prefix: "items-api:ratelimit:",
}

type RedisSentinelConfig struct {
	MasterName        string   `yaml:"master_name"`
	SentinelAddresses []string `yaml:"addresses"`
	SentinelPassword  string   `yaml:"password"`
	SentinelUsername  string   `yaml:"username"`
}
