package config

import (
	"fmt"
	"items-api/internal/utils"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML file at configPath, applies environment overrides
// and validates the result. An empty path configures from the environment only.
func LoadConfig(configPath string) (*Config, error) {
	var config Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvironmentOverrides(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

var (
	EnvPort               = "PORT"
	EnvAppURL             = "APP_URL"
	EnvGoogleClientID     = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvGoogleRedirectURI  = "GOOGLE_REDIRECT_URI"
	EnvJWTSecret          = "JWT_SECRET"
	EnvAdminEmails        = "ADMIN_EMAILS"
	EnvRedisAddress       = "REDIS_ADDRESS"
	EnvRedisUsername      = "REDIS_USERNAME"
	EnvRedisPassword      = "REDIS_PASSWORD"
	EnvLogLevel           = "LOG_LEVEL"
	EnvLogFormat          = "LOG_FORMAT"
)

func applyEnvironmentOverrides(config *Config) {
	if portStr := os.Getenv(EnvPort); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Server.Port = port
		}
	}

	if appURL := os.Getenv(EnvAppURL); appURL != "" {
		config.Server.ExternalURL = appURL
	}

	if clientID := os.Getenv(EnvGoogleClientID); clientID != "" {
		config.Google.ClientID = clientID
	}

	if clientSecret := os.Getenv(EnvGoogleClientSecret); clientSecret != "" {
		config.Google.ClientSecret = clientSecret
	}

	if redirectURI := os.Getenv(EnvGoogleRedirectURI); redirectURI != "" {
		config.Google.RedirectURI = redirectURI
	}

	if secret := os.Getenv(EnvJWTSecret); secret != "" {
		config.Session.Secret = secret
	}

	if admins := os.Getenv(EnvAdminEmails); admins != "" {
		config.Auth.AdminEmails = splitList(admins)
	}

	if address := os.Getenv(EnvRedisAddress); address != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Address = address
	}

	if username := os.Getenv(EnvRedisUsername); username != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Username = username
	}

	if password := os.Getenv(EnvRedisPassword); password != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Password = password
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		config.Log.Level = level
	}

	if format := os.Getenv(EnvLogFormat); format != "" {
		config.Log.Format = format
	}
}

func validateConfig(config *Config) error {
	err := config.validateServerConfig()
	if err != nil {
		return err
	}

	err = config.validateGoogleConfig()
	if err != nil {
		return err
	}

	err = config.validateSessionConfig()
	if err != nil {
		return err
	}

	err = config.validateStateConfig()
	if err != nil {
		return err
	}

	err = config.validateAuthConfig()
	if err != nil {
		return err
	}

	err = config.validateLogConfig()
	if err != nil {
		return err
	}

	err = config.validateCORSConfig()
	if err != nil {
		return err
	}

	err = config.validateRateLimitConfig()
	if err != nil {
		return err
	}

	if config.RateLimit.Store == "redis" {
		err = config.validateRedisConfig()
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerConfig.Port
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ExternalURL == "" {
		c.Server.ExternalURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	c.Server.ExternalURL = strings.TrimRight(c.Server.ExternalURL, "/")

	if err := validateURL(c.Server.ExternalURL, "server.external_url"); err != nil {
		return err
	}

	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = DefaultServerConfig.RequestTimeout
	}

	if c.Server.Debug != nil && c.Server.Debug.Enabled {
		if c.Server.Debug.Host == "" {
			c.Server.Debug.Host = DefaultDebugConfig.Host
		}
		if c.Server.Debug.Port <= 0 || c.Server.Debug.Port >= 65535 {
			c.Server.Debug.Port = DefaultDebugConfig.Port
		}
	}

	return nil
}

func (c *Config) validateGoogleConfig() error {
	if c.Google.ClientID == "" {
		return fmt.Errorf("google.client_id is required")
	}

	if c.Google.ClientSecret == "" {
		return fmt.Errorf("google.client_secret is required")
	}

	if c.Google.RedirectURI == "" {
		c.Google.RedirectURI = c.Server.ExternalURL + "/auth/google/callback"
	}

	if err := validateURL(c.Google.RedirectURI, "google.redirect_url"); err != nil {
		return err
	}

	if c.Google.IssuerURL == "" {
		c.Google.IssuerURL = DefaultGoogleConfig.IssuerURL
	}

	if err := validateURL(c.Google.IssuerURL, "google.issuer_url"); err != nil {
		return err
	}

	if c.Google.JWKSURL == "" {
		c.Google.JWKSURL = DefaultGoogleConfig.JWKSURL
	}

	if err := validateURL(c.Google.JWKSURL, "google.jwks_url"); err != nil {
		return err
	}

	if len(c.Google.Scopes) == 0 {
		c.Google.Scopes = DefaultGoogleConfig.Scopes
	}

	if c.Google.HTTPTimeout <= 0 {
		c.Google.HTTPTimeout = DefaultGoogleConfig.HTTPTimeout
	}

	if c.Google.ExchangeRate <= 0 {
		c.Google.ExchangeRate = DefaultGoogleConfig.ExchangeRate
	}

	if c.Google.ExchangeBurst <= 0 {
		c.Google.ExchangeBurst = DefaultGoogleConfig.ExchangeBurst
	}

	if c.Google.ExchangeRetries > 5 {
		return fmt.Errorf("google.exchange_retries cannot be more than 5, got %d", c.Google.ExchangeRetries)
	}

	return nil
}

func (c *Config) validateSessionConfig() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required")
	}

	if len(c.Session.Secret) < MinSessionSecretLength {
		return fmt.Errorf("session.secret must be at least %d characters", MinSessionSecretLength)
	}

	if c.Session.TTL == 0 {
		c.Session.TTL = DefaultSessionConfig.TTL
	} else if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}

	if c.Session.Issuer == "" {
		c.Session.Issuer = DefaultSessionConfig.Issuer
	}

	return nil
}

func (c *Config) validateStateConfig() error {
	if c.State.CookieName == "" {
		c.State.CookieName = DefaultStateConfig.CookieName
	}

	if c.State.TTL == 0 {
		c.State.TTL = DefaultStateConfig.TTL
	} else if c.State.TTL < 0 {
		return fmt.Errorf("state.ttl must be positive, got %s", c.State.TTL)
	}

	return nil
}

func (c *Config) validateAuthConfig() error {
	normalized := make([]string, 0, len(c.Auth.AdminEmails))
	for i, email := range c.Auth.AdminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		if !strings.Contains(email, "@") {
			return fmt.Errorf("auth.admin_emails[%d] is not an email address: %q", i, email)
		}
		normalized = append(normalized, email)
	}
	c.Auth.AdminEmails = normalized

	return nil
}

func (c *Config) validateLogConfig() error {
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogConfig.Format
	} else {
		switch c.Log.Format {
		case "text", "json":
		default:
			return fmt.Errorf("invalid log format: %s, options are text or json", c.Log.Format)
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig.Level
	} else {
		switch c.Log.Level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log level: %s, options are debug, info, warn, error", c.Log.Level)
		}
	}

	return nil
}

func (c *Config) validateCORSConfig() error {
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = DefaultCORSConfig.AllowedOrigins
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = DefaultCORSConfig.AllowedMethods
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = DefaultCORSConfig.AllowedHeaders
	}
	if len(c.CORS.ExposedHeaders) == 0 {
		c.CORS.ExposedHeaders = DefaultCORSConfig.ExposedHeaders
	}
	if c.CORS.MaxAgeSeconds == 0 {
		c.CORS.MaxAgeSeconds = DefaultCORSConfig.MaxAgeSeconds
	}

	return nil
}

var validRateLimitStores = []string{"memory", "redis"}

func (c *Config) validateRateLimitConfig() error {
	if c.RateLimit.Store == "" {
		c.RateLimit.Store = DefaultRateLimitConfig.Store
	} else if !utils.IsStringInSlice(c.RateLimit.Store, validRateLimitStores) {
		return fmt.Errorf("invalid rate_limit store: %s, options are 'memory' or 'redis'", c.RateLimit.Store)
	}

	if c.RateLimit.Max == 0 {
		c.RateLimit.Max = DefaultRateLimitConfig.Max
	} else if c.RateLimit.Max < 0 {
		return fmt.Errorf("rate_limit.max must be positive, got %d", c.RateLimit.Max)
	}

	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = DefaultRateLimitConfig.Window
	} else if c.RateLimit.Window < 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window)
	}

	if c.RateLimit.SweepInterval <= 0 {
		c.RateLimit.SweepInterval = DefaultRateLimitConfig.SweepInterval
	}

	return nil
}

func (c *Config) validateRedisConfig() error {
	if c.Redis == nil {
		return fmt.Errorf("redis configuration is required to use redis for rate limiting")
	}

	if c.Redis.Sentinel != nil {
		if c.Redis.Sentinel.MasterName == "" {
			return fmt.Errorf("sentinel master_name is required")
		}
		if len(c.Redis.Sentinel.SentinelAddresses) == 0 {
			return fmt.Errorf("at least one sentinel address is required")
		}
	} else {
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required")
		}

		if _, _, err := net.SplitHostPort(c.Redis.Address); err != nil {
			return fmt.Errorf("invalid redis address format (expected host:port): %w", err)
		}
	}

	const maxRedisDB = 15
	if c.Redis.Index < 0 || c.Redis.Index > maxRedisDB {
		return fmt.Errorf("redis index must be between 0 and %d, got %d", maxRedisDB, c.Redis.Index)
	}

	if c.Redis.Prefix == "" {
		c.Redis.Prefix = DefaultRedisConfig.Prefix
	}

	return nil
}
