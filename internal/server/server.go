package server

import (
	"context"
	"errors"
	"fmt"
	"items-api/internal/auth"
	"items-api/internal/config"
	"items-api/internal/jobs"
	"items-api/internal/metrics"
	"items-api/internal/middlewares"
	"items-api/internal/ratelimit"
	"items-api/internal/storage"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisprometheus/v9"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	cfg         *config.Config
	logger      *slog.Logger
	appCtx      *middlewares.AppContext
	httpServer  *http.Server
	debugServer *http.Server
	redis       *redis.Client
	jobManager  *jobs.JobManager
	cancel      context.CancelFunc
}

func New(cfg *config.Config) (*Server, error) {
	logger := setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())

	sessionIssuer, err := auth.NewSessionIssuer(cfg.Session)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create session issuer: %w", err)
	}

	stateManager := auth.NewStateManager(cfg)
	googleProvider := auth.NewGoogleProvider(cfg.Google, logger)

	jobManager := jobs.NewJobManager(logger)

	var redisClient *redis.Client
	var limiter middlewares.RateLimiter
	if cfg.RateLimit.IsEnabled() {
		switch cfg.RateLimit.Store {
		case metrics.RateLimitStoreRedis:
			redisClient = newRedisClient(cfg, logger)
			pingRedis(ctx, redisClient, logger)

			if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
				collector := redisprometheus.NewCollector(metrics.Namespace, "ratelimit", redisClient)
				if err := prometheus.Register(collector); err != nil {
					logger.Debug("failed to register redis rate limit collector: already registered", "error", err)
				}
			}

			limiter = ratelimit.NewRedisLimiter(redisClient, cfg.Redis.Prefix, cfg.RateLimit.Max, cfg.RateLimit.Window)
		default:
			memoryLimiter := ratelimit.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
			jobManager.Register(jobs.NewRateLimitSweepJob(memoryLimiter, cfg.RateLimit.SweepInterval))
			limiter = memoryLimiter
		}

		logger.Info("auth rate limiting enabled",
			"store", cfg.RateLimit.Store,
			"max", cfg.RateLimit.Max,
			"window", cfg.RateLimit.Window,
		)
	} else {
		logger.Warn("auth rate limiting disabled")
	}

	items := storage.NewMemItemStore(storage.DefaultItems)

	appCtx := middlewares.NewAppContext(ctx, cfg, logger, googleProvider, stateManager, sessionIssuer, limiter, items)

	router := setupRouter(appCtx)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var debugServer *http.Server
	if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
		debugServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Debug.Host, cfg.Server.Debug.Port),
			Handler:           setupDebugRouter(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return &Server{
		cfg:         cfg,
		logger:      logger,
		appCtx:      appCtx,
		httpServer:  server,
		debugServer: debugServer,
		redis:       redisClient,
		jobManager:  jobManager,
		cancel:      cancel,
	}, nil
}

// Start serves until SIGINT/SIGTERM or a listener failure, then shuts down.
func (s *Server) Start() error {
	s.jobManager.Start(s.appCtx)

	go func() {
		s.logger.Info("Server Started", "port", s.cfg.Server.Port, "external_url", s.cfg.Server.ExternalURL)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server failed to start", "error", err)
			s.cancel()
		}
	}()

	if s.debugServer != nil {
		go func() {
			s.logger.Info("Metrics server starting", "address", s.debugServer.Addr)
			if err := s.debugServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("Metrics server failed to start", "error", err)
				s.cancel()
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		s.logger.Info("Shutdown signal received")
	case <-s.appCtx.Done():
		s.logger.Info("Context canceled")
	}

	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info("Shutting Down Server")

	s.cancel()
	s.jobManager.Shutdown(shutdownCtx)

	var shutdownErr error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		shutdownErr = err
	}

	if s.debugServer != nil {
		if err := s.debugServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Debug server forced to shutdown", "error", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("failed to close redis client", "error", err)
		}
	}

	s.logger.Info("Server Exited")
	return shutdownErr
}

func newRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.Redis.Sentinel != nil {
		logger.Info("connecting to redis via sentinel",
			"master", cfg.Redis.Sentinel.MasterName,
			"sentinels", cfg.Redis.Sentinel.SentinelAddresses)

		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.Redis.Sentinel.MasterName,
			SentinelAddrs:    cfg.Redis.Sentinel.SentinelAddresses,
			SentinelUsername: cfg.Redis.Sentinel.SentinelUsername,
			SentinelPassword: cfg.Redis.Sentinel.SentinelPassword,
			Username:         cfg.Redis.Username,
			Password:         cfg.Redis.Password,
			DB:               cfg.Redis.Index,
			MinIdleConns:     2,
		})
	}

	logger.Info("connecting to redis", "address", cfg.Redis.Address)
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Address,
		Username:     cfg.Redis.Username,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Index,
		MinIdleConns: 2,
	})
}

// pingRedis only warns. The limiter fails open, so an unreachable Redis must
// not stop the server from starting.
func pingRedis(ctx context.Context, client *redis.Client, logger *slog.Logger) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis is unreachable, auth rate limiting will fail open until it recovers", "error", err)
	}
}
