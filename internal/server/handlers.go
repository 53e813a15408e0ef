package server

import (
	"items-api/internal/handlers"
	"items-api/internal/middlewares"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRouter(ctx *middlewares.AppContext) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middlewares.ClientIPMiddleware(ctx.Config.Server.TrustProxyHeaders))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(ctx.Config.Server.RequestTimeout))

	r.Use(middlewares.AppContextMiddleware(ctx))
	r.Use(middlewares.MetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ctx.Config.CORS.AllowedOrigins,
		AllowedMethods:   ctx.Config.CORS.AllowedMethods,
		AllowedHeaders:   ctx.Config.CORS.AllowedHeaders,
		ExposedHeaders:   ctx.Config.CORS.ExposedHeaders,
		AllowCredentials: ctx.Config.CORS.AllowCredentials,
		MaxAge:           ctx.Config.CORS.MaxAgeSeconds,
	}))

	r.Get("/", ctx.HandlerFunc(handlers.HandlerRoot))
	r.Get("/health", ctx.HandlerFunc(handlers.HandlerHealth))

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middlewares.RateLimit)
			r.Get("/google", ctx.HandlerFunc(handlers.GETGoogleLogin))
			r.Get("/google/callback", ctx.HandlerFunc(handlers.GETGoogleCallback))
		})

		r.With(middlewares.RequireAuth).Get("/me", ctx.HandlerFunc(handlers.GETMe))
		r.With(middlewares.OptionalAuth).Post("/logout", ctx.HandlerFunc(handlers.POSTLogout))
	})

	r.Route("/items", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middlewares.OptionalAuth)
			r.Get("/", ctx.HandlerFunc(handlers.GETItems))
			r.Get("/{id}", ctx.HandlerFunc(handlers.GETItem))
		})

		r.Group(func(r chi.Router) {
			r.Use(middlewares.RequireAuth)
			r.Post("/", ctx.HandlerFunc(handlers.POSTItem))
			r.Put("/{id}", ctx.HandlerFunc(handlers.PUTItem))
			r.With(middlewares.RequireAdmin).Delete("/{id}", ctx.HandlerFunc(handlers.DELETEItem))
		})
	})

	return r
}

func setupDebugRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/debug", middleware.Profiler())

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
