package routes

import (
	"net/http"
	"time"

	"hampuff/hampuff/internal/api"
	"hampuff/hampuff/internal/config"
	"hampuff/hampuff/internal/db"
	"hampuff/hampuff/internal/logging"
	"hampuff/hampuff/internal/metrics"
	"hampuff/hampuff/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func RegisterRoutes(cfg *config.Config, upSince time.Time) http.Handler {

	r := chi.NewRouter()

	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.SecurityHeadersMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	deps, err := api.InitDependencies(cfg, metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// Twilio delivers webhooks as POST by default but GET remains configurable,
	// so the webhook answers both.
	r.Group(func(sms chi.Router) {
		sms.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		sms.Get("/sms", api.SMSHandler(deps.Services.SMS))
		sms.Post("/sms", api.SMSHandler(deps.Services.SMS))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.APIKeyMiddleware(cfg.AdminAPIKey))

		v1.Route("/registrations", func(reg chi.Router) {
			reg.Post("/", api.CreateRegistrationHandler(deps.Services.Registration))
			reg.Get("/", api.ListRegistrationsHandler(deps.Repo.Registrations))
			reg.Get("/opted-in", api.ListOptedInHandler(deps.Repo.Registrations))
			reg.Put("/{phone}/opt-in", api.UpdateOptInHandler(deps.Repo.Registrations))
		})
	})

	return r
}
