package api

import (
	"fmt"

	"hampuff/hampuff/internal/config"
	"hampuff/hampuff/internal/db"
	"hampuff/hampuff/internal/db/repositories"
	"hampuff/hampuff/internal/metrics"
	"hampuff/hampuff/internal/providers"
	"hampuff/hampuff/internal/services"
)

type Repositories struct {
	Registrations *repositories.RegistrationRepository
}

type Services struct {
	Timezones    *services.TimezoneResolver
	Solar        providers.PropagationSource
	SMS          *services.SMSService
	Registration *services.RegistrationService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
}

func InitDependencies(cfg *config.Config, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Registrations: repositories.NewRegistrationRepository(db.PgDB),
	}

	tz, err := services.NewTimezoneResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize timezone resolver: %w", err)
	}

	solar := providers.NewSolarProvider(cfg.SolarFeedURL, cfg.SolarFetchTimeout, cfg.SolarCacheTTL)

	return &Dependencies{
		Repo: repos,
		Services: &Services{
			Timezones:    tz,
			Solar:        solar,
			SMS:          services.NewSMSService(repos.Registrations, solar, tz, metricsReg),
			Registration: services.NewRegistrationService(repos.Registrations, metricsReg),
		},
	}, nil
}
