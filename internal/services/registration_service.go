package services

import (
	"context"
	"errors"
	"strings"

	"hampuff/hampuff/internal/db/repositories"
	"hampuff/hampuff/internal/logging"
	"hampuff/hampuff/internal/metrics"
	"hampuff/hampuff/internal/models/dtos"
	gormModels "hampuff/hampuff/internal/models/gorm"
)

var (
	ErrInvalidFullName = errors.New("full name is required")
	ErrInvalidCallSign = errors.New("call sign must be 3 to 7 characters")
)

// RegistrationService handles the admin registration workflow: validation,
// normalization, and the store insert. It is the only path that creates
// registrations; the SMS flow never does.
type RegistrationService struct {
	repo *repositories.RegistrationRepository
	reg  *metrics.MetricsRegistry
}

func NewRegistrationService(repo *repositories.RegistrationRepository, reg *metrics.MetricsRegistry) *RegistrationService {
	return &RegistrationService{repo: repo, reg: reg}
}

// Register validates and stores a new registration. Phone and duplicate
// errors from the store pass through verbatim for programmatic handling.
func (svc *RegistrationService) Register(
	ctx context.Context,
	req dtos.CreateRegistrationReq,
	meta repositories.SourceMetadata,
) (*gormModels.Registration, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, ErrInvalidFullName
	}

	callSign := strings.TrimSpace(req.CallSign)
	if len(callSign) < 3 || len(callSign) > 7 {
		return nil, ErrInvalidCallSign
	}

	registration, err := svc.repo.Register(ctx, fullName, callSign, req.PhoneNumber, req.OptedIn, meta)
	if err != nil {
		return nil, err
	}

	logging.Info("New registration",
		"call_sign", callSign,
		"phone", registration.PhoneNormalized,
		"opted_in", registration.OptedIn,
	)
	if svc.reg != nil {
		svc.reg.RegistrationsTotal.Inc()
	}

	return registration, nil
}
