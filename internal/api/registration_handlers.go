package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hampuff/hampuff/internal/db/repositories"
	"hampuff/hampuff/internal/models/dtos"
	"hampuff/hampuff/internal/phone"
	"hampuff/hampuff/internal/services"
)

// CreateRegistrationHandler handles POST /api/v1/registrations
func CreateRegistrationHandler(svc *services.RegistrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateRegistrationReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		meta := repositories.SourceMetadata{}
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			meta.IPAddress = &host
		}
		if ua := r.UserAgent(); ua != "" {
			meta.UserAgent = &ua
		}

		registration, err := svc.Register(r.Context(), req, meta)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidFullName),
				errors.Is(err, services.ErrInvalidCallSign),
				errors.Is(err, phone.ErrInvalidPhoneNumber):
				respondWithError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, repositories.ErrAlreadyRegistered):
				respondWithError(w, http.StatusConflict, "Phone number already registered")
			default:
				respondWithError(w, http.StatusInternalServerError, "Failed to create registration")
			}
			return
		}

		respondWithSuccess(w, http.StatusCreated, registration)
	}
}

// ListRegistrationsHandler handles GET /api/v1/registrations
func ListRegistrationsHandler(repo *repositories.RegistrationRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regs, err := repo.ListAll(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list registrations")
			return
		}
		respondWithSuccess(w, http.StatusOK, &regs)
	}
}

// ListOptedInHandler handles GET /api/v1/registrations/opted-in
func ListOptedInHandler(repo *repositories.RegistrationRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regs, err := repo.ListOptedIn(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list registrations")
			return
		}
		respondWithSuccess(w, http.StatusOK, &regs)
	}
}

// UpdateOptInHandler handles PUT /api/v1/registrations/{phone}/opt-in
func UpdateOptInHandler(repo *repositories.RegistrationRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateOptInReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		phoneRaw := chi.URLParam(r, "phone")
		existing, err := repo.FindByPhone(r.Context(), phoneRaw)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to look up registration")
			return
		}
		if existing == nil {
			respondWithError(w, http.StatusNotFound, "No registration for that phone number")
			return
		}

		// Setting the flag to its current value is a valid no-op, so the
		// updated result is deliberately ignored here.
		if _, err := repo.SetOptIn(r.Context(), phoneRaw, req.OptedIn); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to update opt-in status")
			return
		}

		registration, err := repo.FindByPhone(r.Context(), phoneRaw)
		if err != nil || registration == nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to reload registration")
			return
		}
		respondWithSuccess(w, http.StatusOK, registration)
	}
}
