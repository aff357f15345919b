package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hampuff/hampuff/internal/db/repositories"
	gormModels "hampuff/hampuff/internal/models/gorm"
	"hampuff/hampuff/internal/services"
)

func setupTestRepo(t *testing.T) *repositories.RegistrationRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&gormModels.Registration{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return repositories.NewRegistrationRepository(db)
}

func postRegistration(t *testing.T, handler http.HandlerFunc, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registrations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.9:41234"
	req.Header.Set("User-Agent", "hampuff-admin-cli/1.0")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeAPIResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
	return resp
}

func TestCreateRegistrationHandler_Success(t *testing.T) {
	repo := setupTestRepo(t)
	svc := services.NewRegistrationService(repo, nil)
	handler := CreateRegistrationHandler(svc)

	rec := postRegistration(t, handler, map[string]any{
		"full_name":    "John Doe",
		"call_sign":    "W1ABC",
		"phone_number": "(555) 123-4567",
		"opted_in":     true,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeAPIResponse(t, rec)
	if resp["status"] != "success" {
		t.Errorf("expected success envelope, got %v", resp["status"])
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", resp["data"])
	}
	if data["phone_normalized"] != "+15551234567" {
		t.Errorf("expected normalized phone, got %v", data["phone_normalized"])
	}
	if data["ip_address"] != "203.0.113.9" {
		t.Errorf("expected source ip to be recorded, got %v", data["ip_address"])
	}

	stored, err := repo.FindByPhone(context.Background(), "5551234567")
	if err != nil || stored == nil {
		t.Fatalf("registration not persisted: %v", err)
	}
	if !stored.OptedIn {
		t.Error("expected stored registration to be opted in")
	}
}

func TestCreateRegistrationHandler_Validation(t *testing.T) {
	repo := setupTestRepo(t)
	handler := CreateRegistrationHandler(services.NewRegistrationService(repo, nil))

	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"missing full name", map[string]any{
			"full_name": "  ", "call_sign": "W1ABC", "phone_number": "5551234567",
		}},
		{"call sign too short", map[string]any{
			"full_name": "John Doe", "call_sign": "W1", "phone_number": "5551234567",
		}},
		{"invalid phone", map[string]any{
			"full_name": "John Doe", "call_sign": "W1ABC", "phone_number": "12",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postRegistration(t, handler, tc.payload)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateRegistrationHandler_MalformedBody(t *testing.T) {
	handler := CreateRegistrationHandler(services.NewRegistrationService(setupTestRepo(t), nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registrations", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreateRegistrationHandler_Duplicate(t *testing.T) {
	repo := setupTestRepo(t)
	handler := CreateRegistrationHandler(services.NewRegistrationService(repo, nil))

	first := postRegistration(t, handler, map[string]any{
		"full_name": "John Doe", "call_sign": "W1ABC", "phone_number": "5551234567",
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("first registration failed: %d", first.Code)
	}

	// Same number in a different format still collides.
	second := postRegistration(t, handler, map[string]any{
		"full_name": "Jane Doe", "call_sign": "K2XYZ", "phone_number": "+1 (555) 123-4567",
	})
	if second.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", second.Code, second.Body.String())
	}
}

func TestListRegistrationsHandlers(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Register(ctx, "John Doe", "W1ABC", "5551234567", true, repositories.SourceMetadata{}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := repo.Register(ctx, "Jane Doe", "K2XYZ", "5557654321", false, repositories.SourceMetadata{}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rec := httptest.NewRecorder()
	ListRegistrationsHandler(repo)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/registrations", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeAPIResponse(t, rec)
	if all, ok := resp["data"].([]any); !ok || len(all) != 2 {
		t.Errorf("expected 2 registrations, got %v", resp["data"])
	}

	rec = httptest.NewRecorder()
	ListOptedInHandler(repo)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/registrations/opted-in", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp = decodeAPIResponse(t, rec)
	optedIn, ok := resp["data"].([]any)
	if !ok || len(optedIn) != 1 {
		t.Fatalf("expected 1 opted-in registration, got %v", resp["data"])
	}
	entry := optedIn[0].(map[string]any)
	if entry["call_sign"] != "W1ABC" {
		t.Errorf("expected the opted-in record, got %v", entry["call_sign"])
	}
}

func putOptIn(t *testing.T, repo *repositories.RegistrationRepository, phone string, optedIn bool) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"opted_in": optedIn})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/registrations/"+phone+"/opt-in", bytes.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("phone", phone)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	UpdateOptInHandler(repo)(rec, req)
	return rec
}

func TestUpdateOptInHandler(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Register(ctx, "John Doe", "W1ABC", "5551234567", false, repositories.SourceMetadata{}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rec := putOptIn(t, repo, "5551234567", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeAPIResponse(t, rec)
	data := resp["data"].(map[string]any)
	if data["opted_in"] != true {
		t.Errorf("expected opted_in true after update, got %v", data["opted_in"])
	}

	if !repo.IsOptedIn(ctx, "+15551234567") {
		t.Error("expected store to reflect opt-in")
	}

	// Re-asserting the current value is a valid no-op, not a 404.
	rec = putOptIn(t, repo, "5551234567", true)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for idempotent update, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateOptInHandler_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	rec := putOptIn(t, repo, "5559990000", true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown phone, got %d", rec.Code)
	}
}
