package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"hampuff/hampuff/internal/logging"
	gormModels "hampuff/hampuff/internal/models/gorm"
	"hampuff/hampuff/internal/phone"
)

// ErrAlreadyRegistered is returned when the normalized phone number already
// has a registration row.
var ErrAlreadyRegistered = errors.New("phone number already registered")

// SourceMetadata captures where a registration came from.
type SourceMetadata struct {
	IPAddress *string
	UserAgent *string
}

// RegistrationRepository is the registration store. One row per normalized
// phone number; rows are toggled, never deleted.
type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Register creates a new registration. The duplicate check runs inside the
// insert transaction; the unique index on phone_normalized is the backstop
// for two concurrent registrations racing past the lookup.
func (r *RegistrationRepository) Register(
	ctx context.Context,
	fullName string,
	callSign string,
	phoneRaw string,
	optedIn bool,
	meta SourceMetadata,
) (*gormModels.Registration, error) {
	normalized, err := phone.Normalize(phoneRaw)
	if err != nil {
		return nil, err
	}

	reg := &gormModels.Registration{
		FullName:        fullName,
		CallSign:        callSign,
		PhoneNumber:     phoneRaw,
		PhoneNormalized: normalized,
		OptedIn:         optedIn,
		IPAddress:       meta.IPAddress,
		UserAgent:       meta.UserAgent,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing gormModels.Registration
		lookupErr := tx.Where("phone_normalized = ?", normalized).First(&existing).Error
		if lookupErr == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("duplicate check failed: %w", lookupErr)
		}

		if createErr := tx.Create(reg).Error; createErr != nil {
			if isUniqueViolation(createErr) {
				return ErrAlreadyRegistered
			}
			return fmt.Errorf("failed to insert registration: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reg, nil
}

// FindByPhone looks a registration up by any phone formatting. A number that
// fails normalization is treated as not found, not as an error.
func (r *RegistrationRepository) FindByPhone(ctx context.Context, phoneRaw string) (*gormModels.Registration, error) {
	normalized, err := phone.Normalize(phoneRaw)
	if err != nil {
		return nil, nil
	}

	var reg gormModels.Registration
	err = r.db.WithContext(ctx).
		Where("phone_normalized = ?", normalized).
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch registration: %w", err)
	}

	return &reg, nil
}

// SetOptIn updates the opt-in flag and reports whether the flag actually
// changed. Re-applying the current value is a no-op: it reports false and
// leaves updated_at alone. It never creates a registration.
func (r *RegistrationRepository) SetOptIn(ctx context.Context, phoneRaw string, optedIn bool) (bool, error) {
	normalized, err := phone.Normalize(phoneRaw)
	if err != nil {
		return false, nil
	}

	res := r.db.WithContext(ctx).
		Model(&gormModels.Registration{}).
		Where("phone_normalized = ? AND opted_in <> ?", normalized, optedIn).
		Update("opted_in", optedIn)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update opt-in status: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}

// IsOptedIn reports whether the number is registered and opted in. Storage
// errors fail closed: the gate refuses service rather than letting a message
// through.
func (r *RegistrationRepository) IsOptedIn(ctx context.Context, phoneRaw string) bool {
	reg, err := r.FindByPhone(ctx, phoneRaw)
	if err != nil {
		logging.Error("Opt-in gate check failed, refusing service", "error", err.Error())
		return false
	}
	return reg != nil && reg.OptedIn
}

// ListAll returns every registration, newest first.
func (r *RegistrationRepository) ListAll(ctx context.Context) ([]gormModels.Registration, error) {
	var regs []gormModels.Registration
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id").
		Find(&regs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return regs, nil
}

// ListOptedIn returns registrations with the opt-in flag set, newest first.
func (r *RegistrationRepository) ListOptedIn(ctx context.Context) ([]gormModels.Registration, error) {
	var regs []gormModels.Registration
	err := r.db.WithContext(ctx).
		Where("opted_in = ?", true).
		Order("created_at DESC, id").
		Find(&regs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list opted-in registrations: %w", err)
	}
	return regs, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || // postgres
		strings.Contains(msg, "UNIQUE constraint failed") // sqlite
}
