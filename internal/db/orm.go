package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	gormModels "hampuff/hampuff/internal/models/gorm"
)

var PgDB *gorm.DB

// InitPostgresORM connects the GORM handle backing the registration store
// and migrates the registrations table.
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(&gormModels.Registration{}); err != nil {
		return nil, fmt.Errorf("failed to migrate registrations: %w", err)
	}

	PgDB = db
	return db, nil
}
