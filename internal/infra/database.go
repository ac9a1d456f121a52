package infra

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mostrador/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for the persisted models (register sessions and the
// completed-sales log — sale windows live in memory and Redis only).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates / updates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.SesionCaja{},
		&model.VentaCompletada{},
		&model.VentaItem{},
		&model.VentaPago{},
	)
}
