package infra

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"tripbuddy/internal/models/db_models"
)

var ErrMissingPostgresURL = errors.New("POSTGRES_URL is not set")

func InitPostgresql(cfg *Config, log *logrus.Logger) (*gorm.DB, error) {
	if cfg.PostgresURL == "" {
		return nil, ErrMissingPostgresURL
	}

	connectionPool, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		Logger:         GormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		log.WithError(err).Error("Error connecting to database")
		return nil, err
	}

	sqlDB, err := connectionPool.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.AutoMigrate {
		if err := Migrate(connectionPool); err != nil {
			log.WithError(err).Error("auto-migration failed")
			return nil, err
		}
	}

	log.Info("PostgreSQL connection established")
	return connectionPool, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.Account{},
		&db_models.Attraction{},
		&db_models.Trip{},
		&db_models.UserTrip{},
		&db_models.TripAttraction{},
	)
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting database instance")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("PostgreSQL database connection closed successfully")
	}
}
