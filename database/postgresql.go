package database

import (
	"GestaoClinica/models"
	"context"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance.
var DB *gorm.DB

// InitDB initializes the database connection and configures it.
func InitDB(ctx context.Context, dsn string) (*gorm.DB, error) {
	var err error

	// Configure logging level based on environment
	logMode := logger.Silent
	if os.Getenv("ENV") == "development" {
		logMode = logger.Info
	}

	// Open the database connection
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: false,
		PrepareStmt:                              true,
		Logger:                                   logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	// Configure connection pool
	if err := configureConnectionPool(); err != nil {
		return nil, err
	}

	// Test the database connection
	if err := testDatabaseConnection(ctx); err != nil {
		return nil, err
	}

	// Run migrations
	if err := Migrate(DB); err != nil {
		return nil, err
	}

	// Seed initial data
	if err := models.SeedAdminUser(DB); err != nil {
		return nil, errors.Wrap(err, "failed to seed admin user")
	}

	log.Println("Database initialized successfully.")
	return DB, nil
}

// configureConnectionPool sets up the connection pool settings for the database.
func configureConnectionPool() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// testDatabaseConnection verifies that the database connection is functional.
func testDatabaseConnection(ctx context.Context) error {
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}

// Migrate performs schema migrations and creates the partial unique indexes
// that back the scheduling invariants. It is exported so the test suites can
// run it against their own database instance.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Unit{},
		&models.Specialty{},
		&models.Professional{},
		&models.Patient{},
		&models.User{},
		&models.Appointment{},
		&models.Evolution{},
		&models.Referral{},
		&models.AuditLog{},
	); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	// A professional can hold at most one slot-occupying appointment per
	// instant. This is the storage-level guarantee; the application-level
	// conflict check only exists to produce a friendlier error.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointment_slot
		ON appointment (professional_id, appointment_datetime)
		WHERE status IN ('scheduled', 'waiting', 'in_progress')`).Error; err != nil {
		return errors.Wrap(err, "failed to create slot uniqueness index")
	}

	// At most one waiting-list entry per patient/professional pair.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointment_waitlist
		ON appointment (patient_id, professional_id)
		WHERE status = 'on_waiting_list'`).Error; err != nil {
		return errors.Wrap(err, "failed to create waiting-list uniqueness index")
	}

	return nil
}

// LoadEnvConfig retrieves configuration values from environment variables.
func LoadEnvConfig() (string, error) {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		return "", errors.New("missing DB_URL environment variable")
	}
	return dsn, nil
}
