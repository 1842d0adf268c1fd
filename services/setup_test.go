package services

import (
	"GestaoClinica/database"
	"GestaoClinica/models"
	"GestaoClinica/repositories"
	"GestaoClinica/utils"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The suites run against an in-memory database with Redis uninitialized: the
// cache and the slot lock both degrade to direct database access, and the
// partial unique indexes still enforce the slot invariant.

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db
	database.RedisClient = nil
}

func newTestServices() (*AppointmentService, *WaitlistService, *RecurringService, *repositories.AppointmentRepository) {
	appointmentRepo := repositories.NewAppointmentRepository(nil)
	professionalRepo := repositories.NewProfessionalRepository(nil)
	catalogRepo := repositories.NewCatalogRepository()
	audit := utils.NewAuditRecorder()

	appointmentService := NewAppointmentService(appointmentRepo, professionalRepo, catalogRepo, audit, time.UTC)
	waitlistService := NewWaitlistService(appointmentRepo, audit, time.UTC)
	recurringService := NewRecurringService(appointmentRepo, professionalRepo, audit)
	return appointmentService, waitlistService, recurringService, appointmentRepo
}

func seedUnit(t *testing.T, name string) string {
	t.Helper()
	unit := models.Unit{ID: uuid.NewString(), Name: name}
	require.NoError(t, database.DB.Create(&unit).Error)
	return unit.ID
}

func seedProfessional(t *testing.T, name string, unitID *string) *models.Professional {
	t.Helper()
	specialty := models.Specialty{ID: uuid.NewString(), Name: "Especialidade " + name}
	require.NoError(t, database.DB.Create(&specialty).Error)

	professional := models.Professional{
		ID:          uuid.NewString(),
		Name:        name,
		UnitID:      unitID,
		SpecialtyID: &specialty.ID,
		Active:      true,
	}
	require.NoError(t, database.DB.Create(&professional).Error)
	return &professional
}

func seedPatient(t *testing.T, name string) *models.Patient {
	t.Helper()
	patient := models.Patient{ID: uuid.NewString(), Name: name}
	require.NoError(t, database.DB.Create(&patient).Error)
	return &patient
}

func forceStatus(t *testing.T, id, status string) {
	t.Helper()
	res := database.DB.Model(&models.Appointment{}).Where("id = ?", id).Update("status", status)
	require.NoError(t, res.Error)
	require.EqualValues(t, 1, res.RowsAffected)
}
