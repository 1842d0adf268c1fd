package services

import (
	"GestaoClinica/apperrors"
	"GestaoClinica/database"
	"GestaoClinica/models"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDenormalizesUnitAndSpecialty(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")

	appointment, err := service.Create(context.Background(), models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, unitID, appointment.UnitID)
	assert.Equal(t, "Especialidade Ana Souza", appointment.ServiceType)
	assert.Equal(t, models.StatusScheduled, appointment.Status)
}

func TestCreateUnknownProfessional(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	patient := seedPatient(t, "Bruno Lima")

	_, err := service.Create(context.Background(), models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: uuid.NewString(),
		DateTime:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateProfessionalWithoutUnit(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	professional := seedProfessional(t, "Carla Dias", nil)
	patient := seedPatient(t, "Bruno Lima")

	_, err := service.Create(context.Background(), models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAddToWaitingListRejectsDuplicate(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	input := models.WaitingListInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		RequestDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	entry, err := service.AddToWaitingList(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnWaitingList, entry.Status)

	_, err = service.AddToWaitingList(ctx, input)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreateOnDemandEntersActiveQueue(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")

	appointment, err := service.CreateOnDemand(context.Background(), models.OnDemandInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, appointment.Status)
	assert.WithinDuration(t, time.Now(), appointment.AppointmentDateTime, 5*time.Second)
}

func TestCheckInTransitions(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	appointment, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	updated, err := service.CheckIn(ctx, appointment.ID, "reception")
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, updated.Status)

	// Already waiting: a second check-in is an illegal transition.
	_, err = service.CheckIn(ctx, appointment.ID, "reception")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestStartServiceAuthorizationBeforeState(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	appointment, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// A non-owner gets a permission error even though the status would also
	// be illegal; authorization is checked first.
	_, err = service.StartService(ctx, appointment.ID, uuid.NewString(), models.RoleProfessional)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))

	// The owner against a scheduled appointment gets the state error.
	_, err = service.StartService(ctx, appointment.ID, professional.ID, models.RoleProfessional)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestStartServiceIdempotent(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	appointment, err := service.CreateOnDemand(ctx, models.OnDemandInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
	})
	require.NoError(t, err)

	started, err := service.StartService(ctx, appointment.ID, professional.ID, models.RoleProfessional)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, started.Status)

	again, err := service.StartService(ctx, appointment.ID, professional.ID, models.RoleProfessional)
	require.NoError(t, err)
	assert.Equal(t, started.ID, again.ID)
	assert.Equal(t, models.StatusInProgress, again.Status)
}

func TestStartServiceOverrideRole(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	appointment, err := service.CreateOnDemand(ctx, models.OnDemandInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
	})
	require.NoError(t, err)

	started, err := service.StartService(ctx, appointment.ID, "", models.RoleCoordinator)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, started.Status)
}

func TestCompleteServiceSideEffects(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	referralTarget := seedProfessional(t, "Davi Rocha", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	appointment, err := service.CreateOnDemand(ctx, models.OnDemandInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
	})
	require.NoError(t, err)
	_, err = service.StartService(ctx, appointment.ID, professional.ID, models.RoleProfessional)
	require.NoError(t, err)

	completed, err := service.CompleteService(ctx, appointment.ID, professional.ID, models.RoleProfessional, models.CompleteServiceInput{
		Evolution:               "responded well to treatment",
		ReferralProfessionalIDs: []string{referralTarget.ID, referralTarget.ID},
		Discharged:              false,
		FollowUpDays:            7,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.False(t, completed.Discharged)
	assert.Equal(t, 7, completed.FollowUpDays)

	var evolutions int64
	require.NoError(t, database.DB.Model(&models.Evolution{}).Where("appointment_id = ?", appointment.ID).Count(&evolutions).Error)
	assert.EqualValues(t, 1, evolutions)

	// Duplicate referral targets collapse into one link row.
	var referrals int64
	require.NoError(t, database.DB.Model(&models.Referral{}).Where("appointment_id = ?", appointment.ID).Count(&referrals).Error)
	assert.EqualValues(t, 1, referrals)

	var referralEntry models.Appointment
	require.NoError(t, database.DB.
		Where("patient_id = ? AND professional_id = ? AND status = ?", patient.ID, referralTarget.ID, models.StatusOnWaitingList).
		First(&referralEntry).Error)

	var followUp models.Appointment
	require.NoError(t, database.DB.
		Where("patient_id = ? AND professional_id = ? AND status = ?", patient.ID, professional.ID, models.StatusOnWaitingList).
		First(&followUp).Error)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), followUp.AppointmentDateTime, 5*time.Second)
}

func TestCompleteServiceDischargedSkipsFollowUp(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	appointment, err := service.CreateOnDemand(ctx, models.OnDemandInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
	})
	require.NoError(t, err)
	_, err = service.StartService(ctx, appointment.ID, professional.ID, models.RoleProfessional)
	require.NoError(t, err)

	completed, err := service.CompleteService(ctx, appointment.ID, professional.ID, models.RoleProfessional, models.CompleteServiceInput{
		Evolution:    "discharged after final session",
		Discharged:   true,
		FollowUpDays: 7,
	})
	require.NoError(t, err)
	assert.True(t, completed.Discharged)

	var entries int64
	require.NoError(t, database.DB.Model(&models.Appointment{}).
		Where("patient_id = ? AND status = ?", patient.ID, models.StatusOnWaitingList).
		Count(&entries).Error)
	assert.EqualValues(t, 0, entries)
}

func TestCompleteServiceRollsBackOnFailure(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	appointment, err := service.CreateOnDemand(ctx, models.OnDemandInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
	})
	require.NoError(t, err)
	_, err = service.StartService(ctx, appointment.ID, professional.ID, models.RoleProfessional)
	require.NoError(t, err)

	// Force the evolution insert to fail mid-transaction.
	require.NoError(t, database.DB.Migrator().DropTable(&models.Evolution{}))

	_, err = service.CompleteService(ctx, appointment.ID, professional.ID, models.RoleProfessional, models.CompleteServiceInput{
		Evolution:    "will not be persisted",
		FollowUpDays: 7,
	})
	require.Error(t, err)

	var current models.Appointment
	require.NoError(t, database.DB.First(&current, "id = ?", appointment.ID).Error)
	assert.Equal(t, models.StatusInProgress, current.Status)
	assert.False(t, current.Discharged)
	assert.Equal(t, 0, current.FollowUpDays)

	var entries int64
	require.NoError(t, database.DB.Model(&models.Appointment{}).
		Where("patient_id = ? AND status = ?", patient.ID, models.StatusOnWaitingList).
		Count(&entries).Error)
	assert.EqualValues(t, 0, entries)
}

func TestCompleteServiceRequiresInProgress(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	appointment, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = service.CompleteService(ctx, appointment.ID, professional.ID, models.RoleProfessional, models.CompleteServiceInput{
		Evolution: "nothing to complete",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestMarkAsMissedObservationSemantics(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	justified, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	updated, err := service.MarkAsMissed(ctx, justified.ID, true, "medical certificate presented", "reception")
	require.NoError(t, err)
	assert.Equal(t, models.StatusJustifiedAbsence, updated.Status)
	require.NotNil(t, updated.Observation)
	assert.Equal(t, "medical certificate presented", *updated.Observation)

	unjustified, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// The unjustified path never stores a reason, even when one is sent.
	updated, err = service.MarkAsMissed(ctx, unjustified.ID, false, "ignored text", "reception")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnjustifiedAbsence, updated.Status)
	assert.Nil(t, updated.Observation)
}

func TestCancelRejectsCompleted(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	appointment, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	forceStatus(t, appointment.ID, models.StatusCompleted)

	_, err = service.Cancel(ctx, appointment.ID, "reception")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	var current models.Appointment
	require.NoError(t, database.DB.First(&current, "id = ?", appointment.ID).Error)
	assert.Equal(t, models.StatusCompleted, current.Status)
}

func TestCancelNonTerminal(t *testing.T) {
	setupTestDB(t)
	service, _, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	appointment, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	updated, err := service.Cancel(ctx, appointment.ID, "reception")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceled, updated.Status)
}
