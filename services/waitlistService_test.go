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

func TestFindEntryReturnsWaitingListOnly(t *testing.T) {
	setupTestDB(t)
	service, waitlist, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	entry, err := waitlist.FindEntry(ctx, patient.ID, professional.ID)
	require.NoError(t, err)
	assert.Nil(t, entry)

	created, err := service.AddToWaitingList(ctx, models.WaitingListInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		RequestDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	entry, err = waitlist.FindEntry(ctx, patient.ID, professional.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, created.ID, entry.ID)
}

func TestPromoteToScheduled(t *testing.T) {
	setupTestDB(t)
	service, waitlist, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	entry, err := service.AddToWaitingList(ctx, models.WaitingListInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		RequestDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	slot := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	promoted, err := waitlist.PromoteToScheduled(ctx, entry.ID, slot, "reception")
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, promoted.Status)
	assert.True(t, promoted.AppointmentDateTime.Equal(slot))
}

func TestPromoteToScheduledRejectsOccupiedSlot(t *testing.T) {
	setupTestDB(t)
	service, waitlist, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	other := seedPatient(t, "Carla Dias")
	ctx := context.Background()

	slot := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	_, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      other.ID,
		ProfessionalID: professional.ID,
		DateTime:       slot,
	})
	require.NoError(t, err)

	entry, err := service.AddToWaitingList(ctx, models.WaitingListInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		RequestDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = waitlist.PromoteToScheduled(ctx, entry.ID, slot, "reception")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	var current models.Appointment
	require.NoError(t, database.DB.First(&current, "id = ?", entry.ID).Error)
	assert.Equal(t, models.StatusOnWaitingList, current.Status)
}

func TestPromoteToScheduledNotFound(t *testing.T) {
	setupTestDB(t)
	service, waitlist, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	_, err := waitlist.PromoteToScheduled(ctx, uuid.NewString(), time.Now(), "reception")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	// An appointment that exists but is not on the waiting list is also a
	// not-found outcome for the waiting-list view.
	scheduled, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = waitlist.PromoteToScheduled(ctx, scheduled.ID, time.Now(), "reception")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPromoteToActiveQueue(t *testing.T) {
	setupTestDB(t)
	service, waitlist, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	entry, err := service.AddToWaitingList(ctx, models.WaitingListInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		RequestDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	promoted, err := waitlist.PromoteToActiveQueue(ctx, entry.ID, "reception")
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, promoted.Status)
	assert.WithinDuration(t, time.Now(), promoted.AppointmentDateTime, 5*time.Second)
}

func TestPromoteToActiveQueueRejectsScheduled(t *testing.T) {
	setupTestDB(t)
	service, waitlist, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	slot := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	scheduled, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       slot,
	})
	require.NoError(t, err)

	_, err = waitlist.PromoteToActiveQueue(ctx, scheduled.ID, "reception")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	// The record is untouched.
	var current models.Appointment
	require.NoError(t, database.DB.First(&current, "id = ?", scheduled.ID).Error)
	assert.Equal(t, models.StatusScheduled, current.Status)
	assert.True(t, current.AppointmentDateTime.Equal(slot))
}

func TestFindFutureSchedule(t *testing.T) {
	setupTestDB(t)
	service, waitlist, _, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	found, err := waitlist.FindFutureSchedule(ctx, patient.ID, professional.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	future, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Now().AddDate(0, 0, 14),
	})
	require.NoError(t, err)

	found, err = waitlist.FindFutureSchedule(ctx, patient.ID, professional.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, future.ID, found.ID)
}
