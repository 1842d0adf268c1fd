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

func TestWeeklyCandidatesThreeMonths(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	candidates := WeeklyCandidates(base, 3)

	require.Len(t, candidates, 12)
	assert.True(t, candidates[0].Equal(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)))
	assert.True(t, candidates[11].Equal(time.Date(2024, 3, 25, 9, 0, 0, 0, time.UTC)))
	for _, c := range candidates {
		assert.Equal(t, 9, c.Hour())
		assert.Equal(t, base.Weekday(), c.Weekday())
	}
}

func TestWeeklyCandidatesEmptyHorizon(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	assert.Empty(t, WeeklyCandidates(base, 0))
}

func TestCreateSeriesSharesSeriesID(t *testing.T) {
	setupTestDB(t)
	service, _, recurring, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	base, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		CreatedBy:      "alice",
	})
	require.NoError(t, err)

	// A different user requesting the series does not become the creator of
	// the generated rows; they inherit the base appointment's creator.
	created, err := recurring.CreateSeries(ctx, models.RecurringSeriesInput{
		AppointmentID:    base.ID,
		DurationInMonths: 1,
		CreatedBy:        "bob",
	})
	require.NoError(t, err)
	require.Len(t, created, 4)

	seriesID := created[0].SeriesID
	require.NotNil(t, seriesID)
	for i, appointment := range created {
		require.NotNil(t, appointment.SeriesID)
		assert.Equal(t, *seriesID, *appointment.SeriesID)
		assert.Equal(t, models.StatusScheduled, appointment.Status)
		assert.Equal(t, "alice", appointment.CreatedBy)
		expected := base.AppointmentDateTime.AddDate(0, 0, 7*(i+1))
		assert.True(t, appointment.AppointmentDateTime.Equal(expected))
	}

	// The base slot itself is not part of the series.
	var current models.Appointment
	require.NoError(t, database.DB.First(&current, "id = ?", base.ID).Error)
	assert.Nil(t, current.SeriesID)

	var persisted models.Appointment
	require.NoError(t, database.DB.First(&persisted, "series_id = ?", *seriesID).Error)
	assert.Equal(t, "alice", persisted.CreatedBy)
}

func TestCreateSeriesReportsEveryConflict(t *testing.T) {
	setupTestDB(t)
	service, _, recurring, repo := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	other := seedPatient(t, "Carla Dias")
	ctx := context.Background()

	base, err := service.Create(ctx, models.CreateAppointmentInput{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		DateTime:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Occupy the second and fourth candidate slots.
	for _, at := range []time.Time{
		base.AppointmentDateTime.AddDate(0, 0, 14),
		base.AppointmentDateTime.AddDate(0, 0, 28),
	} {
		require.NoError(t, repo.Create(ctx, &models.Appointment{
			PatientID:           other.ID,
			ProfessionalID:      professional.ID,
			UnitID:              unitID,
			AppointmentDateTime: at,
			Status:              models.StatusScheduled,
		}))
	}

	_, err = recurring.CreateSeries(ctx, models.RecurringSeriesInput{
		AppointmentID:    base.ID,
		DurationInMonths: 2,
		CreatedBy:        "reception",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Contains(t, err.Error(), "16/03/2026 10:00")
	assert.Contains(t, err.Error(), "30/03/2026 10:00")

	// Nothing from the series was persisted.
	var count int64
	require.NoError(t, database.DB.Model(&models.Appointment{}).Where("series_id IS NOT NULL").Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateSeriesProfessionalWithoutUnit(t *testing.T) {
	setupTestDB(t)
	_, _, recurring, _ := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Carla Dias", nil)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	// Insert the base row directly; the professional has since lost its unit
	// assignment.
	base := models.Appointment{
		ID:                  uuid.NewString(),
		PatientID:           patient.ID,
		ProfessionalID:      professional.ID,
		UnitID:              unitID,
		AppointmentDateTime: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Status:              models.StatusScheduled,
		Vinculo:             models.VinculoNone,
	}
	require.NoError(t, database.DB.Create(&base).Error)

	_, err := recurring.CreateSeries(ctx, models.RecurringSeriesInput{
		AppointmentID:    base.ID,
		DurationInMonths: 3,
		CreatedBy:        "reception",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateSeriesUnknownBase(t *testing.T) {
	setupTestDB(t)
	_, _, recurring, _ := newTestServices()

	_, err := recurring.CreateSeries(context.Background(), models.RecurringSeriesInput{
		AppointmentID:    uuid.NewString(),
		DurationInMonths: 3,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteFutureOccurrencesCount(t *testing.T) {
	setupTestDB(t)
	_, _, recurring, repo := newTestServices()
	unitID := seedUnit(t, "Unidade Centro")
	professional := seedProfessional(t, "Ana Souza", &unitID)
	patient := seedPatient(t, "Bruno Lima")
	ctx := context.Background()

	seriesID := uuid.NewString()
	now := time.Now()
	for _, at := range []time.Time{now.AddDate(0, 0, -7), now.AddDate(0, 0, 7)} {
		appointment := &models.Appointment{
			PatientID:           patient.ID,
			ProfessionalID:      professional.ID,
			UnitID:              unitID,
			AppointmentDateTime: at,
			Status:              models.StatusScheduled,
			SeriesID:            &seriesID,
		}
		require.NoError(t, repo.Create(ctx, appointment))
	}

	deleted, err := recurring.DeleteFutureOccurrences(ctx, seriesID, "reception")
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}
