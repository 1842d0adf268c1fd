package repositories

import (
	"GestaoClinica/database"
	"GestaoClinica/models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletedReportsGroupAndFilter(t *testing.T) {
	setupTestDB(t)
	professional, patient := seedClinic(t)
	repo := NewAppointmentRepository(nil)
	reports := NewReportRepository()
	ctx := context.Background()

	complete := func(at time.Time, vinculo string) {
		appointment := newAppointment(professional, patient, at, models.StatusScheduled)
		appointment.Vinculo = vinculo
		require.NoError(t, repo.Create(ctx, appointment))
		require.NoError(t, database.DB.Model(&models.Appointment{}).
			Where("id = ?", appointment.ID).Update("status", models.StatusCompleted).Error)
	}

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	complete(base, models.VinculoNone)
	complete(base.Add(time.Hour), models.VinculoNone)
	complete(base.Add(2*time.Hour), models.VinculoHealthSystem)

	// Still scheduled, must not be counted.
	require.NoError(t, repo.Create(ctx, newAppointment(professional, patient, base.Add(3*time.Hour), models.StatusScheduled)))

	// Outside the period.
	complete(base.AddDate(0, 1, 0), models.VinculoNone)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	byProfessional, err := reports.CompletedByProfessional(ctx, *professional.UnitID, start, end)
	require.NoError(t, err)
	require.Len(t, byProfessional, 1)
	assert.Equal(t, professional.ID, byProfessional[0].ProfessionalID)
	assert.Equal(t, professional.Name, byProfessional[0].ProfessionalName)
	assert.EqualValues(t, 3, byProfessional[0].Total)

	byVinculo, err := reports.CompletedByVinculo(ctx, *professional.UnitID, start, end)
	require.NoError(t, err)
	require.Len(t, byVinculo, 2)
	assert.Equal(t, models.VinculoNone, byVinculo[0].Vinculo)
	assert.EqualValues(t, 2, byVinculo[0].Total)
	assert.Equal(t, models.VinculoHealthSystem, byVinculo[1].Vinculo)
	assert.EqualValues(t, 1, byVinculo[1].Total)

	// A different unit sees nothing.
	empty, err := reports.CompletedByProfessional(ctx, "other-unit", start, end)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
