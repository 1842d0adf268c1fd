package services

import (
	"GestaoClinica/apperrors"
	"GestaoClinica/models"
	"GestaoClinica/repositories"
	"GestaoClinica/utils"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecurringService generates weekly appointment series from a base
// appointment: a fixed 7-day cadence bounded by a month horizon, committed
// all-or-nothing after a whole-batch conflict check.
type RecurringService struct {
	appointments  *repositories.AppointmentRepository
	professionals *repositories.ProfessionalRepository
	audit         *utils.AuditRecorder
}

func NewRecurringService(appointments *repositories.AppointmentRepository, professionals *repositories.ProfessionalRepository, audit *utils.AuditRecorder) *RecurringService {
	return &RecurringService{
		appointments:  appointments,
		professionals: professionals,
		audit:         audit,
	}
}

// WeeklyCandidates computes the series instants: starting one week after the
// base slot (which already exists and is excluded), stepping by exactly 7
// days, strictly before base plus the month horizon. All candidates share
// the base slot's time of day.
func WeeklyCandidates(base time.Time, months int) []time.Time {
	limit := base.AddDate(0, months, 0)
	var candidates []time.Time
	for t := base.AddDate(0, 0, 7); t.Before(limit); t = t.AddDate(0, 0, 7) {
		candidates = append(candidates, t)
	}
	return candidates
}

// CreateSeries validates the whole candidate batch against existing bookings
// and inserts it atomically. Any conflict aborts with every conflicting slot
// listed, and nothing is persisted.
func (s *RecurringService) CreateSeries(ctx context.Context, input models.RecurringSeriesInput) ([]models.Appointment, error) {
	base, err := s.appointments.GetByID(ctx, input.AppointmentID)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, apperrors.NotFound("appointment not found")
	}

	professional, err := s.professionals.GetByID(ctx, base.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if professional == nil {
		return nil, apperrors.NotFound("professional not found")
	}
	unitID, err := requireUnit(professional)
	if err != nil {
		return nil, err
	}

	candidates := WeeklyCandidates(base.AppointmentDateTime, input.DurationInMonths)
	if len(candidates) == 0 {
		return []models.Appointment{}, nil
	}

	conflicts, err := s.appointments.FindConflicts(ctx, base.ProfessionalID, candidates)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		formatted := make([]string, len(conflicts))
		for i, c := range conflicts {
			formatted[i] = c.Format("02/01/2006 15:04")
		}
		return nil, apperrors.Conflict("the following slots are already booked: %s", strings.Join(formatted, "; "))
	}

	seriesID := uuid.NewString()
	batch := make([]*models.Appointment, len(candidates))
	for i, at := range candidates {
		batch[i] = &models.Appointment{
			PatientID:           base.PatientID,
			ProfessionalID:      base.ProfessionalID,
			UnitID:              unitID,
			SeriesID:            &seriesID,
			AppointmentDateTime: at,
			Status:              models.StatusScheduled,
			ServiceType:         base.ServiceType,
			Observation:         base.Observation,
			Vinculo:             base.Vinculo,
			CreatedBy:           base.CreatedBy,
		}
	}
	if err := s.appointments.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, input.CreatedBy, utils.AuditSeriesCreated, base.ID,
		fmt.Sprintf("series %s with %d occurrences", seriesID, len(batch)))

	created := make([]models.Appointment, len(batch))
	for i, appointment := range batch {
		created[i] = *appointment
	}
	return created, nil
}

// DeleteFutureOccurrences removes the series members still in the future and
// returns how many were deleted. Past occurrences are immutable history.
func (s *RecurringService) DeleteFutureOccurrences(ctx context.Context, seriesID, actor string) (int64, error) {
	deleted, err := s.appointments.DeleteFutureBySeries(ctx, seriesID, time.Now())
	if err != nil {
		return 0, err
	}

	s.audit.Record(ctx, actor, utils.AuditSeriesFutureDeleted, "",
		fmt.Sprintf("series %s: %d occurrences removed", seriesID, deleted))
	return deleted, nil
}
