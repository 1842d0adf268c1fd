package services

import (
	"GestaoClinica/apperrors"
	"GestaoClinica/models"
	"GestaoClinica/repositories"
	"GestaoClinica/utils"
	"context"
	"log"
	"time"
)

// WaitlistService manages the waiting-list view: the appointments in
// on_waiting_list and their two promotion paths.
type WaitlistService struct {
	appointments *repositories.AppointmentRepository
	audit        *utils.AuditRecorder
	location     *time.Location
}

func NewWaitlistService(appointments *repositories.AppointmentRepository, audit *utils.AuditRecorder, location *time.Location) *WaitlistService {
	if location == nil {
		location = time.Local
	}
	return &WaitlistService{appointments: appointments, audit: audit, location: location}
}

// FindEntry returns the waiting-list entry for the patient/professional
// pair, or nil when there is none.
func (s *WaitlistService) FindEntry(ctx context.Context, patientID, professionalID string) (*models.Appointment, error) {
	return s.appointments.FindWaitingEntry(ctx, patientID, professionalID)
}

// FindFutureSchedule returns the patient's next scheduled appointment with
// the professional, or nil.
func (s *WaitlistService) FindFutureSchedule(ctx context.Context, patientID, professionalID string) (*models.Appointment, error) {
	return s.appointments.FindFutureScheduled(ctx, patientID, professionalID, time.Now().In(s.location))
}

// PromoteToScheduled assigns a concrete slot to a waiting-list entry. An id
// that does not resolve to a waiting-list entry is a not-found outcome.
func (s *WaitlistService) PromoteToScheduled(ctx context.Context, id string, newDateTime time.Time, actor string) (*models.Appointment, error) {
	entry, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.Status != models.StatusOnWaitingList {
		return nil, apperrors.NotFound("waiting-list entry not found")
	}

	updated, err := s.appointments.UpdateStatusAndDateTime(ctx, id, models.StatusScheduled, newDateTime)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NotFound("waiting-list entry not found")
	}

	s.audit.Record(ctx, actor, utils.AuditWaitlistScheduled, id,
		"scheduled for "+newDateTime.Format("02/01/2006 15:04"))

	patient := updated.Patient
	go func() {
		if err := utils.SendSlotAssignedEmail(patient.Email, patient.Name, newDateTime); err != nil {
			log.Printf("Failed to send slot notification email: %v", err)
		}
	}()

	return updated, nil
}

// PromoteToActiveQueue moves a waiting-list entry into today's active
// service queue, resetting its datetime to now. Rejects entries no longer on
// the waiting list.
func (s *WaitlistService) PromoteToActiveQueue(ctx context.Context, id, actor string) (*models.Appointment, error) {
	entry, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperrors.NotFound("waiting-list entry not found")
	}
	if entry.Status != models.StatusOnWaitingList {
		return nil, apperrors.Validation("appointment is not on the waiting list (current status %q)", entry.Status)
	}

	updated, err := s.appointments.UpdateStatusAndDateTime(ctx, id, models.StatusWaiting, time.Now().In(s.location))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NotFound("waiting-list entry not found")
	}

	s.audit.Record(ctx, actor, utils.AuditWaitlistAttended, id, "")
	return updated, nil
}
