package services

import (
	"GestaoClinica/apperrors"
	"GestaoClinica/models"
	"GestaoClinica/repositories"
	"GestaoClinica/utils"
	"context"
	"time"
)

// AppointmentService is the lifecycle engine: the only caller of the store's
// status-changing operations. Every transition re-fetches the current record,
// checks authorization before the status precondition, and translates
// store-level "no row" outcomes into domain not-found errors.
type AppointmentService struct {
	appointments  *repositories.AppointmentRepository
	professionals *repositories.ProfessionalRepository
	catalog       *repositories.CatalogRepository
	audit         *utils.AuditRecorder
	location      *time.Location
}

func NewAppointmentService(appointments *repositories.AppointmentRepository, professionals *repositories.ProfessionalRepository, catalog *repositories.CatalogRepository, audit *utils.AuditRecorder, location *time.Location) *AppointmentService {
	if location == nil {
		location = time.Local
	}
	return &AppointmentService{
		appointments:  appointments,
		professionals: professionals,
		catalog:       catalog,
		audit:         audit,
		location:      location,
	}
}

// Create books a scheduled appointment. The unit and service type are
// denormalized from the professional, never taken from client input.
func (s *AppointmentService) Create(ctx context.Context, input models.CreateAppointmentInput) (*models.Appointment, error) {
	professional, err := s.resolveProfessional(ctx, input.ProfessionalID)
	if err != nil {
		return nil, err
	}
	unitID, err := requireUnit(professional)
	if err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		PatientID:           input.PatientID,
		ProfessionalID:      professional.ID,
		UnitID:              unitID,
		AppointmentDateTime: input.DateTime,
		Status:              models.StatusScheduled,
		ServiceType:         professionalServiceType(professional),
		Observation:         input.Observation,
		Vinculo:             input.Vinculo,
		CreatedBy:           input.CreatedBy,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, input.CreatedBy, utils.AuditAppointmentCreated, appointment.ID,
		"scheduled for "+appointment.AppointmentDateTime.Format("02/01/2006 15:04"))
	return appointment, nil
}

// AddToWaitingList creates an appointment directly in on_waiting_list. The
// datetime is synthesized from the request date at the current clinic-local
// time of day.
func (s *AppointmentService) AddToWaitingList(ctx context.Context, input models.WaitingListInput) (*models.Appointment, error) {
	professional, err := s.resolveProfessional(ctx, input.ProfessionalID)
	if err != nil {
		return nil, err
	}
	unitID, err := requireUnit(professional)
	if err != nil {
		return nil, err
	}

	existing, err := s.appointments.FindWaitingEntry(ctx, input.PatientID, input.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("patient is already on the waiting list for this professional")
	}

	now := time.Now().In(s.location)
	day := input.RequestDate.In(s.location)
	entryDateTime := time.Date(day.Year(), day.Month(), day.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, s.location)

	appointment := &models.Appointment{
		PatientID:           input.PatientID,
		ProfessionalID:      professional.ID,
		UnitID:              unitID,
		AppointmentDateTime: entryDateTime,
		Status:              models.StatusOnWaitingList,
		ServiceType:         professionalServiceType(professional),
		Observation:         input.Observation,
		Vinculo:             input.Vinculo,
		CreatedBy:           input.CreatedBy,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, input.CreatedBy, utils.AuditWaitlistEntryAdded, appointment.ID, "")
	return appointment, nil
}

// CreateOnDemand registers a walk-in. The appointment enters the active
// service queue directly; the store assigns the current instant.
func (s *AppointmentService) CreateOnDemand(ctx context.Context, input models.OnDemandInput) (*models.Appointment, error) {
	professional, err := s.resolveProfessional(ctx, input.ProfessionalID)
	if err != nil {
		return nil, err
	}
	unitID, err := requireUnit(professional)
	if err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		PatientID:      input.PatientID,
		ProfessionalID: professional.ID,
		UnitID:         unitID,
		Status:         models.StatusWaiting,
		ServiceType:    professionalServiceType(professional),
		Observation:    input.Observation,
		Vinculo:        input.Vinculo,
		CreatedBy:      input.CreatedBy,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, input.CreatedBy, utils.AuditOnDemandCreated, appointment.ID, "")
	return appointment, nil
}

// CheckIn moves a scheduled or waiting-list appointment into the active
// queue.
func (s *AppointmentService) CheckIn(ctx context.Context, id, actor string) (*models.Appointment, error) {
	appointment, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != models.StatusScheduled && appointment.Status != models.StatusOnWaitingList {
		return nil, apperrors.Conflict("cannot check in an appointment in status %q", appointment.Status)
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, models.StatusWaiting, nil)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NotFound("appointment not found")
	}

	s.audit.Record(ctx, actor, utils.AuditCheckIn, id, "")
	return updated, nil
}

// MarkAsMissed records an absence. The observation is persisted only for
// justified absences; the unjustified path stores no reason.
func (s *AppointmentService) MarkAsMissed(ctx context.Context, id string, justified bool, observation, actor string) (*models.Appointment, error) {
	if _, err := s.fetch(ctx, id); err != nil {
		return nil, err
	}

	status := models.StatusUnjustifiedAbsence
	var obs *string
	if justified {
		status = models.StatusJustifiedAbsence
		if observation != "" {
			obs = &observation
		}
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, status, obs)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NotFound("appointment not found")
	}

	s.audit.Record(ctx, actor, utils.AuditMarkedAsMissed, id, status)
	return updated, nil
}

// StartService begins attendance. Only the assigned professional (or an
// override role) may start it; calling it again while already in progress is
// a no-op.
func (s *AppointmentService) StartService(ctx context.Context, id, callerProfessionalID, callerRole string) (*models.Appointment, error) {
	appointment, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeAssigned(appointment, callerProfessionalID, callerRole, "start"); err != nil {
		return nil, err
	}
	if appointment.Status == models.StatusInProgress {
		return appointment, nil
	}
	if appointment.Status != models.StatusWaiting {
		return nil, apperrors.Conflict("cannot start service for an appointment in status %q", appointment.Status)
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, models.StatusInProgress, nil)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NotFound("appointment not found")
	}

	s.audit.Record(ctx, callerProfessionalID, utils.AuditServiceStarted, id, "")
	return updated, nil
}

// CompleteService finishes attendance. The status flip, the evolution
// record, referral link rows and any referral/follow-up waiting-list entries
// are committed in one transaction: either all apply or none do.
func (s *AppointmentService) CompleteService(ctx context.Context, id, callerProfessionalID, callerRole string, input models.CompleteServiceInput) (*models.Appointment, error) {
	appointment, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeAssigned(appointment, callerProfessionalID, callerRole, "complete"); err != nil {
		return nil, err
	}
	if appointment.Status != models.StatusInProgress {
		return nil, apperrors.Conflict("cannot complete a service in status %q", appointment.Status)
	}

	evolution := &models.Evolution{
		AppointmentID:  id,
		ProfessionalID: appointment.ProfessionalID,
		Content:        input.Evolution,
	}

	now := time.Now().In(s.location)
	var referrals []models.Referral
	var waitlistEntries []*models.Appointment
	seen := make(map[string]bool)

	for _, targetID := range input.ReferralProfessionalIDs {
		if targetID == "" || seen[targetID] {
			continue
		}
		seen[targetID] = true

		target, err := s.resolveProfessional(ctx, targetID)
		if err != nil {
			return nil, err
		}
		referrals = append(referrals, models.Referral{
			AppointmentID:      id,
			FromProfessionalID: appointment.ProfessionalID,
			ToProfessionalID:   targetID,
		})

		entry, err := s.buildWaitlistEntry(ctx, appointment, target, now, callerProfessionalID)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			waitlistEntries = append(waitlistEntries, entry)
		}
	}

	if !input.Discharged && input.FollowUpDays > 0 {
		existing, err := s.appointments.FindWaitingEntry(ctx, appointment.PatientID, appointment.ProfessionalID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			waitlistEntries = append(waitlistEntries, &models.Appointment{
				PatientID:           appointment.PatientID,
				ProfessionalID:      appointment.ProfessionalID,
				UnitID:              appointment.UnitID,
				AppointmentDateTime: now.AddDate(0, 0, input.FollowUpDays),
				Status:              models.StatusOnWaitingList,
				ServiceType:         appointment.ServiceType,
				Vinculo:             appointment.Vinculo,
				CreatedBy:           callerProfessionalID,
			})
		}
	}

	updated, err := s.appointments.Complete(ctx, id, evolution, referrals, waitlistEntries, input.Discharged, input.FollowUpDays)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, callerProfessionalID, utils.AuditServiceCompleted, id, "")
	return updated, nil
}

// Cancel voids an appointment in any non-completed status.
func (s *AppointmentService) Cancel(ctx context.Context, id, actor string) (*models.Appointment, error) {
	appointment, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == models.StatusCompleted {
		return nil, apperrors.Conflict("appointment has already been completed")
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, models.StatusCanceled, nil)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NotFound("appointment not found")
	}

	s.audit.Record(ctx, actor, utils.AuditCanceled, id, "")
	return updated, nil
}

func (s *AppointmentService) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return s.fetch(ctx, id)
}

func (s *AppointmentService) FindByFilters(ctx context.Context, filter repositories.AppointmentFilter) ([]models.Appointment, error) {
	if filter.Location == nil {
		filter.Location = s.location
	}
	return s.appointments.FindByFilters(ctx, filter)
}

// buildWaitlistEntry prepares the referral waiting-list entry for the target
// professional, or nil when the patient is already waiting for (or already
// booked with) that professional.
func (s *AppointmentService) buildWaitlistEntry(ctx context.Context, appointment *models.Appointment, target *models.Professional, now time.Time, actor string) (*models.Appointment, error) {
	existing, err := s.appointments.FindWaitingEntry(ctx, appointment.PatientID, target.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}
	future, err := s.appointments.FindFutureScheduled(ctx, appointment.PatientID, target.ID, now)
	if err != nil {
		return nil, err
	}
	if future != nil {
		return nil, nil
	}

	unitID, err := requireUnit(target)
	if err != nil {
		return nil, err
	}
	return &models.Appointment{
		PatientID:           appointment.PatientID,
		ProfessionalID:      target.ID,
		UnitID:              unitID,
		AppointmentDateTime: now,
		Status:              models.StatusOnWaitingList,
		ServiceType:         professionalServiceType(target),
		Vinculo:             appointment.Vinculo,
		CreatedBy:           actor,
	}, nil
}

func (s *AppointmentService) fetch(ctx context.Context, id string) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, apperrors.NotFound("appointment not found")
	}
	return appointment, nil
}

func (s *AppointmentService) resolveProfessional(ctx context.Context, id string) (*models.Professional, error) {
	professional, err := s.professionals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if professional == nil {
		return nil, apperrors.NotFound("professional not found")
	}
	return professional, nil
}

// authorizeAssigned rejects callers that are neither the assigned
// professional nor an override role. Checked before the status precondition
// so a non-owner gets a permission error rather than a state error.
func authorizeAssigned(appointment *models.Appointment, callerProfessionalID, callerRole, action string) error {
	if appointment.ProfessionalID == callerProfessionalID || models.IsOverrideRole(callerRole) {
		return nil
	}
	return apperrors.Forbidden("only the assigned professional can %s this service", action)
}

func requireUnit(professional *models.Professional) (string, error) {
	if professional.UnitID == nil || *professional.UnitID == "" {
		return "", apperrors.Validation("professional %s has no assigned unit", professional.Name)
	}
	return *professional.UnitID, nil
}

func professionalServiceType(professional *models.Professional) string {
	if professional.Specialty != nil {
		return professional.Specialty.Name
	}
	return ""
}
