package repositories

import (
	"GestaoClinica/apperrors"
	"GestaoClinica/cache"
	"GestaoClinica/database"
	"GestaoClinica/models"
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AppointmentCacheExpiry = 24 * time.Hour
)

// Period filter values for FindByFilters, evaluated in the clinic's civil time.
const (
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
)

// AppointmentFilter describes the agenda query. An empty ProfessionalID means
// all professionals. Statuses may hold one or more values. Date and
// StartDate/EndDate are mutually exclusive; Date wins when both are set.
type AppointmentFilter struct {
	ProfessionalID  string
	UnitID          string
	Date            *time.Time
	StartDate       *time.Time
	EndDate         *time.Time
	Statuses        []string
	Period          string
	IncludeInactive bool
	Location        *time.Location
}

// AppointmentRepository is the single source of truth for appointment rows.
// Status and datetime writes happen only here; transition legality is the
// service layer's responsibility.
type AppointmentRepository struct {
	cache *cache.Cache
}

func NewAppointmentRepository(cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{cache: cache}
}

// Create inserts a new appointment. Status defaults to scheduled and the
// datetime defaults to the current instant (the walk-in case). Slot-occupying
// inserts run under the slot lock with a conflict pre-check; the partial
// unique index backs the same invariant at the storage level.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID == "" {
		appointment.ID = uuid.NewString()
	}
	if appointment.Status == "" {
		appointment.Status = models.StatusScheduled
	}
	if !models.IsValidStatus(appointment.Status) {
		return apperrors.Validation("invalid status value: %q", appointment.Status)
	}
	if appointment.Vinculo == "" {
		appointment.Vinculo = models.VinculoNone
	}
	if !models.IsValidVinculo(appointment.Vinculo) {
		return apperrors.Validation("invalid vinculo value: %q", appointment.Vinculo)
	}
	if appointment.AppointmentDateTime.IsZero() {
		appointment.AppointmentDateTime = time.Now()
	}

	insert := func() error {
		if models.IsSlotOccupying(appointment.Status) {
			conflict, err := r.HasConflict(ctx, appointment.ProfessionalID, appointment.AppointmentDateTime)
			if err != nil {
				return err
			}
			if conflict {
				return apperrors.Conflict("professional already has an appointment at %s",
					appointment.AppointmentDateTime.Format("02/01/2006 15:04"))
			}
		}
		if err := database.DB.WithContext(ctx).Create(appointment).Error; err != nil {
			return translateUniqueViolation(err)
		}
		return nil
	}

	var err error
	if models.IsSlotOccupying(appointment.Status) {
		err = database.WithSlotLock(ctx, appointment.ProfessionalID, appointment.AppointmentDateTime, insert)
	} else {
		err = insert()
	}
	if err != nil {
		return err
	}

	r.invalidate(ctx, appointment.ID)
	return nil
}

// HasConflict reports whether the professional already holds a slot-occupying
// appointment at the exact instant. Read-only.
func (r *AppointmentRepository) HasConflict(ctx context.Context, professionalID string, at time.Time) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("professional_id = ? AND appointment_datetime = ? AND status IN ?",
			professionalID, at, models.SlotOccupyingStatuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindConflicts checks every candidate in one query and returns all
// conflicting instants, in candidate order, so callers can report the full
// list at once.
func (r *AppointmentRepository) FindConflicts(ctx context.Context, professionalID string, candidates []time.Time) ([]time.Time, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var taken []time.Time
	err := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("professional_id = ? AND appointment_datetime IN ? AND status IN ?",
			professionalID, candidates, models.SlotOccupyingStatuses).
		Pluck("appointment_datetime", &taken).Error
	if err != nil {
		return nil, err
	}
	if len(taken) == 0 {
		return nil, nil
	}

	occupied := make(map[int64]bool, len(taken))
	for _, t := range taken {
		occupied[t.Unix()] = true
	}
	var conflicts []time.Time
	for _, c := range candidates {
		if occupied[c.Unix()] {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts, nil
}

// GetByID returns the appointment or (nil, nil) when it does not exist.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	cacheKey := r.getCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil {
		var appointment models.Appointment
		if err := json.Unmarshal([]byte(cached), &appointment); err == nil {
			return &appointment, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("Failed to get appointment from cache: %v", err)
	}

	var appointment models.Appointment
	err := database.DB.WithContext(ctx).
		Preload("Patient").
		Preload("Professional").
		First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if data, err := json.Marshal(appointment); err == nil {
		if err := r.cache.Set(ctx, cacheKey, data, AppointmentCacheExpiry); err != nil {
			log.Printf("Failed to set appointment in cache: %v", err)
		}
	}

	return &appointment, nil
}

// FindByProfessionalAndDateTime returns the slot-occupying appointment at the
// exact instant, or (nil, nil).
func (r *AppointmentRepository) FindByProfessionalAndDateTime(ctx context.Context, professionalID string, at time.Time) (*models.Appointment, error) {
	var appointment models.Appointment
	err := database.DB.WithContext(ctx).
		Where("professional_id = ? AND appointment_datetime = ? AND status IN ?",
			professionalID, at, models.SlotOccupyingStatuses).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindWaitingEntry returns the waiting-list entry for the patient and
// professional pair, or (nil, nil). At most one such entry exists.
func (r *AppointmentRepository) FindWaitingEntry(ctx context.Context, patientID, professionalID string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := database.DB.WithContext(ctx).
		Where("patient_id = ? AND professional_id = ? AND status = ?",
			patientID, professionalID, models.StatusOnWaitingList).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindFutureScheduled returns the patient's next scheduled appointment with
// the professional after the given instant, or (nil, nil).
func (r *AppointmentRepository) FindFutureScheduled(ctx context.Context, patientID, professionalID string, after time.Time) (*models.Appointment, error) {
	var appointment models.Appointment
	err := database.DB.WithContext(ctx).
		Where("patient_id = ? AND professional_id = ? AND status = ? AND appointment_datetime > ?",
			patientID, professionalID, models.StatusScheduled, after).
		Order("appointment_datetime ASC").
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// UpdateStatus unconditionally writes the status (and observation, when
// non-nil). It returns (nil, nil) when no row matched; callers translate that
// into a domain not-found error.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id, status string, observation *string) (*models.Appointment, error) {
	if !models.IsValidStatus(status) {
		return nil, apperrors.Validation("invalid status value: %q", status)
	}

	updates := map[string]interface{}{"status": status}
	if observation != nil {
		updates["observation"] = *observation
	}

	res := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, translateUniqueViolation(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	r.invalidate(ctx, id)
	return r.GetByID(ctx, id)
}

// UpdateStatusAndDateTime writes status and datetime together (waiting-list
// promotions). When the target status occupies a slot the write runs under
// the slot lock with a conflict check excluding the appointment itself.
func (r *AppointmentRepository) UpdateStatusAndDateTime(ctx context.Context, id, status string, at time.Time) (*models.Appointment, error) {
	if !models.IsValidStatus(status) {
		return nil, apperrors.Validation("invalid status value: %q", status)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	write := func() error {
		if models.IsSlotOccupying(status) {
			var count int64
			err := database.DB.WithContext(ctx).Model(&models.Appointment{}).
				Where("professional_id = ? AND appointment_datetime = ? AND status IN ? AND id <> ?",
					current.ProfessionalID, at, models.SlotOccupyingStatuses, id).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				return apperrors.Conflict("professional already has an appointment at %s",
					at.Format("02/01/2006 15:04"))
			}
		}
		res := database.DB.WithContext(ctx).Model(&models.Appointment{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"status": status, "appointment_datetime": at})
		if res.Error != nil {
			return translateUniqueViolation(res.Error)
		}
		return nil
	}

	if models.IsSlotOccupying(status) {
		err = database.WithSlotLock(ctx, current.ProfessionalID, at, write)
	} else {
		err = write()
	}
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id)
	return r.GetByID(ctx, id)
}

// CreateBatch inserts all appointments inside one transaction; if any insert
// fails nothing is persisted.
func (r *AppointmentRepository) CreateBatch(ctx context.Context, appointments []*models.Appointment) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, appointment := range appointments {
			if appointment.ID == "" {
				appointment.ID = uuid.NewString()
			}
			if appointment.Status == "" {
				appointment.Status = models.StatusScheduled
			}
			if err := tx.Create(appointment).Error; err != nil {
				return translateUniqueViolation(err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	keys := make([]string, len(appointments))
	for i, appointment := range appointments {
		keys[i] = r.getCacheKey(appointment.ID)
	}
	if err := r.cache.DeleteBatch(ctx, keys...); err != nil {
		log.Printf("Failed to invalidate appointment cache: %v", err)
	}
	return nil
}

// Complete flips the appointment to completed and applies every completion
// side effect in one transaction: the evolution record, referral link rows
// and any referral or follow-up waiting-list entries. The status flip is a
// compare-and-swap on in_progress, so a concurrent transition rolls the whole
// batch back.
func (r *AppointmentRepository) Complete(ctx context.Context, id string, evolution *models.Evolution, referrals []models.Referral, waitlistEntries []*models.Appointment, discharged bool, followUpDays int) (*models.Appointment, error) {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", id, models.StatusInProgress).
			Updates(map[string]interface{}{
				"status":         models.StatusCompleted,
				"discharged":     discharged,
				"follow_up_days": followUpDays,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict("appointment is no longer in progress")
		}

		if err := tx.Create(evolution).Error; err != nil {
			return err
		}
		if len(referrals) > 0 {
			if err := tx.Create(&referrals).Error; err != nil {
				return err
			}
		}
		for _, entry := range waitlistEntries {
			if entry.ID == "" {
				entry.ID = uuid.NewString()
			}
			if err := tx.Create(entry).Error; err != nil {
				return translateUniqueViolation(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id)
	for _, entry := range waitlistEntries {
		r.invalidate(ctx, entry.ID)
	}
	return r.GetByID(ctx, id)
}

// DeleteFutureBySeries removes the series members whose datetime is still in
// the future. Past occurrences are immutable history.
func (r *AppointmentRepository) DeleteFutureBySeries(ctx context.Context, seriesID string, now time.Time) (int64, error) {
	res := database.DB.WithContext(ctx).
		Where("series_id = ? AND appointment_datetime > ?", seriesID, now).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return 0, res.Error
	}
	if err := r.cache.DeleteAll(ctx, "appointment_cache*"); err != nil {
		log.Printf("Failed to invalidate appointment cache: %v", err)
	}
	return res.RowsAffected, nil
}

// FindByFilters runs the agenda query. Appointments of deactivated
// professionals are excluded unless IncludeInactive is set. The time-of-day
// period filter is applied in the clinic's civil time.
func (r *AppointmentRepository) FindByFilters(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	query := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Joins("JOIN professional ON professional.id = appointment.professional_id").
		Preload("Patient").
		Preload("Professional")

	if filter.ProfessionalID != "" {
		query = query.Where("appointment.professional_id = ?", filter.ProfessionalID)
	}
	if filter.UnitID != "" {
		query = query.Where("appointment.unit_id = ?", filter.UnitID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("appointment.status IN ?", filter.Statuses)
	}
	if !filter.IncludeInactive {
		query = query.Where("professional.active = ?", true)
	}

	loc := filter.Location
	if loc == nil {
		loc = time.Local
	}
	if filter.Date != nil {
		dayStart := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, loc)
		query = query.Where("appointment.appointment_datetime >= ? AND appointment.appointment_datetime < ?",
			dayStart, dayStart.AddDate(0, 0, 1))
	} else {
		if filter.StartDate != nil {
			query = query.Where("appointment.appointment_datetime >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			query = query.Where("appointment.appointment_datetime < ?", filter.EndDate.AddDate(0, 0, 1))
		}
	}

	var appointments []models.Appointment
	if err := query.Order("appointment.appointment_datetime ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}

	if filter.Period == "" {
		return appointments, nil
	}

	filtered := appointments[:0]
	for _, appointment := range appointments {
		beforeNoon := appointment.AppointmentDateTime.In(loc).Hour() < 12
		if (filter.Period == PeriodMorning && beforeNoon) || (filter.Period == PeriodAfternoon && !beforeNoon) {
			filtered = append(filtered, appointment)
		}
	}
	return filtered, nil
}

func (r *AppointmentRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, r.getCacheKey(id)); err != nil {
		log.Printf("Failed to delete appointment cache: %v", err)
	}
}

func (r *AppointmentRepository) getCacheKey(id string) string {
	return "appointment_cache:" + id
}

// translateUniqueViolation maps storage-level uniqueness errors onto the
// domain conflicts they enforce. This is the backstop for the race two
// concurrent creates can win simultaneously at the application level.
func translateUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if !strings.Contains(msg, "idx_appointment_slot") &&
		!strings.Contains(msg, "idx_appointment_waitlist") &&
		!strings.Contains(msg, "UNIQUE constraint failed") &&
		!strings.Contains(msg, "duplicate key") {
		return err
	}
	if strings.Contains(msg, "idx_appointment_waitlist") ||
		(strings.Contains(msg, "patient_id") && strings.Contains(msg, "professional_id")) {
		return apperrors.Conflict("patient already has a waiting-list entry for this professional")
	}
	return apperrors.Conflict("time slot is already booked for this professional")
}
