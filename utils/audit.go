package utils

import (
	"GestaoClinica/database"
	"GestaoClinica/models"
	"context"
	"log"
)

// Audit actions recorded by the lifecycle engine.
const (
	AuditAppointmentCreated  = "appointment_created"
	AuditWaitlistEntryAdded  = "waitlist_entry_added"
	AuditOnDemandCreated     = "on_demand_created"
	AuditCheckIn             = "check_in"
	AuditServiceStarted      = "service_started"
	AuditServiceCompleted    = "service_completed"
	AuditMarkedAsMissed      = "marked_as_missed"
	AuditCanceled            = "canceled"
	AuditWaitlistScheduled   = "waitlist_scheduled"
	AuditWaitlistAttended    = "waitlist_attended"
	AuditSeriesCreated       = "series_created"
	AuditSeriesFutureDeleted = "series_future_deleted"
)

// AuditRecorder persists audit entries fire-and-forget. A failed write is
// logged and never propagated; auditing must not abort the operation that
// produced it.
type AuditRecorder struct{}

func NewAuditRecorder() *AuditRecorder {
	return &AuditRecorder{}
}

func (a *AuditRecorder) Record(ctx context.Context, actor, action, appointmentID, detail string) {
	entry := models.AuditLog{
		Actor:  actor,
		Action: action,
		Detail: detail,
	}
	if appointmentID != "" {
		entry.AppointmentID = &appointmentID
	}
	if err := database.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("Audit write failed for %s: %v", action, err)
	}
}
