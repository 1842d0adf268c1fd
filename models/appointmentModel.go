package models

import (
	"time"
)

// Appointment statuses. Completed and canceled are terminal; the absence
// statuses close the slot but do not block rebooking the patient elsewhere.
const (
	StatusScheduled          = "scheduled"
	StatusOnWaitingList      = "on_waiting_list"
	StatusWaiting            = "waiting"
	StatusInProgress         = "in_progress"
	StatusCompleted          = "completed"
	StatusJustifiedAbsence   = "justified_absence"
	StatusUnjustifiedAbsence = "unjustified_absence"
	StatusCanceled           = "canceled"
)

// Vinculo funding-source tags, used for reporting aggregation.
const (
	VinculoNone            = "none"
	VinculoHealthSystem    = "health_system"
	VinculoEducationSystem = "education_system"
	VinculoInternal        = "internal"
)

// AllStatuses is the closed status set; nothing outside it is ever persisted.
var AllStatuses = []string{
	StatusScheduled,
	StatusOnWaitingList,
	StatusWaiting,
	StatusInProgress,
	StatusCompleted,
	StatusJustifiedAbsence,
	StatusUnjustifiedAbsence,
	StatusCanceled,
}

// SlotOccupyingStatuses are the statuses that hold a professional's slot:
// two appointments for the same professional may never share a datetime
// while both are in one of these.
var SlotOccupyingStatuses = []string{StatusScheduled, StatusWaiting, StatusInProgress}

var AllVinculos = []string{VinculoNone, VinculoHealthSystem, VinculoEducationSystem, VinculoInternal}

func IsValidStatus(status string) bool {
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidVinculo(vinculo string) bool {
	for _, v := range AllVinculos {
		if v == vinculo {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether no further transitions are allowed.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCanceled
}

// IsSlotOccupying reports whether the status holds the professional's slot.
func IsSlotOccupying(status string) bool {
	for _, s := range SlotOccupyingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Appointment model. The unit is always denormalized from the professional's
// home unit at creation time, never taken from client input. ServiceType
// snapshots the professional's specialty name at creation; later specialty
// changes do not rewrite history.
type Appointment struct {
	ID                  string       `gorm:"primaryKey;column:id" json:"id"`
	PatientID           string       `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ProfessionalID      string       `gorm:"column:professional_id;not null;index" json:"professional_id"`
	UnitID              string       `gorm:"column:unit_id;not null;index" json:"unit_id"`
	SeriesID            *string      `gorm:"column:series_id;index" json:"series_id"`
	AppointmentDateTime time.Time    `gorm:"column:appointment_datetime;index" json:"appointment_datetime"`
	Status              string       `gorm:"column:status;not null;index;check:status IN ('scheduled', 'on_waiting_list', 'waiting', 'in_progress', 'completed', 'justified_absence', 'unjustified_absence', 'canceled')" json:"status"`
	ServiceType         string       `gorm:"column:service_type" json:"service_type"`
	Observation         *string      `gorm:"column:observation;type:text" json:"observation"`
	Vinculo             string       `gorm:"column:vinculo;not null;default:'none';check:vinculo IN ('none', 'health_system', 'education_system', 'internal')" json:"vinculo"`
	Discharged          bool         `gorm:"column:discharged;not null;default:false" json:"discharged"`
	FollowUpDays        int          `gorm:"column:follow_up_days;not null;default:0" json:"follow_up_days"`
	CreatedBy           string       `gorm:"column:created_by" json:"created_by"`
	CreatedAt           time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient             Patient      `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Professional        Professional `gorm:"foreignKey:ProfessionalID;references:ID" json:"professional"`
}

func (Appointment) TableName() string {
	return "appointment"
}

// Evolution is the clinical-evolution record written when a service completes.
type Evolution struct {
	ID             uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AppointmentID  string    `gorm:"column:appointment_id;not null;index" json:"appointment_id"`
	ProfessionalID string    `gorm:"column:professional_id;not null;index" json:"professional_id"`
	Content        string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Evolution) TableName() string {
	return "evolution"
}

// Referral links a completed appointment to the professional the patient was
// referred to.
type Referral struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AppointmentID      string    `gorm:"column:appointment_id;not null;index" json:"appointment_id"`
	FromProfessionalID string    `gorm:"column:from_professional_id;not null" json:"from_professional_id"`
	ToProfessionalID   string    `gorm:"column:to_professional_id;not null;index" json:"to_professional_id"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Referral) TableName() string {
	return "referral"
}

// AuditLog rows are written fire-and-forget; a failed audit write never
// aborts the operation that produced it.
type AuditLog struct {
	ID            uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Actor         string    `gorm:"column:actor" json:"actor"`
	Action        string    `gorm:"column:action;not null;index" json:"action"`
	AppointmentID *string   `gorm:"column:appointment_id;index" json:"appointment_id"`
	Detail        string    `gorm:"column:detail;type:text" json:"detail"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}
