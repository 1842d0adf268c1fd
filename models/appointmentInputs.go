package models

import "time"

// Inputs for the appointment lifecycle operations. Handlers bind these from
// JSON and validate them before calling the service layer.

type CreateAppointmentInput struct {
	PatientID      string    `json:"patient_id"`
	ProfessionalID string    `json:"professional_id"`
	DateTime       time.Time `json:"appointment_datetime"`
	Observation    *string   `json:"observation"`
	Vinculo        string    `json:"vinculo"`
	CreatedBy      string    `json:"-"`
}

type WaitingListInput struct {
	PatientID      string    `json:"patient_id"`
	ProfessionalID string    `json:"professional_id"`
	RequestDate    time.Time `json:"request_date"`
	Observation    *string   `json:"observation"`
	Vinculo        string    `json:"vinculo"`
	CreatedBy      string    `json:"-"`
}

type OnDemandInput struct {
	PatientID      string  `json:"patient_id"`
	ProfessionalID string  `json:"professional_id"`
	Observation    *string `json:"observation"`
	Vinculo        string  `json:"vinculo"`
	CreatedBy      string  `json:"-"`
}

type CompleteServiceInput struct {
	Evolution               string   `json:"evolution"`
	ReferralProfessionalIDs []string `json:"referral_professional_ids"`
	Discharged              bool     `json:"discharged"`
	FollowUpDays            int      `json:"follow_up_days"`
}

type RecurringSeriesInput struct {
	AppointmentID    string `json:"appointment_id"`
	DurationInMonths int    `json:"duration_in_months"`
	CreatedBy        string `json:"-"`
}
