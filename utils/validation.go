package utils

import (
	"GestaoClinica/models"
	"log"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateCreateAppointment validates a scheduled-appointment payload.
func ValidateCreateAppointment(input models.CreateAppointmentInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.PatientID, validation.Required),
		validation.Field(&input.ProfessionalID, validation.Required),
		validation.Field(&input.DateTime, validation.Required),
		validation.Field(&input.Vinculo, validation.In(toInterfaces(models.AllVinculos)...)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateWaitingList validates a waiting-list intake payload.
func ValidateWaitingList(input models.WaitingListInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.PatientID, validation.Required),
		validation.Field(&input.ProfessionalID, validation.Required),
		validation.Field(&input.RequestDate, validation.Required),
		validation.Field(&input.Vinculo, validation.In(toInterfaces(models.AllVinculos)...)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateOnDemand validates a walk-in intake payload.
func ValidateOnDemand(input models.OnDemandInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.PatientID, validation.Required),
		validation.Field(&input.ProfessionalID, validation.Required),
		validation.Field(&input.Vinculo, validation.In(toInterfaces(models.AllVinculos)...)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateCompleteService validates a service-completion payload.
func ValidateCompleteService(input models.CompleteServiceInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Evolution, validation.Required.Error("evolution text cannot be blank")),
		validation.Field(&input.FollowUpDays, validation.Min(0)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateRecurringSeries validates a recurring-series request.
func ValidateRecurringSeries(input models.RecurringSeriesInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.AppointmentID, validation.Required),
		validation.Field(&input.DurationInMonths, validation.Required, validation.Min(1), validation.Max(24)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, 0, len(values)+1)
	out = append(out, "") // empty means "use the default"
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
