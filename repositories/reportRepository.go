package repositories

import (
	"GestaoClinica/database"
	"GestaoClinica/models"
	"context"
	"time"
)

// ProfessionalCount is one row of the per-professional completed report.
type ProfessionalCount struct {
	ProfessionalID   string `json:"professional_id"`
	ProfessionalName string `json:"professional_name"`
	Total            int64  `json:"total"`
}

// VinculoCount is one row of the per-vinculo completed report.
type VinculoCount struct {
	Vinculo string `json:"vinculo"`
	Total   int64  `json:"total"`
}

// ReportRepository aggregates completed appointments. Read-only; it holds no
// state of its own.
type ReportRepository struct{}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{}
}

func (r *ReportRepository) CompletedByProfessional(ctx context.Context, unitID string, start, end time.Time) ([]ProfessionalCount, error) {
	query := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Select("appointment.professional_id AS professional_id, professional.name AS professional_name, COUNT(*) AS total").
		Joins("JOIN professional ON professional.id = appointment.professional_id").
		Where("appointment.status = ?", models.StatusCompleted).
		Where("appointment.appointment_datetime >= ? AND appointment.appointment_datetime < ?", start, end.AddDate(0, 0, 1)).
		Group("appointment.professional_id, professional.name").
		Order("total DESC")
	if unitID != "" {
		query = query.Where("appointment.unit_id = ?", unitID)
	}

	var rows []ProfessionalCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) CompletedByVinculo(ctx context.Context, unitID string, start, end time.Time) ([]VinculoCount, error) {
	query := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Select("appointment.vinculo AS vinculo, COUNT(*) AS total").
		Where("appointment.status = ?", models.StatusCompleted).
		Where("appointment.appointment_datetime >= ? AND appointment.appointment_datetime < ?", start, end.AddDate(0, 0, 1)).
		Group("appointment.vinculo").
		Order("total DESC")
	if unitID != "" {
		query = query.Where("appointment.unit_id = ?", unitID)
	}

	var rows []VinculoCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
