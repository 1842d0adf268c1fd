package services

import (
	"GestaoClinica/repositories"
	"context"
	"time"
)

// UnitReport bundles the per-unit reporting aggregates.
type UnitReport struct {
	ByProfessional []repositories.ProfessionalCount `json:"by_professional"`
	ByVinculo      []repositories.VinculoCount      `json:"by_vinculo"`
}

type ReportService struct {
	reports *repositories.ReportRepository
}

func NewReportService(reports *repositories.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

// Generate aggregates completed appointments by professional and by vinculo
// for the unit and period.
func (s *ReportService) Generate(ctx context.Context, unitID string, start, end time.Time) (*UnitReport, error) {
	byProfessional, err := s.reports.CompletedByProfessional(ctx, unitID, start, end)
	if err != nil {
		return nil, err
	}
	byVinculo, err := s.reports.CompletedByVinculo(ctx, unitID, start, end)
	if err != nil {
		return nil, err
	}
	return &UnitReport{ByProfessional: byProfessional, ByVinculo: byVinculo}, nil
}
