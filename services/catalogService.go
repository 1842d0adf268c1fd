package services

import (
	"GestaoClinica/models"
	"GestaoClinica/repositories"
	"context"
)

type CatalogService struct {
	repository *repositories.CatalogRepository
}

func NewCatalogService(repository *repositories.CatalogRepository) *CatalogService {
	return &CatalogService{repository: repository}
}

func (s *CatalogService) CreateUnit(ctx context.Context, unit *models.Unit) error {
	return s.repository.CreateUnit(ctx, unit)
}

func (s *CatalogService) GetUnitByID(ctx context.Context, id string) (*models.Unit, error) {
	return s.repository.GetUnitByID(ctx, id)
}

func (s *CatalogService) GetAllUnits(ctx context.Context) ([]models.Unit, error) {
	return s.repository.GetAllUnits(ctx)
}

func (s *CatalogService) CreateSpecialty(ctx context.Context, specialty *models.Specialty) error {
	return s.repository.CreateSpecialty(ctx, specialty)
}

func (s *CatalogService) GetSpecialtyByID(ctx context.Context, id string) (*models.Specialty, error) {
	return s.repository.GetSpecialtyByID(ctx, id)
}

func (s *CatalogService) GetAllSpecialties(ctx context.Context) ([]models.Specialty, error) {
	return s.repository.GetAllSpecialties(ctx)
}
