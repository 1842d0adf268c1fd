package repositories

import (
	"GestaoClinica/database"
	"GestaoClinica/models"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository handles the small fixed registries: units and
// specialties. These change rarely and are read by the scheduling core only
// to resolve labels.
type CatalogRepository struct{}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

func (r *CatalogRepository) CreateUnit(ctx context.Context, unit *models.Unit) error {
	if unit.ID == "" {
		unit.ID = uuid.NewString()
	}
	return database.DB.WithContext(ctx).Create(unit).Error
}

func (r *CatalogRepository) GetUnitByID(ctx context.Context, id string) (*models.Unit, error) {
	var unit models.Unit
	err := database.DB.WithContext(ctx).First(&unit, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &unit, nil
}

func (r *CatalogRepository) GetAllUnits(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	err := database.DB.WithContext(ctx).Order("name ASC").Find(&units).Error
	if err != nil {
		return nil, err
	}
	return units, nil
}

func (r *CatalogRepository) CreateSpecialty(ctx context.Context, specialty *models.Specialty) error {
	if specialty.ID == "" {
		specialty.ID = uuid.NewString()
	}
	return database.DB.WithContext(ctx).Create(specialty).Error
}

func (r *CatalogRepository) GetSpecialtyByID(ctx context.Context, id string) (*models.Specialty, error) {
	var specialty models.Specialty
	err := database.DB.WithContext(ctx).First(&specialty, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &specialty, nil
}

func (r *CatalogRepository) GetAllSpecialties(ctx context.Context) ([]models.Specialty, error) {
	var specialties []models.Specialty
	err := database.DB.WithContext(ctx).Order("name ASC").Find(&specialties).Error
	if err != nil {
		return nil, err
	}
	return specialties, nil
}
