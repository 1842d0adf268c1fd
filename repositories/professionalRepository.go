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
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProfessionalCacheExpiry = 7 * 24 * time.Hour
)

type ProfessionalRepository struct {
	cache *cache.Cache
}

func NewProfessionalRepository(cache *cache.Cache) *ProfessionalRepository {
	return &ProfessionalRepository{cache: cache}
}

func (r *ProfessionalRepository) Create(ctx context.Context, professional *models.Professional) error {
	if professional.ID == "" {
		professional.ID = uuid.NewString()
	}
	if err := database.DB.WithContext(ctx).Create(professional).Error; err != nil {
		return err
	}
	return r.invalidate(ctx, professional.ID)
}

// GetByID resolves a professional together with its home unit and specialty.
// Returns (nil, nil) when no such professional exists.
func (r *ProfessionalRepository) GetByID(ctx context.Context, id string) (*models.Professional, error) {
	cacheKey := r.getCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil {
		var professional models.Professional
		if err := json.Unmarshal([]byte(cached), &professional); err == nil {
			return &professional, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("Failed to get professional from cache: %v", err)
	}

	var professional models.Professional
	err := database.DB.WithContext(ctx).
		Preload("Unit").
		Preload("Specialty").
		First(&professional, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if data, err := json.Marshal(professional); err == nil {
		if err := r.cache.Set(ctx, cacheKey, data, ProfessionalCacheExpiry); err != nil {
			log.Printf("Failed to set professional in cache: %v", err)
		}
	}

	return &professional, nil
}

func (r *ProfessionalRepository) GetAll(ctx context.Context, includeInactive bool) ([]models.Professional, error) {
	query := database.DB.WithContext(ctx).
		Preload("Unit").
		Preload("Specialty").
		Order("name ASC")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	var professionals []models.Professional
	if err := query.Find(&professionals).Error; err != nil {
		return nil, err
	}
	return professionals, nil
}

func (r *ProfessionalRepository) Update(ctx context.Context, professional *models.Professional) error {
	res := database.DB.WithContext(ctx).Model(&models.Professional{}).
		Where("id = ?", professional.ID).
		Updates(map[string]interface{}{
			"name":         professional.Name,
			"email":        professional.Email,
			"unit_id":      professional.UnitID,
			"specialty_id": professional.SpecialtyID,
			"active":       professional.Active,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("professional not found")
	}
	return r.invalidate(ctx, professional.ID)
}

// Deactivate flips the active flag off. Deactivated professionals keep their
// history but disappear from default agenda queries.
func (r *ProfessionalRepository) Deactivate(ctx context.Context, id string) error {
	res := database.DB.WithContext(ctx).Model(&models.Professional{}).
		Where("id = ?", id).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("professional not found")
	}
	return r.invalidate(ctx, id)
}

func (r *ProfessionalRepository) invalidate(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.getCacheKey(id)); err != nil {
		log.Printf("Failed to delete professional cache: %v", err)
	}
	return nil
}

func (r *ProfessionalRepository) getCacheKey(id string) string {
	return "professional_cache:" + id
}
