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
	PatientCacheExpiry = 7 * 24 * time.Hour
)

type PatientRepository struct {
	cache *cache.Cache
}

func NewPatientRepository(cache *cache.Cache) *PatientRepository {
	return &PatientRepository{cache: cache}
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if patient.ID == "" {
		patient.ID = uuid.NewString()
	}
	if err := database.DB.WithContext(ctx).Create(patient).Error; err != nil {
		return err
	}
	return r.invalidate(ctx, patient.ID)
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	cacheKey := r.getCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil {
		var patient models.Patient
		if err := json.Unmarshal([]byte(cached), &patient); err == nil {
			return &patient, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("Failed to get patient from cache: %v", err)
	}

	var patient models.Patient
	err := database.DB.WithContext(ctx).First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if data, err := json.Marshal(patient); err == nil {
		if err := r.cache.Set(ctx, cacheKey, data, PatientCacheExpiry); err != nil {
			log.Printf("Failed to set patient in cache: %v", err)
		}
	}

	return &patient, nil
}

func (r *PatientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	err := database.DB.WithContext(ctx).Order("name ASC").Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	res := database.DB.WithContext(ctx).Model(&models.Patient{}).
		Where("id = ?", patient.ID).
		Updates(map[string]interface{}{
			"name":          patient.Name,
			"date_of_birth": patient.DateOfBirth,
			"phone":         patient.Phone,
			"email":         patient.Email,
			"address":       patient.Address,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("patient not found")
	}
	return r.invalidate(ctx, patient.ID)
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	res := database.DB.WithContext(ctx).Delete(&models.Patient{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("patient not found")
	}
	return r.invalidate(ctx, id)
}

func (r *PatientRepository) invalidate(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.getCacheKey(id)); err != nil {
		log.Printf("Failed to delete patient cache: %v", err)
	}
	return nil
}

func (r *PatientRepository) getCacheKey(id string) string {
	return "patient_cache:" + id
}
