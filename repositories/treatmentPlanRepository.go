package repositories

import (
	"PearlDental/cache"
	"PearlDental/database"
	"PearlDental/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

const (
	TreatmentPlanCacheExpiry = 7 * 24 * time.Hour
)

type TreatmentPlanRepository struct {
	cache *cache.Cache
}

func NewTreatmentPlanRepository(cache *cache.Cache) *TreatmentPlanRepository {
	return &TreatmentPlanRepository{cache: cache}
}

func (r *TreatmentPlanRepository) Create(ctx context.Context, plan *models.TreatmentPlan) error {
	release, err := database.AcquireLock(ctx, fmt.Sprintf("treatment_plan_lock:%s", plan.PatientID))
	if err != nil {
		return err
	}
	defer release()

	if err := database.DB.Create(plan).Error; err != nil {
		return fmt.Errorf("failed to create treatment plan: %w", err)
	}
	return r.invalidate(ctx, plan.PatientID, plan.ID)
}

func (r *TreatmentPlanRepository) GetByID(ctx context.Context, patientID string, id uint) (*models.TreatmentPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getTreatmentPlanCacheKey(patientID, id)
	var cached models.TreatmentPlan
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("Failed to get treatment plan from cache: %v", err)
	}

	var plan models.TreatmentPlan
	err := database.DB.
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		First(&plan, "patient_id = ? AND id = ?", patientID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get treatment plan: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, plan, TreatmentPlanCacheExpiry); err != nil {
		log.Printf("Failed to set treatment plan in cache: %v", err)
	}

	return &plan, nil
}

func (r *TreatmentPlanRepository) GetAllByPatient(ctx context.Context, patientID string) ([]models.TreatmentPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var plans []models.TreatmentPlan
	err := database.DB.
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get treatment plans: %w", err)
	}
	return plans, nil
}

func (r *TreatmentPlanRepository) Update(ctx context.Context, plan *models.TreatmentPlan) error {
	release, err := database.AcquireLock(ctx, fmt.Sprintf("treatment_plan_lock:%s", plan.PatientID))
	if err != nil {
		return err
	}
	defer release()

	if err := database.DB.Save(plan).Error; err != nil {
		return fmt.Errorf("failed to update treatment plan: %w", err)
	}
	return r.invalidate(ctx, plan.PatientID, plan.ID)
}

func (r *TreatmentPlanRepository) Delete(ctx context.Context, patientID string, id uint) error {
	release, err := database.AcquireLock(ctx, fmt.Sprintf("treatment_plan_lock:%s", patientID))
	if err != nil {
		return err
	}
	defer release()

	if err := database.DB.Delete(&models.TreatmentPlan{}, "patient_id = ? AND id = ?", patientID, id).Error; err != nil {
		return fmt.Errorf("failed to delete treatment plan: %w", err)
	}
	return r.invalidate(ctx, patientID, id)
}

func (r *TreatmentPlanRepository) invalidate(ctx context.Context, patientID string, id uint) error {
	if err := r.cache.Delete(ctx, r.getTreatmentPlanCacheKey(patientID, id)); err != nil {
		return fmt.Errorf("failed to delete treatment plan cache: %w", err)
	}
	return r.cache.Delete(ctx, fmt.Sprintf("patient_cache:%s", patientID))
}

func (r *TreatmentPlanRepository) getTreatmentPlanCacheKey(patientID string, id uint) string {
	return fmt.Sprintf("treatment_plan_cache:%s:%d", patientID, id)
}
