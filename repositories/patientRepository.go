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
	PatientCacheExpiry = 7 * 24 * time.Hour
)

type PatientRepository struct {
	cache *cache.Cache
}

func NewPatientRepository(cache *cache.Cache) *PatientRepository {
	return &PatientRepository{cache: cache}
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	release, err := database.AcquireLock(ctx, fmt.Sprintf("patient_lock:%s", patient.ID))
	if err != nil {
		return err
	}
	defer release()

	if err := database.DB.Create(patient).Error; err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return r.invalidate(ctx, patient.ID)
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getPatientCacheKey(id)
	var cached models.Patient
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("Failed to get patient from cache: %v", err)
	}

	var patient models.Patient
	err := database.DB.First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, patient, PatientCacheExpiry); err != nil {
		log.Printf("Failed to set patient in cache: %v", err)
	}

	return &patient, nil
}

func (r *PatientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "patients_cache"
	var cached []models.Patient
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("Failed to get patients from cache: %v", err)
	}

	var patients []models.Patient
	err := database.DB.Order("last_name ASC, first_name ASC").Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all patients: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, patients, PatientCacheExpiry); err != nil {
		log.Printf("Failed to set patients in cache: %v", err)
	}

	return patients, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	release, err := database.AcquireLock(ctx, fmt.Sprintf("patient_lock:%s", patient.ID))
	if err != nil {
		return err
	}
	defer release()

	if err := database.DB.Save(patient).Error; err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return r.invalidate(ctx, patient.ID)
}

// Delete removes the patient and all dependent records.
func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	release, err := database.AcquireLock(ctx, fmt.Sprintf("patient_lock:%s", id))
	if err != nil {
		return err
	}
	defer release()

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Appointment{}, "patient_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.TreatmentPlan{}, "patient_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id IN (?)", tx.Model(&models.Invoice{}).Select("id").Where("patient_id = ?", id)).
			Delete(&models.PaymentTransaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id IN (?)", tx.Model(&models.Invoice{}).Select("id").Where("patient_id = ?", id)).
			Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Invoice{}, "patient_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Patient{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	if err := r.cache.DeleteAll(ctx, "invoice_cache:*"); err != nil {
		return fmt.Errorf("failed to delete invoice caches: %w", err)
	}
	if err := r.cache.Delete(ctx, "invoices_cache"); err != nil {
		return fmt.Errorf("failed to delete invoices cache: %w", err)
	}
	return r.invalidate(ctx, id)
}

func (r *PatientRepository) invalidate(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.getPatientCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete patient cache: %w", err)
	}
	return r.cache.Delete(ctx, "patients_cache")
}

func (r *PatientRepository) getPatientCacheKey(id string) string {
	return fmt.Sprintf("patient_cache:%s", id)
}
