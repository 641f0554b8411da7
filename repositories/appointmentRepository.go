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
	AppointmentCacheExpiry = 24 * time.Hour
)

type AppointmentRepository struct {
	cache *cache.Cache
}

func NewAppointmentRepository(cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{cache: cache}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	release, err := database.AcquireLock(ctx, fmt.Sprintf("appointment_lock:%s", appointment.PatientID))
	if err != nil {
		return err
	}
	defer release()

	// Check if the doctor exists
	var doctor models.Doctor
	if err := database.DB.First(&doctor, "id = ?", appointment.DoctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("doctor not found")
		}
		return fmt.Errorf("failed to find doctor: %w", err)
	}

	if err := database.DB.Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return r.invalidate(ctx, appointment.PatientID, appointment.ID)
}

func (r *AppointmentRepository) GetByID(ctx context.Context, patientID string, id uint) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getAppointmentCacheKey(patientID, id)
	var cached models.Appointment
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("Failed to get appointment from cache: %v", err)
	}

	var appointment models.Appointment
	err := database.DB.
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		First(&appointment, "patient_id = ? AND id = ?", patientID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, appointment, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to set appointment in cache: %v", err)
	}

	return &appointment, nil
}

func (r *AppointmentRepository) GetAllByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointments []models.Appointment
	err := database.DB.
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		Where("patient_id = ?", patientID).
		Order("date_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments: %w", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	release, err := database.AcquireLock(ctx, fmt.Sprintf("appointment_lock:%s", appointment.PatientID))
	if err != nil {
		return err
	}
	defer release()

	if err := database.DB.Save(appointment).Error; err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return r.invalidate(ctx, appointment.PatientID, appointment.ID)
}

func (r *AppointmentRepository) Delete(ctx context.Context, patientID string, id uint) error {
	release, err := database.AcquireLock(ctx, fmt.Sprintf("appointment_lock:%s", patientID))
	if err != nil {
		return err
	}
	defer release()

	if err := database.DB.Delete(&models.Appointment{}, "patient_id = ? AND id = ?", patientID, id).Error; err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return r.invalidate(ctx, patientID, id)
}

func (r *AppointmentRepository) invalidate(ctx context.Context, patientID string, id uint) error {
	if err := r.cache.Delete(ctx, r.getAppointmentCacheKey(patientID, id)); err != nil {
		return fmt.Errorf("failed to delete appointment cache: %w", err)
	}
	return r.cache.Delete(ctx, fmt.Sprintf("patient_cache:%s", patientID))
}

func (r *AppointmentRepository) getAppointmentCacheKey(patientID string, id uint) string {
	return fmt.Sprintf("appointment_cache:%s:%d", patientID, id)
}
