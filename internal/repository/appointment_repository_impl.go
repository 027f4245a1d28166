package repository

import (
	"errors"
	"time"

	"easycare-booking-api/internal/domain/entity"
	domainRepo "easycare-booking-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByIDAndUser(db *gorm.DB, id, userID uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByUser(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("user_id = ?", userID).
		Order("date ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindActiveSlot(db *gorm.DB, date time.Time) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("date = ? AND status != ?", date, entity.AppointmentStatusCancelled).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Save(appointment).Error
}

func (r *appointmentRepository) DeleteByIDAndUser(db *gorm.DB, id, userID uuid.UUID) (int64, error) {
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}
