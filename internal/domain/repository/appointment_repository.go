package repository

import (
	"time"

	"easycare-booking-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	// FindByIDAndUser returns nil, nil when no appointment with that id is
	// owned by userID. Misses and other users' records are indistinguishable.
	FindByIDAndUser(db *gorm.DB, id, userID uuid.UUID) (*entity.Appointment, error)
	FindByUser(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error)
	// FindActiveSlot looks up any non-cancelled appointment, regardless of
	// owner, at the exact instant.
	FindActiveSlot(db *gorm.DB, date time.Time) (*entity.Appointment, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
	// DeleteByIDAndUser returns the number of rows removed (0 = not owned or
	// already gone).
	DeleteByIDAndUser(db *gorm.DB, id, userID uuid.UUID) (int64, error)
}
