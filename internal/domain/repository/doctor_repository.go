package repository

import (
	"easycare-booking-api/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorRepository interface {
	// FindBySpeciality does a case-insensitive substring match; an empty
	// filter returns the whole directory.
	FindBySpeciality(db *gorm.DB, speciality string) ([]entity.Doctor, error)
	DeleteAll(db *gorm.DB) error
	CreateBatch(db *gorm.DB, doctors []entity.Doctor) error
}
