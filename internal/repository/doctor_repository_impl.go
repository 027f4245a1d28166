package repository

import (
	"easycare-booking-api/internal/domain/entity"
	domainRepo "easycare-booking-api/internal/domain/repository"

	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) FindBySpeciality(db *gorm.DB, speciality string) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	query := db.Order("name ASC")
	if speciality != "" {
		query = query.Where("speciality ILIKE ?", "%"+speciality+"%")
	}
	if err := query.Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) DeleteAll(db *gorm.DB) error {
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.Doctor{}).Error
}

func (r *doctorRepository) CreateBatch(db *gorm.DB, doctors []entity.Doctor) error {
	return db.Create(&doctors).Error
}
