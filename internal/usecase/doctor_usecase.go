package usecase

import (
	"context"

	"easycare-booking-api/internal/converter"
	"easycare-booking-api/internal/delivery/dto"
	"easycare-booking-api/internal/domain/entity"
	"easycare-booking-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DoctorUsecase interface {
	// List filters the directory by a case-insensitive speciality substring;
	// an empty filter returns everything. An empty directory is not an error.
	List(ctx context.Context, speciality string) ([]dto.DoctorResponse, error)
	// Seed replaces the whole directory with the given dataset. It is an
	// administrative operation, never reachable through the HTTP surface.
	Seed(ctx context.Context, doctors []entity.Doctor) error
}

type doctorUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	doctorRepo repository.DoctorRepository
}

func NewDoctorUsecase(db *gorm.DB, log *logrus.Logger, doctorRepo repository.DoctorRepository) DoctorUsecase {
	return &doctorUsecase{
		db:         db,
		log:        log,
		doctorRepo: doctorRepo,
	}
}

func (u *doctorUsecase) List(ctx context.Context, speciality string) ([]dto.DoctorResponse, error) {
	doctors, err := u.doctorRepo.FindBySpeciality(u.db.WithContext(ctx), speciality)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}
	return converter.DoctorsToResponses(doctors), nil
}

func (u *doctorUsecase) Seed(ctx context.Context, doctors []entity.Doctor) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.doctorRepo.DeleteAll(tx); err != nil {
		u.log.Warnf("Failed to clear doctor directory: %+v", err)
		return err
	}
	if err := u.doctorRepo.CreateBatch(tx, doctors); err != nil {
		u.log.Warnf("Failed to insert doctor dataset: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Doctor directory seeded with %d entries", len(doctors))
	return nil
}
