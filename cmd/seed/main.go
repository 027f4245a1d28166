// Command seed replaces the doctor directory with the fixed dataset. It is
// an administrative batch operation, not part of the runtime request path.
package main

import (
	"context"

	"easycare-booking-api/config"
	"easycare-booking-api/internal/domain/entity"
	"easycare-booking-api/internal/infrastructure/database"
	"easycare-booking-api/internal/repository"
	"easycare-booking-api/internal/usecase"

	"github.com/sirupsen/logrus"
)

var seedDoctors = []entity.Doctor{
	{
		Name:         "Dr. Maria Rossi",
		Speciality:   "Ecografia",
		Image:        "/assets/dott.sa.jpg",
		Availability: []string{"10 Giugno", "12 Giugno", "14 Giugno"},
	},
	{
		Name:         "Dr. Marco Bianchi",
		Speciality:   "Radiologia",
		Image:        "https://via.placeholder.com/300x200?text=Dr+Bianchi",
		Availability: []string{"11 Giugno", "13 Giugno", "15 Giugno"},
	},
	{
		Name:         "Dr. Lucia Verdi",
		Speciality:   "Cardiologia",
		Image:        "https://via.placeholder.com/300x200?text=Dr+Verdi",
		Availability: []string{"10 Giugno", "17 Giugno"},
	},
	{
		Name:         "Dr. Giulia Neri",
		Speciality:   "Ginecologia",
		Image:        "https://via.placeholder.com/300x200?text=Dr+Neri",
		Availability: []string{"17 Giugno", "18 Giugno"},
	},
	{
		Name:         "Dr. Paolo Ricci",
		Speciality:   "Cardiologia",
		Image:        "https://via.placeholder.com/300x200?text=Dr+Ricci",
		Availability: []string{"19 Giugno", "21 Giugno"},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	doctorUsecase := usecase.NewDoctorUsecase(db, logrus.StandardLogger(), repository.NewDoctorRepository())

	if err := doctorUsecase.Seed(context.Background(), seedDoctors); err != nil {
		logrus.Fatalf("Failed to seed doctors: %v", err)
	}

	logrus.Info("Doctor directory seeded successfully")
}
