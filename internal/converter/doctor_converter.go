package converter

import (
	"easycare-booking-api/internal/delivery/dto"
	"easycare-booking-api/internal/domain/entity"
)

// DoctorsToResponses converts directory entries to response DTOs.
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		responses[i] = dto.DoctorResponse{
			ID:           doctor.ID,
			Name:         doctor.Name,
			Speciality:   doctor.Speciality,
			Image:        doctor.Image,
			Availability: doctor.Availability,
		}
	}
	return responses
}
