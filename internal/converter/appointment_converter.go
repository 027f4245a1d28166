package converter

import (
	"easycare-booking-api/internal/delivery/dto"
	"easycare-booking-api/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to its response DTO.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:          appointment.ID,
		UserID:      appointment.UserID,
		Title:       appointment.Title,
		Description: appointment.Description,
		Date:        appointment.Date,
		Time:        appointment.Time,
		Status:      string(appointment.Status),
		CreatedAt:   appointment.CreatedAt,
		UpdatedAt:   appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities.
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
