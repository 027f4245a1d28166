package dto

import "github.com/google/uuid"

type DoctorResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Speciality   string    `json:"speciality"`
	Image        string    `json:"image,omitempty"`
	Availability []string  `json:"availability"`
}
