package handler

import (
	"net/http"

	"easycare-booking-api/internal/usecase"
	"easycare-booking-api/pkg/response"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase) *DoctorHandler {
	return &DoctorHandler{doctorUsecase: doctorUsecase}
}

// List serves the public directory, optionally filtered by speciality.
// An empty result set is a valid 200 with an empty array.
func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	speciality := r.URL.Query().Get("speciality")

	doctors, err := h.doctorUsecase.List(r.Context(), speciality)
	if err != nil {
		response.InternalServerError(w, "Errore del server durante il recupero dei medici")
		return
	}

	response.Success(w, http.StatusOK, "Medici recuperati", doctors)
}
