package handler

import (
	"encoding/json"
	"net/http"

	"easycare-booking-api/internal/delivery/dto"
	"easycare-booking-api/internal/usecase"
	"easycare-booking-api/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase) *AppointmentHandler {
	return &AppointmentHandler{appointmentUsecase: appointmentUsecase}
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.List(r.Context())
	if err != nil {
		response.InternalServerError(w, "Error fetching appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appuntamenti recuperati", appointments)
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentFieldsRequired:
			response.BadRequest(w, "Titolo, data e ora sono obbligatori")
		case usecase.ErrInvalidDateTime:
			response.BadRequest(w, "Formato data o ora non valido")
		case usecase.ErrPastDate:
			response.BadRequest(w, "Non puoi prenotare nel passato")
		case usecase.ErrSlotTaken:
			response.BadRequest(w, "Slot già occupato!")
		case usecase.ErrInvalidStatus:
			response.BadRequest(w, "Stato non valido")
		default:
			response.InternalServerError(w, "Errore creazione appuntamento")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appuntamento creato", appointment)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Get(r.Context(), id)
	if err != nil {
		if err == usecase.ErrAppointmentNotFound {
			response.NotFound(w, "Appointment not found")
			return
		}
		response.InternalServerError(w, "Server error")
		return
	}

	response.Success(w, http.StatusOK, "Appuntamento recuperato", appointment)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	appointment, err := h.appointmentUsecase.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentFieldsRequired:
			response.BadRequest(w, "Titolo, data e ora sono obbligatori")
		case usecase.ErrInvalidDateTime:
			response.BadRequest(w, "Formato data o ora non valido")
		case usecase.ErrInvalidStatus:
			response.BadRequest(w, "Stato non valido")
		case usecase.ErrSlotTaken:
			response.BadRequest(w, "Slot già occupato!")
		default:
			response.InternalServerError(w, "Server error")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appuntamento aggiornato", appointment)
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	if err := h.appointmentUsecase.Delete(r.Context(), id); err != nil {
		if err == usecase.ErrAppointmentNotFound {
			response.NotFound(w, "Appointment not found")
			return
		}
		response.InternalServerError(w, "Server error")
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}

func appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return uuid.Nil, false
	}
	return id, true
}
