package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"easycare-booking-api/internal/delivery/dto"
	"easycare-booking-api/internal/usecase"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAppointmentUsecase struct {
	list   func(ctx context.Context) ([]dto.AppointmentResponse, error)
	create func(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	get    func(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	update func(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	delete func(ctx context.Context, id uuid.UUID) error
}

func (s *stubAppointmentUsecase) List(ctx context.Context) ([]dto.AppointmentResponse, error) {
	return s.list(ctx)
}

func (s *stubAppointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return s.create(ctx, req)
}

func (s *stubAppointmentUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return s.get(ctx, id)
}

func (s *stubAppointmentUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return s.update(ctx, id, req)
}

func (s *stubAppointmentUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}

// appointmentRouter registers the handler behind the same paths as the real
// router so mux populates the id variable.
func appointmentRouter(stub *stubAppointmentUsecase) *mux.Router {
	h := NewAppointmentHandler(stub)
	r := mux.NewRouter()
	r.HandleFunc("/appointments", h.List).Methods(http.MethodGet)
	r.HandleFunc("/appointments", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/appointments/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/appointments/{id}", h.Delete).Methods(http.MethodDelete)
	return r
}

func TestCreateAppointmentSuccess(t *testing.T) {
	created := dto.AppointmentResponse{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Title:  "Ecografia",
		Date:   time.Date(2030, time.January, 10, 10, 30, 0, 0, time.UTC),
		Time:   "10:30",
		Status: "scheduled",
	}
	stub := &stubAppointmentUsecase{
		create: func(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
			assert.Equal(t, "2030-01-10", req.Date)
			assert.Equal(t, "10:30", req.Time)
			return &created, nil
		},
	}

	req := jsonRequest(t, http.MethodPost, "/appointments", dto.CreateAppointmentRequest{
		Title: "Ecografia", Date: "2030-01-10", Time: "10:30",
	})
	rec := httptest.NewRecorder()
	appointmentRouter(stub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Appuntamento creato", env.Message)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, created.ID.String(), data["id"])
}

func TestCreateAppointmentErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		usecaseErr  error
		wantStatus  int
		wantMessage string
	}{
		{"missing fields", usecase.ErrAppointmentFieldsRequired, http.StatusBadRequest, "Titolo, data e ora sono obbligatori"},
		{"bad datetime", usecase.ErrInvalidDateTime, http.StatusBadRequest, "Formato data o ora non valido"},
		{"past date", usecase.ErrPastDate, http.StatusBadRequest, "Non puoi prenotare nel passato"},
		{"slot taken", usecase.ErrSlotTaken, http.StatusBadRequest, "Slot già occupato!"},
		{"bad status", usecase.ErrInvalidStatus, http.StatusBadRequest, "Stato non valido"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubAppointmentUsecase{
				create: func(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
					return nil, tc.usecaseErr
				},
			}

			req := jsonRequest(t, http.MethodPost, "/appointments", dto.CreateAppointmentRequest{
				Title: "Ecografia", Date: "2030-01-10", Time: "10:30",
			})
			rec := httptest.NewRecorder()
			appointmentRouter(stub).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tc.wantMessage, env.Message)
		})
	}
}

func TestListAppointments(t *testing.T) {
	stub := &stubAppointmentUsecase{
		list: func(ctx context.Context) ([]dto.AppointmentResponse, error) {
			return []dto.AppointmentResponse{
				{ID: uuid.New(), Title: "Ecografia", Time: "10:30", Status: "scheduled"},
				{ID: uuid.New(), Title: "Cardiologia", Time: "11:00", Status: "scheduled"},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	rec := httptest.NewRecorder()
	appointmentRouter(stub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	items, ok := env.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestGetAppointmentNotFound(t *testing.T) {
	stub := &stubAppointmentUsecase{
		get: func(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
			return nil, usecase.ErrAppointmentNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/appointments/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	appointmentRouter(stub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Appointment not found", env.Message)
}

func TestGetAppointmentInvalidID(t *testing.T) {
	stub := &stubAppointmentUsecase{}

	req := httptest.NewRequest(http.MethodGet, "/appointments/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	appointmentRouter(stub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Invalid appointment ID", env.Message)
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	stub := &stubAppointmentUsecase{
		update: func(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
			return nil, usecase.ErrAppointmentNotFound
		},
	}

	req := jsonRequest(t, http.MethodPut, "/appointments/"+uuid.New().String(), dto.UpdateAppointmentRequest{
		Title: "Ecografia", Date: "2030-01-10", Time: "10:30",
	})
	rec := httptest.NewRecorder()
	appointmentRouter(stub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Appointment not found", env.Message)
}

func TestDeleteAppointment(t *testing.T) {
	deleted := uuid.New()
	stub := &stubAppointmentUsecase{
		delete: func(ctx context.Context, id uuid.UUID) error {
			assert.Equal(t, deleted, id)
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/appointments/"+deleted.String(), nil)
	rec := httptest.NewRecorder()
	appointmentRouter(stub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Appointment deleted successfully", env.Message)
}

func TestDeleteAppointmentTwice(t *testing.T) {
	stub := &stubAppointmentUsecase{
		delete: func(ctx context.Context, id uuid.UUID) error {
			return usecase.ErrAppointmentNotFound
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/appointments/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	appointmentRouter(stub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
