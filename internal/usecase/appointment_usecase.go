package usecase

import (
	"context"
	"errors"
	"time"

	"easycare-booking-api/internal/converter"
	"easycare-booking-api/internal/delivery/dto"
	"easycare-booking-api/internal/delivery/http/middleware"
	"easycare-booking-api/internal/domain/entity"
	"easycare-booking-api/internal/domain/repository"
	"easycare-booking-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentFieldsRequired = errors.New("title, date and time are required")
	ErrInvalidDateTime           = errors.New("invalid date or time format")
	ErrPastDate                  = errors.New("cannot book in the past")
	ErrSlotTaken                 = errors.New("slot already taken")
	ErrInvalidStatus             = errors.New("unknown appointment status")
	ErrAppointmentNotFound       = errors.New("appointment not found")
)

type AppointmentUsecase interface {
	List(ctx context.Context) ([]dto.AppointmentResponse, error)
	Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	cache           *service.AppointmentCache
	mailer          *service.Mailer
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	cache *service.AppointmentCache,
	mailer *service.Mailer,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		cache:           cache,
		mailer:          mailer,
	}
}

// List returns the caller's appointments sorted by date ascending, served
// from the read-through cache when a fresh entry exists.
func (u *appointmentUsecase) List(ctx context.Context) ([]dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	if cached, hit := u.cache.Get(ctx, userID); hit {
		return cached, nil
	}

	appointments, err := u.appointmentRepo.FindByUser(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to list appointments for %s: %+v", userID, err)
		return nil, err
	}

	responses := converter.AppointmentsToResponses(appointments)
	u.cache.Set(ctx, userID, responses)
	return responses, nil
}

// Create books a slot. The slot is exclusive across ALL users: any
// non-cancelled appointment at the exact instant blocks the booking. The
// pre-check catches the common case; the partial unique index on the
// appointments table catches two concurrent creates racing past it.
func (u *appointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	if req.Title == "" || req.Date == "" || req.Time == "" {
		return nil, ErrAppointmentFieldsRequired
	}

	instant, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return nil, ErrInvalidDateTime
	}
	if instant.Before(time.Now()) {
		return nil, ErrPastDate
	}

	status := entity.AppointmentStatus(req.Status)
	if req.Status == "" {
		status = entity.AppointmentStatusScheduled
	} else if !entity.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	db := u.db.WithContext(ctx)

	taken, err := u.appointmentRepo.FindActiveSlot(db, instant)
	if err != nil {
		u.log.Warnf("Failed to check slot availability: %+v", err)
		return nil, err
	}
	if taken != nil {
		return nil, ErrSlotTaken
	}

	appointment := &entity.Appointment{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Date:        instant,
		Time:        req.Time,
		Status:      status,
	}

	if err := u.appointmentRepo.Create(db, appointment); err != nil {
		if isUniqueViolation(err, "active_slot") {
			// A concurrent create won the slot
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx, userID)

	u.sendConfirmation(ctx, userID, appointment)

	u.log.Infof("Appointment created: id=%s, date=%s %s", appointment.ID, req.Date, req.Time)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	appointment, err := u.appointmentRepo.FindByIDAndUser(u.db.WithContext(ctx), id, userID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

// Update replaces the whole document with the same schema rules as create.
// The slot invariant is NOT re-checked here: an update can move an
// appointment onto an occupied instant.
func (u *appointmentUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	if req.Title == "" || req.Date == "" || req.Time == "" {
		return nil, ErrAppointmentFieldsRequired
	}
	instant, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return nil, ErrInvalidDateTime
	}

	status := entity.AppointmentStatus(req.Status)
	if req.Status == "" {
		status = entity.AppointmentStatusScheduled
	} else if !entity.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	db := u.db.WithContext(ctx)

	appointment, err := u.appointmentRepo.FindByIDAndUser(db, id, userID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	appointment.Title = req.Title
	appointment.Description = req.Description
	appointment.Date = instant
	appointment.Time = req.Time
	appointment.Status = status

	if err := u.appointmentRepo.Update(db, appointment); err != nil {
		if isUniqueViolation(err, "active_slot") {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}

	u.cache.Invalidate(ctx, userID)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	rows, err := u.appointmentRepo.DeleteByIDAndUser(u.db.WithContext(ctx), id, userID)
	if err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrAppointmentNotFound
	}

	u.cache.Invalidate(ctx, userID)
	u.log.Infof("Appointment deleted: id=%s", id)
	return nil
}

// sendConfirmation resolves the owner's email (token claim first, user
// lookup as fallback) and queues the confirmation. Nothing here can fail the
// booking: a missing address or provider trouble is logged and dropped.
func (u *appointmentUsecase) sendConfirmation(ctx context.Context, userID uuid.UUID, appointment *entity.Appointment) {
	email, _ := middleware.GetUserEmailFromContext(ctx)
	if email == "" {
		user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
		if err != nil || user == nil {
			u.log.Warnf("Could not resolve email for user %s, skipping confirmation: %+v", userID, err)
			return
		}
		email = user.Email
	}

	u.mailer.EnqueueConfirmation(email, service.AppointmentDetails{
		ID:      appointment.ID,
		Date:    appointment.Date,
		Time:    appointment.Time,
		Service: appointment.Title,
	})
}

// parseSlot combines the date and time fields into the slot instant.
func parseSlot(date, timeLabel string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04", date+"T"+timeLabel)
}
