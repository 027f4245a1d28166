package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is advisory: any value can be set through update, the
// server only checks it is one of the known states.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment occupies a slot: a date+time instant held exclusively across
// all users while the appointment is not cancelled. Date is the combined
// instant, Time keeps the "HH:MM" label the client sent.
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string            `gorm:"type:varchar(255);not null" json:"title"`
	Description string            `gorm:"type:text" json:"description,omitempty"`
	Date        time.Time         `gorm:"not null;index" json:"date"`
	Time        string            `gorm:"type:varchar(5);not null" json:"time"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment no longer holds its slot.
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}
