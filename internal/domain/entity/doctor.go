package entity

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is a read-only directory entry. The availability labels are
// free-form strings ("10 Giugno"), not calendar dates; they are display
// data seeded out of band by cmd/seed.
type Doctor struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Speciality   string    `gorm:"type:varchar(255);not null;index" json:"speciality"`
	Image        string    `gorm:"type:text" json:"image,omitempty"`
	Availability []string  `gorm:"serializer:json" json:"availability"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}
