package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Preferences holds per-user notification and privacy settings.
// Stored inline on the users table with a pref_ column prefix.
type Preferences struct {
	EmailNotifications *bool  `gorm:"not null;default:true" json:"emailNotifications"`
	SMSNotifications   *bool  `gorm:"not null;default:false" json:"smsNotifications"`
	ReminderTime       string `gorm:"type:varchar(10);not null;default:'24'" json:"reminderTime"`
	Privacy            string `gorm:"type:varchar(20);not null;default:'friends'" json:"privacy"`
	Newsletter         *bool  `gorm:"not null;default:true" json:"newsletter"`
}

// User is a local account. Accounts created through Google sign-in carry a
// GoogleID and an empty password; HasLocalPassword distinguishes them instead
// of a sentinel password value.
type User struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string      `gorm:"type:varchar(255);not null" json:"name"`
	Email       string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string      `gorm:"type:text" json:"-"`
	GoogleID    *string     `gorm:"type:varchar(255);index" json:"-"`
	Role        string      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Phone       string      `gorm:"type:varchar(30)" json:"phone,omitempty"`
	BirthDate   *time.Time  `gorm:"type:date" json:"birthDate,omitempty"`
	Address     string      `gorm:"type:varchar(255)" json:"address,omitempty"`
	Avatar      string      `gorm:"type:text" json:"avatar,omitempty"`
	Preferences Preferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasLocalPassword reports whether password login is possible for this
// account. Google-only accounts store an empty hash.
func (u *User) HasLocalPassword() bool {
	return u.Password != ""
}

// DefaultPreferences returns the values applied to newly registered users.
func DefaultPreferences() Preferences {
	yes, no := true, false
	return Preferences{
		EmailNotifications: &yes,
		SMSNotifications:   &no,
		ReminderTime:       "24",
		Privacy:            "friends",
		Newsletter:         &yes,
	}
}
