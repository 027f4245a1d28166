package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest carries the ID token posted by Google One Tap /
// Identity Services.
type GoogleLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type UpdateProfileRequest struct {
	Name        string            `json:"name" validate:"required"`
	Email       string            `json:"email" validate:"required,email"`
	Phone       *string           `json:"phone" validate:"omitempty,phone"`
	BirthDate   *string           `json:"birthDate"` // YYYY-MM-DD
	Address     *string           `json:"address"`
	Avatar      *string           `json:"avatar"`
	Preferences *PreferencesPatch `json:"preferences"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// PreferencesPatch is merged key by key into the stored preferences; nil
// fields leave the stored value untouched. Only whitelisted keys exist, so
// unexpected client fields can never reach the database.
type PreferencesPatch struct {
	EmailNotifications *bool   `json:"emailNotifications"`
	SMSNotifications   *bool   `json:"smsNotifications"`
	ReminderTime       *string `json:"reminderTime"`
	Privacy            *string `json:"privacy" validate:"omitempty,oneof=public friends private"`
	Newsletter         *bool   `json:"newsletter"`
}

// Response DTOs

type TokenResponse struct {
	Token string `json:"token"`
}

type PreferencesResponse struct {
	EmailNotifications bool   `json:"emailNotifications"`
	SMSNotifications   bool   `json:"smsNotifications"`
	ReminderTime       string `json:"reminderTime"`
	Privacy            string `json:"privacy"`
	Newsletter         bool   `json:"newsletter"`
}

type ProfileResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Role        string              `json:"role"`
	Phone       string              `json:"phone,omitempty"`
	BirthDate   *time.Time          `json:"birthDate,omitempty"`
	Address     string              `json:"address,omitempty"`
	Avatar      string              `json:"avatar,omitempty"`
	Preferences PreferencesResponse `json:"preferences"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// UpdateProfileResponse carries the updated profile together with a freshly
// issued token, since the token holds the name/email shown downstream.
type UpdateProfileResponse struct {
	Token   string           `json:"token"`
	Profile *ProfileResponse `json:"profile"`
}
