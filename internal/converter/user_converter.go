package converter

import (
	"easycare-booking-api/internal/delivery/dto"
	"easycare-booking-api/internal/domain/entity"
)

// UserToProfileResponse converts a User entity to its profile DTO. The
// password hash and external-identity id never leave this layer.
func UserToProfileResponse(user *entity.User) *dto.ProfileResponse {
	if user == nil {
		return nil
	}

	return &dto.ProfileResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Phone:       user.Phone,
		BirthDate:   user.BirthDate,
		Address:     user.Address,
		Avatar:      user.Avatar,
		Preferences: PreferencesToResponse(user.Preferences),
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func PreferencesToResponse(prefs entity.Preferences) dto.PreferencesResponse {
	return dto.PreferencesResponse{
		EmailNotifications: boolValue(prefs.EmailNotifications, true),
		SMSNotifications:   boolValue(prefs.SMSNotifications, false),
		ReminderTime:       prefs.ReminderTime,
		Privacy:            prefs.Privacy,
		Newsletter:         boolValue(prefs.Newsletter, true),
	}
}

func boolValue(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
