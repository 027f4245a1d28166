package usecase

import (
	"context"
	"io"
	"testing"

	"easycare-booking-api/internal/delivery/dto"
	"easycare-booking-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func TestMergePreferencesNilPatchKeepsStored(t *testing.T) {
	current := entity.DefaultPreferences()
	merged := mergePreferences(current, nil)
	assert.Equal(t, current, merged)
}

func TestMergePreferencesEmptyPatchKeepsStored(t *testing.T) {
	current := entity.DefaultPreferences()
	merged := mergePreferences(current, &dto.PreferencesPatch{})

	assert.True(t, *merged.EmailNotifications)
	assert.False(t, *merged.SMSNotifications)
	assert.Equal(t, "24", merged.ReminderTime)
	assert.Equal(t, "friends", merged.Privacy)
	assert.True(t, *merged.Newsletter)
}

func TestMergePreferencesPatchesOnlySentKeys(t *testing.T) {
	current := entity.DefaultPreferences()
	merged := mergePreferences(current, &dto.PreferencesPatch{
		SMSNotifications: boolPtr(true),
		Privacy:          strPtr("private"),
	})

	assert.True(t, *merged.SMSNotifications)
	assert.Equal(t, "private", merged.Privacy)
	// untouched keys keep the stored values
	assert.True(t, *merged.EmailNotifications)
	assert.Equal(t, "24", merged.ReminderTime)
	assert.True(t, *merged.Newsletter)
}

func TestMergePreferencesCopiesPatchMemory(t *testing.T) {
	current := entity.DefaultPreferences()
	patchValue := true
	merged := mergePreferences(current, &dto.PreferencesPatch{
		SMSNotifications: &patchValue,
	})

	patchValue = false
	assert.True(t, *merged.SMSNotifications)
}

func TestChangePasswordValidation(t *testing.T) {
	uc := NewAuthUsecase(nil, testLogger(), nil, nil, nil)
	ctx := context.Background()
	userID := uuid.New()

	err := uc.ChangePassword(ctx, userID, &dto.ChangePasswordRequest{})
	assert.ErrorIs(t, err, ErrMissingPasswordFields)

	err = uc.ChangePassword(ctx, userID, &dto.ChangePasswordRequest{
		CurrentPassword: "oldpassword",
	})
	assert.ErrorIs(t, err, ErrMissingPasswordFields)

	err = uc.ChangePassword(ctx, userID, &dto.ChangePasswordRequest{
		CurrentPassword: "oldpassword",
		NewPassword:     "abc",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "ux_appointments_active_slot",
	}
	assert.True(t, isUniqueViolation(pgErr, "active_slot"))
	assert.False(t, isUniqueViolation(pgErr, "email"))

	otherCode := &pgconn.PgError{Code: "23503", ConstraintName: "fk_user"}
	assert.False(t, isUniqueViolation(otherCode, "fk_user"))

	assert.False(t, isUniqueViolation(assertionError{}, "email"))
}

type assertionError struct{}

func (assertionError) Error() string { return "not a pg error" }
