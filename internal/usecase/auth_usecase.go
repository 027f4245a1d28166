package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"easycare-booking-api/internal/converter"
	"easycare-booking-api/internal/delivery/dto"
	"easycare-booking-api/internal/domain/entity"
	"easycare-booking-api/internal/domain/repository"
	"easycare-booking-api/internal/service"
	"easycare-booking-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrGoogleTokenInvalid    = errors.New("google token verification failed")
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailInUse            = errors.New("email already in use by another account")
	ErrInvalidBirthDate      = errors.New("invalid birth date format, use YYYY-MM-DD")
	ErrBirthDateInFuture     = errors.New("birth date cannot be in the future")
	ErrMissingPasswordFields = errors.New("current and new password are required")
	ErrPasswordTooShort      = errors.New("new password must be at least 6 characters")
	ErrWrongPassword         = errors.New("current password does not match")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	GoogleLogin(ctx context.Context, credential string) (*dto.TokenResponse, error)
	GoogleAuthURL(state string) string
	GoogleExchange(ctx context.Context, code string) (*dto.TokenResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UpdateProfileResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error
	UpdatePreferences(ctx context.Context, userID uuid.UUID, patch *dto.PreferencesPatch) (*dto.PreferencesResponse, error)
}

type authUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	userRepo   repository.UserRepository
	jwtService *jwt.JWTService
	googleAuth *service.GoogleAuthService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	googleAuth *service.GoogleAuthService,
) AuthUsecase {
	return &authUsecase{
		db:         db,
		log:        log,
		userRepo:   userRepo,
		jwtService: jwtService,
		googleAuth: googleAuth,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) error {
	db := u.db.WithContext(ctx)

	existing, err := u.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		u.log.Warnf("Failed to check existing email: %+v", err)
		return err
	}
	if existing != nil {
		return ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	user := &entity.User{
		Name:        req.Name,
		Email:       req.Email,
		Password:    string(hashedPassword),
		Role:        entity.RoleUser,
		Preferences: entity.DefaultPreferences(),
	}

	if err := u.userRepo.Create(db, user); err != nil {
		// The unique index catches a concurrent register with the same email
		if isUniqueViolation(err, "email") {
			return ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	// Unknown email, Google-only account and wrong password are
	// indistinguishable to the caller
	if user == nil || !user.HasLocalPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueToken(user)
}

func (u *authUsecase) GoogleLogin(ctx context.Context, credential string) (*dto.TokenResponse, error) {
	googleUser, err := u.googleAuth.VerifyCredential(ctx, credential)
	if err != nil {
		u.log.Warnf("Google credential rejected: %+v", err)
		return nil, ErrGoogleTokenInvalid
	}
	return u.loginGoogleUser(ctx, googleUser)
}

func (u *authUsecase) GoogleAuthURL(state string) string {
	return u.googleAuth.AuthCodeURL(state)
}

func (u *authUsecase) GoogleExchange(ctx context.Context, code string) (*dto.TokenResponse, error) {
	googleUser, err := u.googleAuth.Exchange(ctx, code)
	if err != nil {
		u.log.Warnf("Google code exchange rejected: %+v", err)
		return nil, ErrGoogleTokenInvalid
	}
	return u.loginGoogleUser(ctx, googleUser)
}

// loginGoogleUser resolves a local account for a verified Google identity:
// by external id first, then by the verified email (attaching the external
// id), otherwise a fresh account without a local password.
func (u *authUsecase) loginGoogleUser(ctx context.Context, googleUser *service.GoogleUser) (*dto.TokenResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByGoogleID(db, googleUser.Sub)
	if err != nil {
		u.log.Warnf("Failed to find user by google id: %+v", err)
		return nil, err
	}

	if user == nil {
		user, err = u.userRepo.FindByEmail(db, googleUser.Email)
		if err != nil {
			u.log.Warnf("Failed to find user by email: %+v", err)
			return nil, err
		}
		if user != nil {
			user.GoogleID = &googleUser.Sub
			if user.Avatar == "" {
				user.Avatar = googleUser.Picture
			}
			if err := u.userRepo.Update(db, user); err != nil {
				u.log.Warnf("Failed to attach google id to user: %+v", err)
				return nil, err
			}
		}
	}

	if user == nil {
		user = &entity.User{
			Name:        googleUser.GivenName,
			Email:       googleUser.Email,
			GoogleID:    &googleUser.Sub,
			Avatar:      googleUser.Picture,
			Role:        entity.RoleUser,
			Preferences: entity.DefaultPreferences(),
		}
		if err := u.userRepo.Create(db, user); err != nil {
			u.log.Warnf("Failed to create user from google identity: %+v", err)
			return nil, err
		}
		u.log.Infof("Created user %s from Google sign-in", user.ID)
	}

	return u.issueToken(user)
}

func (u *authUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToProfileResponse(user), nil
}

func (u *authUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UpdateProfileResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Email != user.Email {
		other, err := u.userRepo.FindByEmail(db, req.Email)
		if err != nil {
			u.log.Warnf("Failed to check email availability: %+v", err)
			return nil, err
		}
		if other != nil && other.ID != userID {
			return nil, ErrEmailInUse
		}
	}

	if req.BirthDate != nil && *req.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return nil, ErrInvalidBirthDate
		}
		if birthDate.After(time.Now()) {
			return nil, ErrBirthDateInFuture
		}
		user.BirthDate = &birthDate
	}

	// Whitelisted shallow merge: only fields the client actually sent change
	user.Name = req.Name
	user.Email = req.Email
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Preferences != nil {
		user.Preferences = mergePreferences(user.Preferences, req.Preferences)
	}

	if err := u.userRepo.Update(db, user); err != nil {
		if isUniqueViolation(err, "email") {
			return nil, ErrEmailInUse
		}
		u.log.Warnf("Failed to update user profile: %+v", err)
		return nil, err
	}

	// Re-issue the token so downstream consumers see the new name/email
	token, err := u.jwtService.GenerateToken(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate token: %+v", err)
		return nil, err
	}

	return &dto.UpdateProfileResponse{
		Token:   token,
		Profile: converter.UserToProfileResponse(user),
	}, nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return ErrMissingPasswordFields
	}
	if len(req.NewPassword) < 6 {
		return ErrPasswordTooShort
	}

	db := u.db.WithContext(ctx)
	user, err := u.userRepo.FindByID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	// Google-only accounts have no stored hash to verify against; they set
	// their first local password here
	if user.HasLocalPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			return ErrWrongPassword
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}
	user.Password = string(hashedPassword)

	if err := u.userRepo.Update(db, user); err != nil {
		u.log.Warnf("Failed to store new password: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) UpdatePreferences(ctx context.Context, userID uuid.UUID, patch *dto.PreferencesPatch) (*dto.PreferencesResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Preferences = mergePreferences(user.Preferences, patch)

	if err := u.userRepo.Update(db, user); err != nil {
		u.log.Warnf("Failed to update preferences: %+v", err)
		return nil, err
	}

	merged := converter.PreferencesToResponse(user.Preferences)
	return &merged, nil
}

func (u *authUsecase) issueToken(user *entity.User) (*dto.TokenResponse, error) {
	token, err := u.jwtService.GenerateToken(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate token: %+v", err)
		return nil, err
	}
	return &dto.TokenResponse{Token: token}, nil
}

// mergePreferences applies a patch key by key; nil patch fields keep the
// stored value. Copies are taken so the entity never aliases request memory.
func mergePreferences(current entity.Preferences, patch *dto.PreferencesPatch) entity.Preferences {
	if patch == nil {
		return current
	}
	if patch.EmailNotifications != nil {
		v := *patch.EmailNotifications
		current.EmailNotifications = &v
	}
	if patch.SMSNotifications != nil {
		v := *patch.SMSNotifications
		current.SMSNotifications = &v
	}
	if patch.ReminderTime != nil {
		current.ReminderTime = *patch.ReminderTime
	}
	if patch.Privacy != nil {
		current.Privacy = *patch.Privacy
	}
	if patch.Newsletter != nil {
		v := *patch.Newsletter
		current.Newsletter = &v
	}
	return current
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation on
// the named column or constraint.
func isUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
