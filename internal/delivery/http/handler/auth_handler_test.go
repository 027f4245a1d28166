package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"easycare-booking-api/internal/delivery/dto"
	"easycare-booking-api/internal/delivery/http/middleware"
	"easycare-booking-api/internal/usecase"
	"easycare-booking-api/pkg/response"
	"easycare-booking-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthUsecase lets each test pin just the calls it expects.
type stubAuthUsecase struct {
	register          func(ctx context.Context, req *dto.RegisterRequest) error
	login             func(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	googleLogin       func(ctx context.Context, credential string) (*dto.TokenResponse, error)
	googleExchange    func(ctx context.Context, code string) (*dto.TokenResponse, error)
	getProfile        func(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	updateProfile     func(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UpdateProfileResponse, error)
	changePassword    func(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error
	updatePreferences func(ctx context.Context, userID uuid.UUID, patch *dto.PreferencesPatch) (*dto.PreferencesResponse, error)
}

func (s *stubAuthUsecase) Register(ctx context.Context, req *dto.RegisterRequest) error {
	return s.register(ctx, req)
}

func (s *stubAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	return s.login(ctx, req)
}

func (s *stubAuthUsecase) GoogleLogin(ctx context.Context, credential string) (*dto.TokenResponse, error) {
	return s.googleLogin(ctx, credential)
}

func (s *stubAuthUsecase) GoogleAuthURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (s *stubAuthUsecase) GoogleExchange(ctx context.Context, code string) (*dto.TokenResponse, error) {
	return s.googleExchange(ctx, code)
}

func (s *stubAuthUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	return s.getProfile(ctx, userID)
}

func (s *stubAuthUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UpdateProfileResponse, error) {
	return s.updateProfile(ctx, userID, req)
}

func (s *stubAuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	return s.changePassword(ctx, userID, req)
}

func (s *stubAuthUsecase) UpdatePreferences(ctx context.Context, userID uuid.UUID, patch *dto.PreferencesPatch) (*dto.PreferencesResponse, error) {
	return s.updatePreferences(ctx, userID, patch)
}

func newAuthHandler(stub *stubAuthUsecase) *AuthHandler {
	return NewAuthHandler(stub, validator.NewValidator(), "http://localhost:3000")
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authenticated(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestRegisterSuccess(t *testing.T) {
	stub := &stubAuthUsecase{
		register: func(ctx context.Context, req *dto.RegisterRequest) error {
			assert.Equal(t, "anna@x.com", req.Email)
			return nil
		},
	}
	h := newAuthHandler(stub)

	req := jsonRequest(t, http.MethodPost, "/auth/register", dto.RegisterRequest{
		Name: "Anna", Email: "anna@x.com", Password: "secret1",
	})
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Registrazione ok!", env.Message)
	assert.Nil(t, env.Data)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	stub := &stubAuthUsecase{
		register: func(ctx context.Context, req *dto.RegisterRequest) error {
			return usecase.ErrEmailAlreadyExists
		},
	}
	h := newAuthHandler(stub)

	req := jsonRequest(t, http.MethodPost, "/auth/register", dto.RegisterRequest{
		Name: "Anna", Email: "anna@x.com", Password: "secret1",
	})
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Email già registrata", env.Message)
}

func TestRegisterMissingFields(t *testing.T) {
	h := newAuthHandler(&stubAuthUsecase{})

	req := jsonRequest(t, http.MethodPost, "/auth/register", dto.RegisterRequest{
		Name: "Anna",
	})
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Tutti i campi sono obbligatori", env.Message)
}

func TestLoginSuccess(t *testing.T) {
	stub := &stubAuthUsecase{
		login: func(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
			return &dto.TokenResponse{Token: "jwt-token"}, nil
		},
	}
	h := newAuthHandler(stub)

	req := jsonRequest(t, http.MethodPost, "/auth/login", dto.LoginRequest{
		Email: "anna@x.com", Password: "secret1",
	})
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "jwt-token", data["token"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	stub := &stubAuthUsecase{
		login: func(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
			return nil, usecase.ErrInvalidCredentials
		},
	}
	h := newAuthHandler(stub)

	req := jsonRequest(t, http.MethodPost, "/auth/login", dto.LoginRequest{
		Email: "anna@x.com", Password: "wrong",
	})
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Credenziali non valide", env.Message)
}

func TestGoogleLoginInvalidCredential(t *testing.T) {
	stub := &stubAuthUsecase{
		googleLogin: func(ctx context.Context, credential string) (*dto.TokenResponse, error) {
			return nil, usecase.ErrGoogleTokenInvalid
		},
	}
	h := newAuthHandler(stub)

	req := jsonRequest(t, http.MethodPost, "/auth/google-login", dto.GoogleLoginRequest{
		Credential: "bad-id-token",
	})
	rec := httptest.NewRecorder()
	h.GoogleLogin(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Google login failed", env.Message)
}

func TestGoogleRedirectSetsStateCookie(t *testing.T) {
	h := newAuthHandler(&stubAuthUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	rec := httptest.NewRecorder()
	h.GoogleRedirect(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)

	var state *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "oauth_state" {
			state = c
		}
	}
	require.NotNil(t, state)
	assert.NotEmpty(t, state.Value)
	assert.Contains(t, rec.Header().Get("Location"), "state="+state.Value)
}

func TestGoogleCallbackStateMismatch(t *testing.T) {
	h := newAuthHandler(&stubAuthUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=other&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "expected"})
	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:3000/login", rec.Header().Get("Location"))
}

func TestGoogleCallbackSuccess(t *testing.T) {
	stub := &stubAuthUsecase{
		googleExchange: func(ctx context.Context, code string) (*dto.TokenResponse, error) {
			assert.Equal(t, "abc", code)
			return &dto.TokenResponse{Token: "jwt-token"}, nil
		},
	}
	h := newAuthHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=expected&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "expected"})
	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:3000/dashboard?token=jwt-token", rec.Header().Get("Location"))
}

func TestGetProfileNotFound(t *testing.T) {
	stub := &stubAuthUsecase{
		getProfile: func(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
			return nil, usecase.ErrUserNotFound
		},
	}
	h := newAuthHandler(stub)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/auth/profile", nil), uuid.New())
	rec := httptest.NewRecorder()
	h.GetProfile(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Utente non trovato", env.Message)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	stub := &stubAuthUsecase{
		updateProfile: func(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UpdateProfileResponse, error) {
			return nil, usecase.ErrEmailInUse
		},
	}
	h := newAuthHandler(stub)

	req := authenticated(jsonRequest(t, http.MethodPut, "/auth/profile", dto.UpdateProfileRequest{
		Name: "Anna", Email: "taken@x.com",
	}), uuid.New())
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Email già in uso", env.Message)
}

func TestUpdateProfileReissuesToken(t *testing.T) {
	stub := &stubAuthUsecase{
		updateProfile: func(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UpdateProfileResponse, error) {
			return &dto.UpdateProfileResponse{
				Token:   "fresh-token",
				Profile: &dto.ProfileResponse{ID: userID, Name: req.Name, Email: req.Email},
			}, nil
		},
	}
	h := newAuthHandler(stub)

	req := authenticated(jsonRequest(t, http.MethodPut, "/auth/profile", dto.UpdateProfileRequest{
		Name: "Anna Rossi", Email: "anna@x.com",
	}), uuid.New())
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "fresh-token", data["token"])
}

func TestChangePasswordTooShort(t *testing.T) {
	stub := &stubAuthUsecase{
		changePassword: func(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
			return usecase.ErrPasswordTooShort
		},
	}
	h := newAuthHandler(stub)

	req := authenticated(jsonRequest(t, http.MethodPut, "/auth/change-password", dto.ChangePasswordRequest{
		CurrentPassword: "oldpassword", NewPassword: "abc",
	}), uuid.New())
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "La nuova password deve contenere almeno 6 caratteri", env.Message)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	stub := &stubAuthUsecase{
		changePassword: func(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
			return usecase.ErrWrongPassword
		},
	}
	h := newAuthHandler(stub)

	req := authenticated(jsonRequest(t, http.MethodPut, "/auth/change-password", dto.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "newsecret",
	}), uuid.New())
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Password attuale non corretta", env.Message)
}

func TestChangePasswordSuccess(t *testing.T) {
	stub := &stubAuthUsecase{
		changePassword: func(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
			return nil
		},
	}
	h := newAuthHandler(stub)

	req := authenticated(jsonRequest(t, http.MethodPut, "/auth/change-password", dto.ChangePasswordRequest{
		CurrentPassword: "oldpassword", NewPassword: "newsecret",
	}), uuid.New())
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Password aggiornata con successo", env.Message)
}

func TestUpdatePreferencesRejectsUnknownPrivacy(t *testing.T) {
	h := newAuthHandler(&stubAuthUsecase{})

	privacy := "everyone"
	req := authenticated(jsonRequest(t, http.MethodPut, "/auth/preferences", dto.PreferencesPatch{
		Privacy: &privacy,
	}), uuid.New())
	rec := httptest.NewRecorder()
	h.UpdatePreferences(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePreferencesSuccess(t *testing.T) {
	stub := &stubAuthUsecase{
		updatePreferences: func(ctx context.Context, userID uuid.UUID, patch *dto.PreferencesPatch) (*dto.PreferencesResponse, error) {
			require.NotNil(t, patch.SMSNotifications)
			assert.True(t, *patch.SMSNotifications)
			return &dto.PreferencesResponse{
				EmailNotifications: true,
				SMSNotifications:   true,
				ReminderTime:       "24",
				Privacy:            "friends",
				Newsletter:         true,
			}, nil
		},
	}
	h := newAuthHandler(stub)

	sms := true
	req := authenticated(jsonRequest(t, http.MethodPut, "/auth/preferences", dto.PreferencesPatch{
		SMSNotifications: &sms,
	}), uuid.New())
	rec := httptest.NewRecorder()
	h.UpdatePreferences(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Preferenze aggiornate", env.Message)
}
