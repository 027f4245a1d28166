package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"easycare-booking-api/internal/delivery/dto"
	"easycare-booking-api/internal/delivery/http/middleware"
	"easycare-booking-api/internal/usecase"
	"easycare-booking-api/pkg/response"
	"easycare-booking-api/pkg/validator"

	"github.com/google/uuid"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
	frontendURL string
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		frontendURL: frontendURL,
	}
}

// Register creates a local account. No token is issued: the client logs in
// separately, matching the login contract.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Tutti i campi sono obbligatori", h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.authUsecase.Register(r.Context(), &req); err != nil {
		switch err {
		case usecase.ErrEmailAlreadyExists:
			response.Error(w, http.StatusBadRequest, "Email già registrata", nil)
		default:
			response.InternalServerError(w, "Errore durante la registrazione")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Registrazione ok!", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Tutti i campi sono obbligatori", h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			// Deliberately generic, no account enumeration
			response.Unauthorized(w, "Credenziali non valide")
		default:
			response.InternalServerError(w, "Errore durante il login")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login effettuato", token)
}

// GoogleLogin exchanges a One Tap / Identity Services credential for a local
// session token.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.authUsecase.GoogleLogin(r.Context(), req.Credential)
	if err != nil {
		switch err {
		case usecase.ErrGoogleTokenInvalid:
			response.Unauthorized(w, "Google login failed")
		default:
			response.InternalServerError(w, "Errore durante il login")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login effettuato", token)
}

// GoogleRedirect starts the classic redirect OAuth flow.
func (h *AuthHandler) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.authUsecase.GoogleAuthURL(state), http.StatusFound)
}

// GoogleCallback finishes the redirect flow and hands the session token to
// the frontend via the dashboard URL; any failure lands on the login page.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	failureURL := h.frontendURL + "/login"

	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		http.Redirect(w, r, failureURL, http.StatusFound)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, failureURL, http.StatusFound)
		return
	}

	token, err := h.authUsecase.GoogleExchange(r.Context(), code)
	if err != nil {
		http.Redirect(w, r, failureURL, http.StatusFound)
		return
	}

	http.Redirect(w, r, h.frontendURL+"/dashboard?token="+token.Token, http.StatusFound)
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	profile, err := h.authUsecase.GetProfile(r.Context(), userID)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "Utente non trovato")
		default:
			response.InternalServerError(w, "Errore nel recupero del profilo")
		}
		return
	}

	response.Success(w, http.StatusOK, "Profilo recuperato", profile)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	updated, err := h.authUsecase.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "Utente non trovato")
		case usecase.ErrEmailInUse:
			response.Conflict(w, "Email già in uso")
		case usecase.ErrInvalidBirthDate:
			response.BadRequest(w, "Formato data di nascita non valido")
		case usecase.ErrBirthDateInFuture:
			response.BadRequest(w, "La data di nascita non può essere nel futuro")
		default:
			response.InternalServerError(w, "Errore durante l'aggiornamento del profilo")
		}
		return
	}

	response.Success(w, http.StatusOK, "Profilo aggiornato", updated)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.authUsecase.ChangePassword(r.Context(), userID, &req); err != nil {
		switch err {
		case usecase.ErrMissingPasswordFields:
			response.BadRequest(w, "Password attuale e nuova password sono obbligatorie")
		case usecase.ErrPasswordTooShort:
			response.BadRequest(w, "La nuova password deve contenere almeno 6 caratteri")
		case usecase.ErrWrongPassword:
			response.Unauthorized(w, "Password attuale non corretta")
		case usecase.ErrUserNotFound:
			response.NotFound(w, "Utente non trovato")
		default:
			response.InternalServerError(w, "Errore durante il cambio password")
		}
		return
	}

	response.Success(w, http.StatusOK, "Password aggiornata con successo", nil)
}

func (h *AuthHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var patch dto.PreferencesPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&patch); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	merged, err := h.authUsecase.UpdatePreferences(r.Context(), userID, &patch)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "Utente non trovato")
		default:
			response.InternalServerError(w, "Errore durante l'aggiornamento delle preferenze")
		}
		return
	}

	response.Success(w, http.StatusOK, "Preferenze aggiornate", merged)
}
