package http

import (
	"net/http"

	"easycare-booking-api/internal/delivery/http/handler"
	"easycare-booking-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	appointmentHandler *handler.AppointmentHandler
	doctorHandler      *handler.DoctorHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	doctorHandler *handler.DoctorHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		appointmentHandler: appointmentHandler,
		doctorHandler:      doctorHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Health check
	r.router.HandleFunc("/ping", r.ping).Methods(http.MethodGet)

	// Auth routes (public)
	auth := r.router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/google-login", r.authHandler.GoogleLogin).Methods(http.MethodPost)
	auth.HandleFunc("/google", r.authHandler.GoogleRedirect).Methods(http.MethodGet)
	auth.HandleFunc("/google/callback", r.authHandler.GoogleCallback).Methods(http.MethodGet)

	// Auth routes (protected)
	authProtected := r.router.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/profile", r.authHandler.GetProfile).Methods(http.MethodGet)
	authProtected.HandleFunc("/profile", r.authHandler.UpdateProfile).Methods(http.MethodPut)
	authProtected.HandleFunc("/change-password", r.authHandler.ChangePassword).Methods(http.MethodPut)
	authProtected.HandleFunc("/preferences", r.authHandler.UpdatePreferences).Methods(http.MethodPut)

	// Appointment routes (protected, owner-scoped)
	appointments := r.router.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("", r.appointmentHandler.List).Methods(http.MethodGet)
	appointments.HandleFunc("", r.appointmentHandler.Create).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Get).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Update).Methods(http.MethodPut)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Delete).Methods(http.MethodDelete)

	// Doctor directory (public)
	r.router.HandleFunc("/doctors", r.doctorHandler.List).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) ping(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "pong!"}`))
}
