package http

import (
	"net/http"

	"mediflow/internal/delivery/http/handler"
	"mediflow/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	patientHandler     *handler.PatientHandler
	appointmentHandler *handler.AppointmentHandler
	visitHandler       *handler.VisitHandler
	profileHandler     *handler.ProfileHandler
	uploadHandler      *handler.UploadHandler
	billHandler        *handler.BillHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

type Handlers struct {
	Auth        *handler.AuthHandler
	Patient     *handler.PatientHandler
	Appointment *handler.AppointmentHandler
	Visit       *handler.VisitHandler
	Profile     *handler.ProfileHandler
	Upload      *handler.UploadHandler
	Bill        *handler.BillHandler
	AuditLog    *handler.AuditLogHandler
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        handlers.Auth,
		patientHandler:     handlers.Patient,
		appointmentHandler: handlers.Appointment,
		visitHandler:       handlers.Visit,
		profileHandler:     handlers.Profile,
		uploadHandler:      handlers.Upload,
		billHandler:        handlers.Bill,
		auditLogHandler:    handlers.AuditLog,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Patient self-service routes (protected - patient only)
	me := api.PathPrefix("/me").Subrouter()
	me.Use(r.authMiddleware.Authenticate)
	me.Use(middleware.RequirePatient)
	me.HandleFunc("", r.patientHandler.GetMine).Methods(http.MethodGet)
	me.HandleFunc("/visits", r.visitHandler.GetMyVisits).Methods(http.MethodGet)
	me.HandleFunc("/visits", r.visitHandler.LogMyVisit).Methods(http.MethodPost)
	me.HandleFunc("/prescriptions", r.visitHandler.GetMyPrescriptions).Methods(http.MethodGet)
	me.HandleFunc("/reports", r.visitHandler.GetMyReports).Methods(http.MethodGet)
	me.HandleFunc("/appointments", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)

	// Front desk routes (protected - receptionist only)
	desk := api.NewRoute().Subrouter()
	desk.Use(r.authMiddleware.Authenticate)
	desk.Use(middleware.RequireReceptionist)

	// Patients
	desk.HandleFunc("/patients", r.patientHandler.Create).Methods(http.MethodPost)
	desk.HandleFunc("/patients", r.patientHandler.List).Methods(http.MethodGet)
	desk.HandleFunc("/patients/check-unique", r.patientHandler.CheckUnique).Methods(http.MethodGet)
	desk.HandleFunc("/patients/{id:[0-9]+}", r.patientHandler.GetByID).Methods(http.MethodGet)
	desk.HandleFunc("/patients/{id:[0-9]+}", r.patientHandler.Update).Methods(http.MethodPut)
	desk.HandleFunc("/patients/{id:[0-9]+}", r.patientHandler.Delete).Methods(http.MethodDelete)

	// Appointments and visits
	desk.HandleFunc("/patients/{id:[0-9]+}/appointments", r.appointmentHandler.Book).Methods(http.MethodPost)
	desk.HandleFunc("/patients/{id:[0-9]+}/status", r.appointmentHandler.SetStatus).Methods(http.MethodPatch)
	desk.HandleFunc("/patients/{id:[0-9]+}/status/toggle", r.appointmentHandler.ToggleStatus).Methods(http.MethodPost)
	desk.HandleFunc("/patients/{id:[0-9]+}/visits", r.visitHandler.LogVisit).Methods(http.MethodPost)
	desk.HandleFunc("/appointments/today", r.appointmentHandler.Today).Methods(http.MethodGet)
	desk.HandleFunc("/appointments/booked", r.appointmentHandler.Booked).Methods(http.MethodGet)
	desk.HandleFunc("/dashboard", r.appointmentHandler.Dashboard).Methods(http.MethodGet)

	// Staff profile
	desk.HandleFunc("/profile", r.profileHandler.GetProfile).Methods(http.MethodGet)
	desk.HandleFunc("/profile", r.profileHandler.SaveProfile).Methods(http.MethodPut)

	// Prescription uploads
	desk.HandleFunc("/uploads/file", r.uploadHandler.UploadFile).Methods(http.MethodPost)
	desk.HandleFunc("/uploads/manual-prescription", r.uploadHandler.SaveManualPrescription).Methods(http.MethodPost)
	desk.HandleFunc("/uploads/latest", r.uploadHandler.GetLatest).Methods(http.MethodGet)

	// Bills
	desk.HandleFunc("/bills", r.billHandler.Create).Methods(http.MethodPost)
	desk.HandleFunc("/bills", r.billHandler.GetAll).Methods(http.MethodGet)
	desk.HandleFunc("/bills/{id}", r.billHandler.GetByID).Methods(http.MethodGet)
	desk.HandleFunc("/patients/{id:[0-9]+}/bills", r.billHandler.GetByPatientID).Methods(http.MethodGet)

	// Audit trail
	desk.HandleFunc("/audit-logs", r.auditLogHandler.GetRecentAuditLogs).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
