package http

import (
	"net/http"

	"emergency-referral/config"
	"emergency-referral/internal/delivery/http/handler"
	"emergency-referral/internal/delivery/http/middleware"
	"emergency-referral/pkg/response"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
)

type Router struct {
	router           *mux.Router
	rateLimit        config.RateLimitConfig
	authHandler      *handler.AuthHandler
	referralHandler  *handler.ReferralHandler
	referenceHandler *handler.ReferenceHandler
	reportHandler    *handler.ReportHandler
	auditLogHandler  *handler.AuditLogHandler
	authMiddleware   *middleware.AuthMiddleware
	corsMiddleware   *middleware.CORSMiddleware
}

func NewRouter(
	rateLimit config.RateLimitConfig,
	authHandler *handler.AuthHandler,
	referralHandler *handler.ReferralHandler,
	referenceHandler *handler.ReferenceHandler,
	reportHandler *handler.ReportHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:           mux.NewRouter(),
		rateLimit:        rateLimit,
		authHandler:      authHandler,
		referralHandler:  referralHandler,
		referenceHandler: referenceHandler,
		reportHandler:    reportHandler,
		auditLogHandler:  auditLogHandler,
		authMiddleware:   authMiddleware,
		corsMiddleware:   corsMiddleware,
	}
}

// Setup registers every route and returns the CORS-wrapped handler. CORS sits
// outside the mux so preflight requests are answered even for routes that
// only accept other methods.
func (r *Router) Setup() http.Handler {
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

	// Reference data (public, used by the external referral form)
	api.HandleFunc("/hospitals", r.referenceHandler.ListHospitals).Methods(http.MethodGet)
	api.HandleFunc("/hospitals/{id:[0-9]+}", r.referenceHandler.GetHospital).Methods(http.MethodGet)
	api.HandleFunc("/specialties", r.referenceHandler.ListSpecialties).Methods(http.MethodGet)

	// Referral submission (anonymous or staff, rate limited per IP)
	submit := api.PathPrefix("/referrals").Subrouter()
	submit.Use(r.submitLimiter())
	submit.Use(r.authMiddleware.OptionalAuthenticate)
	submit.HandleFunc("", r.referralHandler.SubmitReferral).Methods(http.MethodPost)

	// Referral routes (protected)
	referrals := api.PathPrefix("/referrals").Subrouter()
	referrals.Use(r.authMiddleware.Authenticate)
	referrals.HandleFunc("", r.referralHandler.ListReferrals).Methods(http.MethodGet)
	referrals.HandleFunc("/queue", r.referralHandler.GetQueue).Methods(http.MethodGet)
	referrals.HandleFunc("/mine", r.referralHandler.GetMyReferrals).Methods(http.MethodGet)
	referrals.HandleFunc("/{id}", r.referralHandler.GetReferral).Methods(http.MethodGet)
	referrals.HandleFunc("/{id}/history", r.referralHandler.GetReferralHistory).Methods(http.MethodGet)
	referrals.HandleFunc("/{id}/transfer", r.referralHandler.TransferToTriage).Methods(http.MethodPost)
	referrals.HandleFunc("/{id}/accept", r.referralHandler.AcceptReferral).Methods(http.MethodPost)
	referrals.HandleFunc("/{id}/complete", r.referralHandler.CompleteReferral).Methods(http.MethodPost)
	referrals.HandleFunc("/{id}/cancel", r.referralHandler.CancelReferral).Methods(http.MethodPost)
	referrals.HandleFunc("/{id}/assign", r.referralHandler.AssignToMe).Methods(http.MethodPost)
	referrals.HandleFunc("/{id}/transit-info", r.referralHandler.UpsertTransitInfo).Methods(http.MethodPut)
	referrals.HandleFunc("/{id}/transport/dispatch", r.referralHandler.DispatchTransport).Methods(http.MethodPost)
	referrals.HandleFunc("/{id}/transport/arrive", r.referralHandler.ArriveTransport).Methods(http.MethodPost)

	// Reports and patients (protected)
	reports := api.PathPrefix("/reports").Subrouter()
	reports.Use(r.authMiddleware.Authenticate)
	reports.HandleFunc("/dashboard", r.reportHandler.GetDashboard).Methods(http.MethodGet)
	reports.HandleFunc("/analytics", r.reportHandler.GetAnalytics).Methods(http.MethodGet)
	reports.HandleFunc("/activity", r.reportHandler.GetActivity).Methods(http.MethodGet)

	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.HandleFunc("", r.reportHandler.ListPatients).Methods(http.MethodGet)
	patients.HandleFunc("/history", r.reportHandler.GetPatientHistory).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/users", r.authHandler.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/hospitals", r.referenceHandler.CreateHospital).Methods(http.MethodPost)
	admin.HandleFunc("/hospitals/{id:[0-9]+}", r.referenceHandler.UpdateHospital).Methods(http.MethodPut)
	admin.HandleFunc("/hospitals/{id:[0-9]+}/status", r.referenceHandler.UpdateHospitalStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/specialties", r.referenceHandler.CreateSpecialty).Methods(http.MethodPost)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) submitLimiter() mux.MiddlewareFunc {
	return httprate.Limit(
		r.rateLimit.SubmitRequests,
		r.rateLimit.SubmitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
			response.Error(w, http.StatusTooManyRequests, "Too many referral submissions, please try again later", nil)
		}),
	)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
