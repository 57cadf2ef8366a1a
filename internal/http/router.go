package http

import (
	"facture-backend/internal/handlers"
	"facture-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	clientHandler *handlers.ClientHandler,
	invoiceHandler *handlers.InvoiceHandler,
	realtimeHandler *handlers.RealtimeHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/password-reset", authHandler.RequestPasswordReset).Methods("POST")
	r.HandleFunc("/auth/password-reset/confirm", authHandler.ResetPassword).Methods("POST")

	// Websocket change feed (token authenticated via query string)
	r.HandleFunc("/ws", realtimeHandler.Subscribe).Methods("GET")

	// Protected API routes - Company profile
	profileAPI := r.PathPrefix("/api/profile").Subrouter()
	profileAPI.Use(authMiddleware.Authenticate)
	profileAPI.HandleFunc("", profileHandler.Get).Methods("GET")
	profileAPI.HandleFunc("", profileHandler.Update).Methods("PUT")
	profileAPI.HandleFunc("/logo", profileHandler.UploadLogo).Methods("POST")
	profileAPI.HandleFunc("/logo/progress", profileHandler.LogoProgress).Methods("GET")

	// Protected API routes - Clients
	clientsAPI := r.PathPrefix("/api/clients").Subrouter()
	clientsAPI.Use(authMiddleware.Authenticate)
	clientsAPI.HandleFunc("", clientHandler.List).Methods("GET")
	clientsAPI.HandleFunc("", clientHandler.Create).Methods("POST")
	clientsAPI.HandleFunc("/trash", clientHandler.ListTrash).Methods("GET")
	clientsAPI.HandleFunc("/trash", clientHandler.PurgeTrash).Methods("DELETE")
	clientsAPI.HandleFunc("/{id}", clientHandler.Get).Methods("GET")
	clientsAPI.HandleFunc("/{id}", clientHandler.Update).Methods("PUT")
	clientsAPI.HandleFunc("/{id}", clientHandler.Delete).Methods("DELETE")
	clientsAPI.HandleFunc("/{id}/restore", clientHandler.Restore).Methods("POST")
	clientsAPI.HandleFunc("/{id}/permanent", clientHandler.PermanentDelete).Methods("DELETE")

	// Protected API routes - Invoices
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.HandleFunc("", invoiceHandler.List).Methods("GET")
	invoicesAPI.HandleFunc("", invoiceHandler.Create).Methods("POST")
	invoicesAPI.HandleFunc("/stats", invoiceHandler.Stats).Methods("GET")
	invoicesAPI.HandleFunc("/trash", invoiceHandler.ListTrash).Methods("GET")
	invoicesAPI.HandleFunc("/trash", invoiceHandler.PurgeTrash).Methods("DELETE")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.Get).Methods("GET")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.Update).Methods("PUT")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.Delete).Methods("DELETE")
	invoicesAPI.HandleFunc("/{id}/status", invoiceHandler.UpdateStatus).Methods("PATCH")
	invoicesAPI.HandleFunc("/{id}/pay", invoiceHandler.MarkPaid).Methods("POST")
	invoicesAPI.HandleFunc("/{id}/pdf", invoiceHandler.DownloadPDF).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/restore", invoiceHandler.Restore).Methods("POST")
	invoicesAPI.HandleFunc("/{id}/permanent", invoiceHandler.PermanentDelete).Methods("DELETE")

	// Health and metrics
	r.HandleFunc("/health", healthHandler.Basic).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.Basic).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.Detailed).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
