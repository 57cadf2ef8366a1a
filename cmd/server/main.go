package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"facture-backend/internal/auth"
	"facture-backend/internal/cache"
	"facture-backend/internal/config"
	"facture-backend/internal/database"
	"facture-backend/internal/db"
	"facture-backend/internal/handlers"
	"facture-backend/internal/health"
	h "facture-backend/internal/http"
	"facture-backend/internal/middleware"
	"facture-backend/internal/realtime"
	"facture-backend/internal/repositories"
	"facture-backend/internal/services"
	"facture-backend/internal/storage"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (stats will hit the database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	profileRepo := repositories.NewProfileRepository(pool)
	clientRepo := repositories.NewClientRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)

	// Initialize object storage for logos (optional)
	var uploader *storage.Uploader
	if cfg.Storage.Bucket != "" {
		var err error
		uploader, err = storage.NewUploader(cfg)
		if err != nil {
			log.Printf("[Storage] Logo storage unavailable: %v", err)
			uploader = nil
		}
	} else {
		log.Println("[Storage] No bucket configured, logo uploads disabled")
	}

	// Initialize websocket change feed
	hub := realtime.NewHub()

	// Initialize services
	userService := services.NewUserService(userRepo, jwtManager)
	profileService := services.NewProfileService(profileRepo)
	clientService := services.NewClientService(clientRepo)
	clientService.SetNotifier(hub)
	invoiceService := services.NewInvoiceService(invoiceRepo, clientRepo, profileService)
	invoiceService.SetNotifier(hub)
	pdfService := services.NewPDFService()

	// Start the overdue sweep
	sweepInterval := time.Duration(cfg.Invoice.SweepIntervalMinutes) * time.Minute
	sweepService := services.NewSweepService(invoiceRepo, sweepInterval)
	sweepService.Start()
	defer sweepService.Stop()

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	profileHandler := handlers.NewProfileHandler(profileService, uploader)
	clientHandler := handlers.NewClientHandler(clientService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, profileService, pdfService)
	realtimeHandler := handlers.NewRealtimeHandler(hub, jwtManager)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Setup router
	router := h.NewRouter(
		authHandler,
		profileHandler,
		clientHandler,
		invoiceHandler,
		realtimeHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(
		middleware.MetricsMiddleware(
			corsMiddleware(router),
		),
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
