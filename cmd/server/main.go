package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lescombis/internal/config"
	"lescombis/internal/database"
	"lescombis/internal/handlers"
	"lescombis/internal/repository"
	"lescombis/internal/security"
	"lescombis/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed default claim types
	if err := db.SeedTypesSinistres(); err != nil {
		log.Printf("Warning: Failed to seed claim types: %v", err)
	}

	// Initialize repositories
	membreRepo := repository.NewMembreRepository(db)
	cotisationRepo := repository.NewCotisationRepository(db)
	sinistreRepo := repository.NewSinistreRepository(db)
	typeSinistreRepo := repository.NewTypeSinistreRepository(db)

	// Initialize services
	tokenManager := security.NewTokenManager(cfg.JWTSecret, cfg.TokenDuration)
	authService := service.NewAuthService(membreRepo, tokenManager)
	membreService := service.NewMembreService(membreRepo)
	cotisationService := service.NewCotisationService(cotisationRepo, membreRepo, cfg.DuesDueDay)
	sinistreService := service.NewSinistreService(sinistreRepo, typeSinistreRepo, membreRepo)
	financeService := service.NewFinanceService(cotisationRepo, sinistreRepo, membreRepo)

	emailService, err := service.NewEmailService(cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, false)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	rappelService := service.NewRappelService(cotisationService, emailService)

	// Initialize handlers
	loginLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, loginLimiter)
	authHandler := handlers.NewAuthHandler(authService)
	membreHandler := handlers.NewMembreHandler(membreService, cotisationService, authService)
	cotisationHandler := handlers.NewCotisationHandler(cotisationService)
	sinistreHandler := handlers.NewSinistreHandler(sinistreService)
	dashboardHandler := handlers.NewDashboardHandler(financeService)
	rappelHandler := handlers.NewRappelHandler(rappelService)

	// Setup routes
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /api/auth/verify", middleware.RequireAuth(authHandler.Verify))
	mux.HandleFunc("POST /api/auth/change-password", middleware.RequireAuth(authHandler.ChangePassword))

	// Members
	mux.HandleFunc("GET /api/membres", middleware.RequireAuth(membreHandler.List))
	mux.HandleFunc("POST /api/membres", middleware.RequireAdmin(membreHandler.Create))
	mux.HandleFunc("GET /api/membres/{id}", middleware.RequireAuth(membreHandler.Get))
	mux.HandleFunc("PUT /api/membres/{id}", middleware.RequireAdmin(membreHandler.Update))
	mux.HandleFunc("PATCH /api/membres/{id}/statut", middleware.RequireAdmin(membreHandler.ChangerStatut))
	mux.HandleFunc("POST /api/membres/{id}/password", middleware.RequireAdmin(membreHandler.ResetPassword))
	mux.HandleFunc("GET /api/membres/{id}/statut-cotisation", middleware.RequireAuth(membreHandler.StatutCotisations))

	// Dues
	mux.HandleFunc("GET /api/cotisations", middleware.RequireAuth(cotisationHandler.List))
	mux.HandleFunc("POST /api/cotisations/periodes", middleware.RequireTresorier(cotisationHandler.OuvrirPeriode))
	mux.HandleFunc("POST /api/cotisations/{id}/paiement", middleware.RequireTresorier(cotisationHandler.EnregistrerPaiement))
	mux.HandleFunc("GET /api/cotisations/resume/{annee}", middleware.RequireAuth(cotisationHandler.Resume))
	mux.HandleFunc("GET /api/cotisations/retards", middleware.RequireTresorier(cotisationHandler.Retards))

	// Claims
	mux.HandleFunc("GET /api/sinistres", middleware.RequireAuth(sinistreHandler.List))
	mux.HandleFunc("POST /api/sinistres", middleware.RequireAuth(sinistreHandler.Declarer))
	mux.HandleFunc("GET /api/sinistres/stats/resume", middleware.RequireTresorier(sinistreHandler.Stats))
	mux.HandleFunc("GET /api/sinistres/{id}", middleware.RequireAuth(sinistreHandler.Get))
	mux.HandleFunc("PATCH /api/sinistres/{id}/statut", middleware.RequireTresorier(sinistreHandler.Decider))
	mux.HandleFunc("POST /api/sinistres/{id}/paiement", middleware.RequireTresorier(sinistreHandler.Payer))
	mux.HandleFunc("GET /api/sinistres/types", middleware.RequireAuth(sinistreHandler.ListTypes))

	// Reminders
	mux.HandleFunc("POST /api/rappels/cotisations", middleware.RequireTresorier(rappelHandler.Envoyer))

	// Reconciliation
	mux.HandleFunc("GET /api/dashboard", middleware.RequireTresorier(dashboardHandler.Dashboard))
	mux.HandleFunc("GET /api/finances/resume", middleware.RequireTresorier(dashboardHandler.ResumeFinancier))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background dues reminders
	go runReminders(rappelService, cfg.ReminderInterval)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// runReminders periodically emails members with overdue dues
func runReminders(rappels *service.RappelService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		sent, err := rappels.EnvoyerRappels(ctx)
		cancel()
		if err != nil {
			log.Printf("Error sending dues reminders: %v", err)
			continue
		}
		if sent > 0 {
			log.Printf("Sent %d dues reminders", sent)
		}
	}
}
