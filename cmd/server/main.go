// Package main is the entry point for the FixIt Now backend server.
// It provides a REST API for citizen issue reporting: complaint intake
// with AI-assisted categorization and duplicate detection, admin triage
// with reporter notifications, district-scoped visibility, and map and
// analytics data for the admin dashboard.
//
// All external collaborators (Postgres, Redis, Gemini, Nominatim, ImgBB)
// are constructed here and injected; nothing holds package-level state.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fixitnow/fixitnow-server/internal/ai"
	"github.com/fixitnow/fixitnow-server/internal/config"
	"github.com/fixitnow/fixitnow-server/internal/database"
	"github.com/fixitnow/fixitnow-server/internal/geocode"
	"github.com/fixitnow/fixitnow-server/internal/handlers"
	"github.com/fixitnow/fixitnow-server/internal/imghost"
	"github.com/fixitnow/fixitnow-server/internal/middleware"
	"github.com/fixitnow/fixitnow-server/internal/services"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	sugar.Infow("Starting FixIt Now Server",
		"port", cfg.Port,
		"env", cfg.Environment,
		"ai_enabled", cfg.AIEnabled(),
		"known_districts", len(cfg.KnownDistricts),
	)

	// Initialize database connection pool
	db, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.InitSchema(context.Background(), db); err != nil {
		sugar.Fatalf("Failed to initialize schema: %v", err)
	}

	// Redis is optional; without it geocode lookups go uncached.
	var cache *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			sugar.Fatalf("Invalid REDIS_URL: %v", err)
		}
		cache = redis.NewClient(opts)
		defer cache.Close()
	}

	// Gemini is optional; without it classification, duplicate detection
	// and the chatbot are disabled and intake proceeds with fallbacks.
	var intel *ai.Client
	if cfg.AIEnabled() {
		intel, err = ai.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, sugar)
		if err != nil {
			sugar.Fatalf("Failed to create Gemini client: %v", err)
		}
	}

	geocoder := geocode.New(cfg.NominatimBaseURL, cache, sugar)

	var images *imghost.Client
	if cfg.ImgBBAPIKey != "" {
		images = imghost.New(cfg.ImgBBAPIKey)
	}

	// Initialize services
	complaintSvc := services.NewComplaintService(db, cfg.DistrictUnknownFallback, sugar)
	notificationSvc := services.NewNotificationService(db, sugar)
	userSvc := services.NewUserService(db, sugar)
	authSvc := services.NewAuthService(userSvc, cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour, sugar)
	triageSvc := services.NewTriageService(complaintSvc, notificationSvc, sugar)

	// A nil interface must stay nil when the capability is unconfigured.
	var intakeIntel services.IssueIntelligence
	if intel != nil {
		intakeIntel = intel
	}
	var intakeImages services.ImageHost
	if images != nil {
		intakeImages = images
	}
	intakeSvc := services.NewIntakeService(complaintSvc, intakeIntel, geocoder, intakeImages, cfg.KnownDistricts, sugar)

	// Initialize handlers
	complaintHandler := handlers.NewComplaintHandler(intakeSvc, triageSvc, complaintSvc, sugar)
	authHandler := handlers.NewAuthHandler(authSvc, userSvc, sugar)
	notificationHandler := handlers.NewNotificationHandler(notificationSvc, sugar)
	chatbotHandler := handlers.NewChatbotHandler(intel, sugar)
	healthHandler := handlers.NewHealthHandler(db, sugar)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecureHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limiting
	r.Use(middleware.RateLimit(cfg.RateLimitRPM))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", healthHandler.Check)
		r.Get("/health/ready", healthHandler.Ready)

		// Authentication (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/admin/login", authHandler.AdminLogin)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(cfg.JWTSecret))
				r.Get("/me", authHandler.Me)
			})
		})

		// Complaint endpoints
		r.Route("/complaints", func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTSecret))
			r.Post("/", complaintHandler.Submit) // Intake workflow
			r.Get("/", complaintHandler.List)    // Role-scoped visibility
			r.Get("/{id}", complaintHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Put("/{id}/status", complaintHandler.UpdateStatus) // Triage workflow
			})
		})

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTSecret))
			r.Get("/", notificationHandler.List)
			r.Post("/read", notificationHandler.MarkRead)
		})

		// Chatbot free-text extraction
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTSecret))
			r.Post("/chatbot/extract", chatbotHandler.Extract)
		})

		// Map and analytics (admin surfaces)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTSecret))
			r.Use(middleware.RequireAdmin())
			r.Get("/map/heatmap", complaintHandler.Heatmap)
			r.Get("/analytics/trends", complaintHandler.Trends)
			r.Get("/analytics/categories", complaintHandler.Categories)
			r.Get("/analytics/districts", complaintHandler.Districts)
		})
	})

	// Serve static files (frontend build)
	r.Handle("/*", http.FileServer(http.Dir("../dist")))

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}
