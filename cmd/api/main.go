package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/caredock/caredock-bookings/internal/handlers"
	"github.com/caredock/caredock-bookings/internal/kvstore"
	"github.com/caredock/caredock-bookings/internal/payments"
	"github.com/caredock/caredock-bookings/internal/repo/postgres"
	"github.com/caredock/caredock-bookings/internal/service"
	"github.com/caredock/caredock-bookings/pkg/config"
	"github.com/caredock/caredock-bookings/pkg/database"
	"github.com/caredock/caredock-bookings/pkg/events"
	"github.com/caredock/caredock-bookings/pkg/logger"
	mw "github.com/caredock/caredock-bookings/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	kv, err := kvstore.NewRedisStore(cfg.Redis)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	doctorRepo := postgres.NewDoctorRepository(pool)
	availabilityRepo := postgres.NewAvailabilityRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)

	var charger payments.Charger
	if cfg.Stripe.SecretKey != "" {
		charger = payments.NewStripeCharger(cfg.Stripe)
	}

	availabilityService := service.NewAvailabilityService(availabilityRepo)
	bookingService := service.NewBookingService(bookingRepo, doctorRepo, charger, eventBus)
	authService := service.NewAuthService(patientRepo, cfg)

	h := handlers.New(availabilityService, bookingService, authService, cfg)

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("bookings-api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Route("/doctors/{id}", func(r chi.Router) {
		r.Get("/availability", h.GetDoctorAvailability)
		r.Get("/unavailable-dates", h.GetDoctorUnavailableDates)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(h.RequirePatient)
		r.With(mw.Idempotency(kv)).Post("/", h.CreateBooking)
		r.Get("/", h.ListBookings)
		r.Get("/{id}", h.GetBooking)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down bookings API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Bookings API shutdown error", "error", err)
		}
	}()

	logger.Info("Starting bookings API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Bookings API error", "error", err)
		os.Exit(1)
	}
}
