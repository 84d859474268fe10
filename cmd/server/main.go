package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/dentacore/practice-engine/internal/config"
	"github.com/dentacore/practice-engine/internal/handler"
	"github.com/dentacore/practice-engine/internal/repository"
	"github.com/dentacore/practice-engine/internal/service"
	"github.com/dentacore/practice-engine/pkg/logs"
	"github.com/dentacore/practice-engine/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logs.New(cfg)
	slog.SetDefault(logger)

	// Open the practice database, creating the schema on first run
	db, err := repository.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Seed ID allocators from the highest persisted identifiers
	allocators, err := repository.SeedAllocators(context.Background(), db)
	if err != nil {
		logger.Error("failed to seed id allocators", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Repositories
	patientRepo := repository.NewPatientRepository(db, allocators.Patients)
	procedureRepo := repository.NewProcedureRepository(db, allocators.Procedures)
	paymentRepo := repository.NewPaymentRepository(db, allocators.Payments)

	// Services
	practiceService := service.NewPracticeService(patientRepo, procedureRepo, paymentRepo, redisClient, cfg)
	reportService := service.NewReportService(patientRepo, redisClient, cfg)

	// Handlers
	patientHandler := handler.NewPatientHandler(practiceService)
	procedureHandler := handler.NewProcedureHandler(practiceService)
	paymentHandler := handler.NewPaymentHandler(practiceService)
	reportHandler := handler.NewReportHandler(reportService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(logger, patientHandler, procedureHandler, paymentHandler, reportHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}

func setupRoutes(
	logger *slog.Logger,
	patientHandler *handler.PatientHandler,
	procedureHandler *handler.ProcedureHandler,
	paymentHandler *handler.PaymentHandler,
	reportHandler *handler.ReportHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()

	router.Use(response.RequestIDMiddleware)
	router.Use(response.LoggingMiddleware(logger))
	router.Use(response.CORSMiddleware)

	// Health checks
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/patients", patientHandler.Create).Methods("POST")
	api.HandleFunc("/patients", patientHandler.List).Methods("GET")
	api.HandleFunc("/patients/{patientId}", patientHandler.Get).Methods("GET")
	api.HandleFunc("/patients/{patientId}", patientHandler.Update).Methods("PUT")
	api.HandleFunc("/patients/{patientId}", patientHandler.Delete).Methods("DELETE")

	api.HandleFunc("/patients/{patientId}/procedures/{procedureId}", patientHandler.AssignProcedure).Methods("POST")
	api.HandleFunc("/patients/{patientId}/procedures/{procedureId}", patientHandler.UnassignProcedure).Methods("DELETE")

	api.HandleFunc("/patients/{patientId}/payments", paymentHandler.Create).Methods("POST")
	api.HandleFunc("/payments/{paymentId}", paymentHandler.Update).Methods("PUT")
	api.HandleFunc("/payments/{paymentId}", paymentHandler.Delete).Methods("DELETE")

	api.HandleFunc("/procedures", procedureHandler.Create).Methods("POST")
	api.HandleFunc("/procedures", procedureHandler.List).Methods("GET")
	api.HandleFunc("/procedures/{procedureId}", procedureHandler.Get).Methods("GET")
	api.HandleFunc("/procedures/{procedureId}", procedureHandler.Update).Methods("PUT")
	api.HandleFunc("/procedures/{procedureId}", procedureHandler.Delete).Methods("DELETE")

	api.HandleFunc("/reports/full", reportHandler.Full).Methods("GET")
	api.HandleFunc("/reports/overdue", reportHandler.Overdue).Methods("GET")

	return router
}
