package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicbook/config"
	"clinicbook/cron"
	"clinicbook/database"
	authorizationRepo "clinicbook/database/repository/authorization"
	patientRepoPkg "clinicbook/database/repository/patient"
	scheduleRepoPkg "clinicbook/database/repository/schedule"
	"clinicbook/handlers"
	"clinicbook/middleware"
	"clinicbook/routes"
	"clinicbook/services/availability"
	"clinicbook/services/notification"
	"clinicbook/services/tasks"
	"clinicbook/services/wizard"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// repositories.
	scheduleRepo := scheduleRepoPkg.NewMongoScheduleRepo()
	patientRepo := patientRepoPkg.NewMongoPatientRepo()
	authRepo := authorizationRepo.NewMongoAuthorizationRepo()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := scheduleRepo.EnsureIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure schedule indexes: %v", err)
	}
	cancel()

	// services.
	availabilityService := &availability.DefaultAvailabilityService{
		Repo: scheduleRepo,
		Cache: availability.NewRedisResultCache(
			utils.GetCacheClient(),
			config.AppConfig.AvailabilityCacheTTL,
		),
		DefaultDuration: config.AppConfig.DefaultSlotDuration,
	}

	notificationService, err := notification.NewDefaultNotificationService(patientRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()
	reminderScheduler := tasks.NewAsynqReminderScheduler(asynqClient)

	wizardService := &wizard.DefaultWizardService{
		Store: wizard.NewRedisSessionStore(
			utils.GetSessionCacheClient(),
			config.AppConfig.WizardSessionTTL,
		),
		Availability: availabilityService,
		Patients:     patientRepo,
		Schedule:     scheduleRepo,
		Auths:        authRepo,
		Notifier:     notificationService,
		Reminders:    reminderScheduler,
	}

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	wizardHandler := handlers.NewWizardHandler(wizardService)
	patientHandler := handlers.NewPatientHandler(patientRepo)
	scheduleHandler := handlers.NewScheduleHandler(scheduleRepo)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Availability endpoints.
		GetAvailabilityHandler: availabilityHandler.GetAvailabilityHandler,
		NextAvailableHandler:   availabilityHandler.NextAvailableHandler,
		ValidateSlotHandler:    availabilityHandler.ValidateSlotHandler,

		// Wizard endpoints.
		StartSessionHandler:     wizardHandler.StartSessionHandler,
		GetSessionHandler:       wizardHandler.GetSessionHandler,
		NextStepHandler:         wizardHandler.NextStepHandler,
		PrevStepHandler:         wizardHandler.PrevStepHandler,
		SelectPatientHandler:    wizardHandler.SelectPatientHandler,
		SetAuthorizationHandler: wizardHandler.SetAuthorizationHandler,
		SelectTherapistHandler:  wizardHandler.SelectTherapistHandler,
		AddSessionHandler:       wizardHandler.AddSessionHandler,
		RemoveSessionHandler:    wizardHandler.RemoveSessionHandler,
		SubmitHandler:           wizardHandler.SubmitHandler,
		CancelSessionHandler:    wizardHandler.CancelSessionHandler,

		// Patient directory endpoints.
		SearchPatientsHandler: patientHandler.SearchPatientsHandler,
		GetPatientByIDHandler: patientHandler.GetPatientByIDHandler,

		// Schedule management endpoints.
		SetupScheduleHandler: scheduleHandler.SetupScheduleHandler,
		GetScheduleHandler:   scheduleHandler.GetScheduleHandler,
		DeleteSlotHandler:    scheduleHandler.DeleteSlotHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background workers and health monitoring.
	cron.InitReminderWorker(notificationService)
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetSessionCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
