package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"havenly/config"
	"havenly/cron"
	"havenly/database"
	"havenly/database/repository"
	"havenly/handlers"
	"havenly/middleware"
	"havenly/routes"
	"havenly/services/admin"
	"havenly/services/availability"
	"havenly/services/booking"
	"havenly/services/events"
	"havenly/services/geocoding"
	"havenly/services/notification"
	"havenly/services/payment"
	"havenly/services/property"
	"havenly/services/review"
	"havenly/services/storage"
	"havenly/services/user"
	"havenly/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if config.AppConfig.JWTSecret == "" {
			logger.Fatal("main: JWT_SECRET must be set in production")
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.InitDB()
	if err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	authCache := utils.InitAuthCache()
	tokens := utils.NewRedisTokenStore(authCache)
	utils.StartHealthMonitor(ctx, authCache, database.MongoClient)

	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	userRepo := repository.NewMongoUserRepository(db)
	propertyRepo := repository.NewMongoPropertyRepository(db)
	bookingRepo := repository.NewMongoBookingRepository(db)
	reviewRepo := repository.NewMongoReviewRepository(db)
	blockedRepo := repository.NewMongoBlockedDateRepository(db)

	// integrations.
	var mailer notification.Mailer = notification.LogMailer{}
	if config.AppConfig.SendGridAPIKey != "" {
		mailer = notification.NewSendGridMailer(config.AppConfig.SendGridAPIKey, config.AppConfig.MailFromName, config.AppConfig.MailFromEmail)
	}

	var notifier notification.NotificationService = &notification.DirectNotificationService{Mailer: mailer}
	var queueClient *asynq.Client
	if config.AppConfig.WorkerEnabled {
		queueClient = asynq.NewClient(cron.RedisOpt())
		queued, err := notification.NewQueueNotificationService(queueClient)
		if err != nil {
			logger.Fatal("main: failed to initialize notification service", zap.Error(err))
		}
		notifier = queued
	}

	imageStorage := storage.NewFromConfig(ctx)
	geocoder := geocoding.NewNominatimService(config.AppConfig.NominatimURL, config.AppConfig.NominatimUserAgent, nil)
	defer geocoder.Stop()
	publisher := events.NewPublisher(config.AppConfig.AMQPURL, config.AppConfig.AMQPQueue)
	defer publisher.Close()
	payments := payment.NewStripeGateway()
	checker := availability.NewChecker(bookingRepo, blockedRepo)

	// services.
	userService := user.NewUserService(userRepo, propertyRepo, tokens, notifier,
		time.Duration(config.AppConfig.JWTTTLHours)*time.Hour)

	propertyService := &property.DefaultPropertyService{
		Repo:         propertyRepo,
		Blocked:      blockedRepo,
		Reviews:      reviewRepo,
		Users:        userRepo,
		Availability: checker,
		Storage:      imageStorage,
		Geocoder:     geocoder,
		Events:       publisher,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:         bookingRepo,
		Properties:   propertyRepo,
		Users:        userRepo,
		Availability: checker,
		Notifier:     notifier,
		Payments:     payments,
	}

	reviewService := &review.DefaultReviewService{
		Repo:       reviewRepo,
		Bookings:   bookingRepo,
		Properties: propertyRepo,
	}

	adminService := &admin.DefaultAdminService{
		Users:      userRepo,
		Properties: propertyRepo,
		Bookings:   bookingRepo,
		Reviews:    reviewRepo,
		Notifier:   notifier,
		Events:     publisher,
	}

	var worker *cron.Worker
	if config.AppConfig.WorkerEnabled {
		worker = cron.NewWorker(mailer, bookingService)
		worker.Start(ctx)
	}

	// rate limiting.
	apiLimiter := middleware.NewRateLimiterStore(config.AppConfig.MaxRequestsPerMin, 10*time.Minute)
	authLimiter := middleware.NewRateLimiterStore(config.AppConfig.AuthRequestsPerMin, 10*time.Minute)
	apiLimiter.StartJanitor(ctx, time.Minute)
	authLimiter.StartJanitor(ctx, time.Minute)

	handlerBundle := handlers.NewHandlerBundle(handlers.Services{
		Users:      userService,
		Properties: propertyService,
		Bookings:   bookingService,
		Reviews:    reviewService,
		Admin:      adminService,
		Geocoder:   geocoder,
	}, userRepo, tokens, authLimiter, apiLimiter)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.MaxMultipartMemory = 32 << 20

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queueClient != nil {
		queueClient.Close()
	}
	if err := authCache.Close(); err != nil {
		logger.Warn("main: failed to close Redis client", zap.Error(err))
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
