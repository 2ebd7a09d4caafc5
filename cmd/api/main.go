package main

import (
	bookingshandler "hangarhub/internal/bookings/handler"
	bookingsrepo "hangarhub/internal/bookings/repository"
	bookingsservice "hangarhub/internal/bookings/service"
	bookingsvalidator "hangarhub/internal/bookings/validator"
	"hangarhub/internal/dashboard/cache"
	dashboardhandler "hangarhub/internal/dashboard/handler"
	dashboardrepo "hangarhub/internal/dashboard/repository"
	dashboardservice "hangarhub/internal/dashboard/service"
	hangarshandler "hangarhub/internal/hangars/handler"
	hangarsrepo "hangarhub/internal/hangars/repository"
	hangarsservice "hangarhub/internal/hangars/service"
	hangarsvalidator "hangarhub/internal/hangars/validator"
	maintenancehandler "hangarhub/internal/maintenance/handler"
	maintenancerepo "hangarhub/internal/maintenance/repository"
	maintenanceservice "hangarhub/internal/maintenance/service"
	maintenancevalidator "hangarhub/internal/maintenance/validator"
	reviewshandler "hangarhub/internal/reviews/handler"
	reviewsrepo "hangarhub/internal/reviews/repository"
	reviewsservice "hangarhub/internal/reviews/service"
	reviewsvalidator "hangarhub/internal/reviews/validator"
	usershandler "hangarhub/internal/users/handler"
	usersrepo "hangarhub/internal/users/repository"
	usersservice "hangarhub/internal/users/service"
	usersvalidator "hangarhub/internal/users/validator"
	"hangarhub/pkg/app"
	"hangarhub/pkg/config"
	"hangarhub/pkg/contracts"
	"hangarhub/pkg/kafka"
	"hangarhub/pkg/middleware"
)

func main() {
	cfg := config.Load("api")

	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	producer := initProducer(cfg)
	if producer != nil {
		defer producer.Close()
	}

	handlers := initHandlers(cfg, producer)

	application := app.NewApplication(cfg)
	application.SetApp(handlers...)
	application.Run()
}

// initProducer builds the booking event producer. Brokers are optional: with
// none configured the API runs fine, it just stops emitting lifecycle events.
func initProducer(cfg *config.Config) *kafka.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka not configured, booking events disabled")
		return nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	cfg.Log.Info("Kafka producer configured", "topic", cfg.KafkaBookingTopic)
	return producer
}

func initHandlers(cfg *config.Config, producer *kafka.Producer) []contracts.Handler {
	auth := middleware.NewAuthenticator(cfg.JWTSecret, cfg.Log)

	userRepo := usersrepo.NewMongoUserRepository(cfg)
	hangarRepo := hangarsrepo.NewMongoHangarRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	bookingLockRepo := bookingsrepo.NewBookingLockRepository(cfg)
	reviewRepo := reviewsrepo.NewMongoReviewRepository(cfg)
	serviceRepo := maintenancerepo.NewMongoServiceRepository(cfg)
	metricsRepo := dashboardrepo.NewMongoMetricsRepository(cfg)

	var events bookingsservice.EventSink
	if producer != nil {
		events = kafka.NewBookingEvents(producer)
	}

	userService := usersservice.NewUserService(userRepo, usersvalidator.NewUserValidator(), cfg)
	hangarService := hangarsservice.NewHangarService(
		hangarRepo,
		bookingRepo,
		userRepo,
		hangarsvalidator.NewHangarValidator(),
		cfg,
	)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		bookingLockRepo,
		hangarRepo,
		bookingsvalidator.NewBookingValidator(),
		events,
		cfg,
	)
	reviewService := reviewsservice.NewReviewService(
		reviewRepo,
		bookingRepo,
		hangarRepo,
		reviewsvalidator.NewReviewValidator(),
		cfg,
	)
	maintenanceService := maintenanceservice.NewMaintenanceService(serviceRepo, maintenancevalidator.NewServiceValidator(), cfg)

	metricsCache := cache.NewMetricsCache(cfg.Client.Redis, cfg.MetricsCacheTTL, cfg.Log)
	dashboardService := dashboardservice.NewDashboardService(metricsRepo, metricsCache, cfg)

	return []contracts.Handler{
		usershandler.NewUserHandler(userService, auth, cfg),
		hangarshandler.NewHangarHandler(hangarService, auth, cfg),
		bookingshandler.NewBookingHandler(bookingService, auth, cfg),
		reviewshandler.NewReviewHandler(reviewService, auth, cfg),
		maintenancehandler.NewServiceHandler(maintenanceService, auth, cfg),
		dashboardhandler.NewDashboardHandler(dashboardService, auth, cfg),
	}
}
