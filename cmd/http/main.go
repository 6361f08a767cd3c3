package main

import (
	"appointment-composite-service/internal/app/config"
	"appointment-composite-service/internal/app/contracts"
	"appointment-composite-service/internal/app/delivery/http/controllers"
	"appointment-composite-service/internal/app/delivery/http/middlewares"
	"appointment-composite-service/internal/app/delivery/http/routers"
	"appointment-composite-service/internal/app/drivers/database"
	"appointment-composite-service/internal/app/drivers/logger"
	"appointment-composite-service/internal/app/drivers/messaging"
	atomicAppointments "appointment-composite-service/internal/app/services/atomic/appointments"
	"appointment-composite-service/internal/app/services/core/appointments"
	"appointment-composite-service/internal/app/services/core/auth"
	"appointment-composite-service/internal/app/services/shared/events"
	"appointment-composite-service/internal/app/services/shared/redis"
	"appointment-composite-service/internal/pkg/utils"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	err := bootstrapingTheApp(bootstrap)
	if err != nil {
		log.Fatalf("Error while bootstraping the app: %v", err)
	}

	server := &http.Server{
		Addr:              internalConfig.App.Port,
		Handler:           chiRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Server started", zap.String("port", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		utils.Seconds(internalConfig.App.ShutdownTimeoutInSeconds, 10*time.Second),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Error while closing resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	internalConfig := bootstrap.InternalConfig
	driverConfig := bootstrap.DriverConfig

	// Redis, optional session cache
	var redisRepository contracts.RedisRepository
	redisClient := database.NewRedisClient(driverConfig)
	if redisClient != nil {
		redisRepository = redis.NewRedisRepository(redisClient)
		bootstrap.Closers = append(bootstrap.Closers, config.NamedCloser{Name: "Redis", Close: redisClient.Close})
	}

	// Auth
	tokenVerifier, err := auth.NewTokenVerifier(internalConfig.Auth, nil, redisRepository, bootstrap.Logger)
	if err != nil {
		return err
	}
	if jwksVerifier, ok := tokenVerifier.(*auth.JWKSVerifier); ok {
		authTimeout := utils.Seconds(internalConfig.Auth.RequestTimeoutInSeconds, 5*time.Second)
		prefetchCtx, cancel := context.WithTimeout(context.Background(), authTimeout)
		if err := jwksVerifier.Prefetch(prefetchCtx); err != nil {
			bootstrap.Logger.Warn("JWKS prefetch failed, keys will be fetched on first request", zap.Error(err))
		}
		cancel()

		if internalConfig.Auth.JWKSRefreshCronSpec != "" {
			keySetRefresher := auth.NewKeySetRefresher(jwksVerifier, internalConfig.Auth.JWKSRefreshCronSpec, authTimeout, bootstrap.Logger)
			keySetRefresher.Start(context.Background())
			bootstrap.Closers = append([]config.NamedCloser{{Name: "JWKS refresher", Close: keySetRefresher.Stop}}, bootstrap.Closers...)
		}
	}

	// Atomic appointment service
	appointmentClient := atomicAppointments.NewAppointmentClient(
		internalConfig.AppointmentService.BaseUrl,
		utils.Seconds(internalConfig.AppointmentService.RequestTimeoutInSeconds, 10*time.Second),
		bootstrap.Logger,
	)

	// Events
	publishTimeout := utils.Seconds(internalConfig.Event.PublishTimeoutInSeconds, 5*time.Second)
	eventPublisher := events.NewEventPublisher(
		events.NewAMQPDialer(messaging.NewRabbitMQDialer(driverConfig, publishTimeout)),
		internalConfig.Event.Exchange,
		internalConfig.Event.AppID,
		publishTimeout,
		bootstrap.Logger,
	)
	bootstrap.Closers = append([]config.NamedCloser{{Name: "RabbitMQ", Close: eventPublisher.Close}}, bootstrap.Closers...)

	// Appointments
	appointmentUsecase := appointments.NewAppointmentUsecase(tokenVerifier, appointmentClient, eventPublisher, bootstrap.Logger)
	appointmentController := controllers.NewAppointmentController(
		bootstrap.Logger,
		appointmentUsecase,
		utils.Seconds(internalConfig.App.RequestTimeoutInSeconds, 30*time.Second),
	)
	healthController := controllers.NewHealthController(internalConfig.App)

	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, internalConfig)

	routers.SetupRoutes(bootstrap.Router, bootstrap.Logger, internalConfig, middlewares, appointmentController, healthController)
	return nil
}
