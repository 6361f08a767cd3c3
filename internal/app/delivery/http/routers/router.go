package routers

import (
	"appointment-composite-service/internal/app/config"
	"appointment-composite-service/internal/app/delivery/http/controllers"
	"appointment-composite-service/internal/app/delivery/http/middlewares"
	"appointment-composite-service/internal/pkg/constvars"
	"appointment-composite-service/internal/pkg/utils"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func SetupRoutes(
	router *chi.Mux,
	logger *zap.Logger,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	appointmentController *controllers.AppointmentController,
	healthController *controllers.HealthController,
) {
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(logger))

	corsOptions := cors.Options{
		AllowedOrigins:   utils.SplitCSV(internalConfig.App.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constvars.HeaderXRequestID},
		ExposedHeaders:   []string{constvars.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(middlewares.CreateRateLimiter())
	router.Use(middlewares.ErrorHandler)

	router.Get("/healthz", healthController.Liveness)

	router.Route(fmt.Sprintf("/%s", constvars.ResourceCompositeAppointments), func(r chi.Router) {
		attachAppointmentRoutes(r, middlewares, appointmentController)
	})
}
