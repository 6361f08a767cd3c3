package routers

import (
	"appointment-composite-service/internal/app/delivery/http/controllers"
	"appointment-composite-service/internal/app/delivery/http/middlewares"
	"appointment-composite-service/internal/pkg/constvars"
	"fmt"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, appointmentController *controllers.AppointmentController) {
	appointmentIDPath := fmt.Sprintf("/{%s}", constvars.URLParamAppointmentID)

	router.With(middlewares.BodyLimit).Post("/", appointmentController.CreateAppointment)
	router.Get(appointmentIDPath, appointmentController.FindAppointmentByID)
	router.Delete(appointmentIDPath, appointmentController.CancelAppointment)
}
