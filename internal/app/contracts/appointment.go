package contracts

import (
	"appointment-composite-service/internal/app/models"
	"appointment-composite-service/internal/pkg/dto/requests"
	"appointment-composite-service/internal/pkg/dto/responses"
	"context"
)

// AppointmentUsecase orchestrates one client-facing appointment operation. The
// credential is the raw bearer token; an empty credential is unauthenticated.
type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, credential string, request *requests.CreateAppointment) (*responses.Appointment, error)
	FindAppointmentByID(ctx context.Context, credential string, appointmentID string) (*responses.Appointment, error)
	CancelAppointment(ctx context.Context, credential string, appointmentID string) (*responses.Appointment, error)
}

// AppointmentClient calls the atomic appointment service, the system of record.
// Implementations never retry: a create or cancel that failed ambiguously is
// surfaced as-is rather than repeated.
type AppointmentClient interface {
	CreateAppointment(ctx context.Context, identity *models.Identity, request *requests.AtomicCreateAppointment) (*responses.Appointment, error)
	FindAppointmentByID(ctx context.Context, identity *models.Identity, appointmentID string) (*responses.Appointment, error)
	CancelAppointment(ctx context.Context, identity *models.Identity, appointmentID string) (*responses.Appointment, error)
}
