package appointments

import (
	"appointment-composite-service/internal/app/contracts"
	"appointment-composite-service/internal/app/models"
	"appointment-composite-service/internal/pkg/constvars"
	"appointment-composite-service/internal/pkg/dto/events"
	"appointment-composite-service/internal/pkg/dto/requests"
	"appointment-composite-service/internal/pkg/dto/responses"
	"appointment-composite-service/internal/pkg/exceptions"
	"appointment-composite-service/internal/pkg/utils"
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

type appointmentUsecase struct {
	TokenVerifier     contracts.TokenVerifier
	AppointmentClient contracts.AppointmentClient
	EventPublisher    contracts.EventPublisher
	Log               *zap.Logger
}

func NewAppointmentUsecase(
	tokenVerifier contracts.TokenVerifier,
	appointmentClient contracts.AppointmentClient,
	eventPublisher contracts.EventPublisher,
	logger *zap.Logger,
) contracts.AppointmentUsecase {
	return &appointmentUsecase{
		TokenVerifier:     tokenVerifier,
		AppointmentClient: appointmentClient,
		EventPublisher:    eventPublisher,
		Log:               logger,
	}
}

func (uc *appointmentUsecase) CreateAppointment(ctx context.Context, credential string, request *requests.CreateAppointment) (*responses.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	identity, err := uc.authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}

	booking, err := ValidateBooking(request)
	if err != nil {
		uc.Log.Info("appointmentUsecase.CreateAppointment booking rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingValidationRuleKey, clientMessage(err)),
		)
		return nil, err
	}

	appointment, err := uc.AppointmentClient.CreateAppointment(ctx, identity, toAtomicRequest(booking))
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateAppointment error creating appointment in appointment service",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.publishBestEffort(ctx, constvars.EventAppointmentBooked, events.AppointmentBooked{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		StartTime:     appointment.StartTime,
		Session:       appointment.Session,
	})

	uc.Log.Info("appointmentUsecase.CreateAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
	)
	return appointment, nil
}

func (uc *appointmentUsecase) FindAppointmentByID(ctx context.Context, credential string, appointmentID string) (*responses.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.FindAppointmentByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	identity, err := uc.authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(appointmentID) == "" {
		return nil, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamAppointmentID)
	}

	appointment, err := uc.AppointmentClient.FindAppointmentByID(ctx, identity, appointmentID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.FindAppointmentByID error fetching appointment from appointment service",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("appointmentUsecase.FindAppointmentByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
	)
	return appointment, nil
}

func (uc *appointmentUsecase) CancelAppointment(ctx context.Context, credential string, appointmentID string) (*responses.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.CancelAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	identity, err := uc.authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(appointmentID) == "" {
		return nil, exceptions.ErrURLParamIDValidation(nil, constvars.URLParamAppointmentID)
	}

	appointment, err := uc.AppointmentClient.CancelAppointment(ctx, identity, appointmentID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.CancelAppointment error cancelling appointment in appointment service",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.publishBestEffort(ctx, constvars.EventAppointmentCancelled, events.AppointmentCancelled{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
	})

	uc.Log.Info("appointmentUsecase.CancelAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
	)
	return appointment, nil
}

func (uc *appointmentUsecase) authenticate(ctx context.Context, credential string) (*models.Identity, error) {
	requestID := utils.GetRequestID(ctx)
	if strings.TrimSpace(credential) == "" {
		uc.Log.Info("appointmentUsecase.authenticate credential missing",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil, exceptions.ErrTokenMissing(nil)
	}

	identity, err := uc.TokenVerifier.Verify(ctx, credential)
	if err != nil {
		uc.Log.Info("appointmentUsecase.authenticate credential rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrTokenInvalid(err)
	}

	uc.Log.Info("appointmentUsecase.authenticate credential verified",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubjectIDKey, identity.SubjectID),
	)
	return identity, nil
}

// publishBestEffort emits an event after the atomic service has committed the change.
// A publish failure is logged and dropped: the appointment already exists (or is
// already cancelled) and the caller gets the success response regardless. The
// request context's cancellation is detached so a client hanging up right after the
// commit does not also lose the event; the publisher bounds the call with its own
// timeout.
func (uc *appointmentUsecase) publishBestEffort(ctx context.Context, routingKey string, payload interface{}) {
	if uc.EventPublisher == nil {
		return
	}
	err := uc.EventPublisher.Publish(context.WithoutCancel(ctx), routingKey, payload)
	if err != nil {
		uc.Log.Warn("appointmentUsecase.publishBestEffort event dropped",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingRoutingKey, routingKey),
			zap.Error(err),
		)
	}
}

func clientMessage(err error) string {
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		return customErr.ClientMessage
	}
	return err.Error()
}
