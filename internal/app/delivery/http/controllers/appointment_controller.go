package controllers

import (
	"appointment-composite-service/internal/app/contracts"
	"appointment-composite-service/internal/pkg/constvars"
	"appointment-composite-service/internal/pkg/dto/requests"
	"appointment-composite-service/internal/pkg/exceptions"
	"appointment-composite-service/internal/pkg/utils"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AppointmentController struct {
	Log                *zap.Logger
	AppointmentUsecase contracts.AppointmentUsecase
	RequestTimeout     time.Duration
}

func NewAppointmentController(logger *zap.Logger, appointmentUsecase contracts.AppointmentUsecase, requestTimeout time.Duration) *AppointmentController {
	return &AppointmentController{
		Log:                logger,
		AppointmentUsecase: appointmentUsecase,
		RequestTimeout:     requestTimeout,
	}
}

func (ctrl *AppointmentController) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AppointmentController.CreateAppointment requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("AppointmentController.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID))

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		ctrl.Log.Error("AppointmentController.CreateAppointment error reading request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))

		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrRequestBodyTooLarge(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	request := new(requests.CreateAppointment)
	err = json.Unmarshal(bodyBytes, request)
	if err != nil {
		ctrl.Log.Error("AppointmentController.CreateAppointment error parsing request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.AppointmentUsecase.CreateAppointment(ctx, utils.ExtractBearerToken(r), request)
	if err != nil {
		ctrl.writeUsecaseError(w, "AppointmentUsecase.CreateAppointment", requestID, err)
		return
	}

	ctrl.Log.Info("AppointmentController.CreateAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, response.ID))
	utils.BuildSuccessResponse(w, constvars.StatusCreated, response)
}

func (ctrl *AppointmentController) FindAppointmentByID(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AppointmentController.FindAppointmentByID requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	appointmentID := appointmentIDParam(r)
	ctrl.Log.Info("AppointmentController.FindAppointmentByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID))

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.AppointmentUsecase.FindAppointmentByID(ctx, utils.ExtractBearerToken(r), appointmentID)
	if err != nil {
		ctrl.writeUsecaseError(w, "AppointmentUsecase.FindAppointmentByID", requestID, err)
		return
	}

	ctrl.Log.Info("AppointmentController.FindAppointmentByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID))
	utils.BuildSuccessResponse(w, constvars.StatusOK, response)
}

func (ctrl *AppointmentController) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AppointmentController.CancelAppointment requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	appointmentID := appointmentIDParam(r)
	ctrl.Log.Info("AppointmentController.CancelAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID))

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.AppointmentUsecase.CancelAppointment(ctx, utils.ExtractBearerToken(r), appointmentID)
	if err != nil {
		ctrl.writeUsecaseError(w, "AppointmentUsecase.CancelAppointment", requestID, err)
		return
	}

	ctrl.Log.Info("AppointmentController.CancelAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID))
	utils.BuildSuccessResponse(w, constvars.StatusOK, response)
}

// chi matches on the raw path, so an id containing escaped characters arrives escaped.
func appointmentIDParam(r *http.Request) string {
	appointmentID := chi.URLParam(r, constvars.URLParamAppointmentID)
	if unescaped, err := url.PathUnescape(appointmentID); err == nil {
		return unescaped
	}
	return appointmentID
}

// requestContext keeps the client's cancellation and adds the server-side deadline.
func (ctrl *AppointmentController) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if ctrl.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), ctrl.RequestTimeout)
}

func (ctrl *AppointmentController) writeUsecaseError(w http.ResponseWriter, operation, requestID string, err error) {
	ctrl.Log.Error("Error in "+operation,
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err))

	var customErr *exceptions.CustomError
	if !errors.As(err, &customErr) && errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(ctrl.Log, w, err)
}
