package atomic_appointments

import (
	"appointment-composite-service/internal/app/contracts"
	"appointment-composite-service/internal/app/models"
	"appointment-composite-service/internal/pkg/constvars"
	"appointment-composite-service/internal/pkg/dto/requests"
	"appointment-composite-service/internal/pkg/dto/responses"
	"appointment-composite-service/internal/pkg/exceptions"
	"appointment-composite-service/internal/pkg/utils"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// maxErrorBodyBytes caps how much of a failed response is read to build the message.
const maxErrorBodyBytes = 64 << 10

var errorMessageFields = []string{"error", "message", "detail"}

type appointmentClient struct {
	BaseUrl    string
	HTTPClient *http.Client
	Log        *zap.Logger
}

// NewAppointmentClient builds a client for the atomic appointment service. Every call
// is a single attempt bounded by timeout.
func NewAppointmentClient(baseUrl string, timeout time.Duration, logger *zap.Logger) contracts.AppointmentClient {
	return &appointmentClient{
		BaseUrl:    strings.TrimRight(baseUrl, "/") + "/" + constvars.ResourceAppointments,
		HTTPClient: &http.Client{Timeout: timeout},
		Log:        logger,
	}
}

func (c *appointmentClient) CreateAppointment(ctx context.Context, identity *models.Identity, request *requests.AtomicCreateAppointment) (*responses.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("appointmentClient.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	requestJSON, err := json.Marshal(request)
	if err != nil {
		c.Log.Error("appointmentClient.CreateAppointment error marshaling request to JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	return c.do(ctx, "appointmentClient.CreateAppointment", constvars.MethodPost, c.BaseUrl, identity, requestJSON)
}

func (c *appointmentClient) FindAppointmentByID(ctx context.Context, identity *models.Identity, appointmentID string) (*responses.Appointment, error) {
	c.Log.Info("appointmentClient.FindAppointmentByID called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return c.do(ctx, "appointmentClient.FindAppointmentByID", constvars.MethodGet, c.appointmentUrl(appointmentID), identity, nil)
}

func (c *appointmentClient) CancelAppointment(ctx context.Context, identity *models.Identity, appointmentID string) (*responses.Appointment, error) {
	c.Log.Info("appointmentClient.CancelAppointment called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return c.do(ctx, "appointmentClient.CancelAppointment", constvars.MethodDelete, c.appointmentUrl(appointmentID), identity, nil)
}

func (c *appointmentClient) appointmentUrl(appointmentID string) string {
	return c.BaseUrl + "/" + url.PathEscape(appointmentID)
}

// do sends exactly one request. There is no retry: create and cancel are not
// idempotent at the atomic service.
func (c *appointmentClient) do(ctx context.Context, operation, method, target string, identity *models.Identity, body []byte) (*responses.Appointment, error) {
	requestID := utils.GetRequestID(ctx)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		c.Log.Error(operation+" error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if body != nil {
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	}
	if identity != nil && identity.Credential != "" {
		req.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+identity.Credential)
	}
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error(operation+" error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingUrlKey, target),
			zap.Error(err),
		)
		return nil, exceptions.ErrDownstreamUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := errorMessage(resp)
		c.Log.Info(operation+" appointment service rejected request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingDownstreamCodeKey, resp.StatusCode),
			zap.String(constvars.LoggingResponseKey, message),
		)
		return nil, exceptions.ErrDownstream(resp.StatusCode, message)
	}

	var appointment responses.Appointment
	if err := json.NewDecoder(resp.Body).Decode(&appointment); err != nil {
		c.Log.Error(operation+" error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDownstreamDecodeResponse(err)
	}
	if appointment.ID == "" {
		c.Log.Error(operation+" response has no appointment id",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil, exceptions.ErrDownstreamDecodeResponse(nil)
	}

	c.Log.Info(operation+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
	)
	return &appointment, nil
}

// errorMessage prefers the error, message or detail string of a JSON body, then the
// raw body, then the status text.
func errorMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	raw = bytes.TrimSpace(raw)

	switch {
	case len(raw) == 0:
	case gjson.ValidBytes(raw):
		body := gjson.ParseBytes(raw)
		for _, field := range errorMessageFields {
			if candidate := body.Get(field); candidate.Type == gjson.String {
				if message := strings.TrimSpace(candidate.Str); message != "" {
					return message
				}
			}
		}
	default:
		return string(raw)
	}

	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return constvars.ResponseUnknown
}
