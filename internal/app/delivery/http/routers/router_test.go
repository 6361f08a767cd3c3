package routers

import (
	"appointment-composite-service/internal/app/config"
	"appointment-composite-service/internal/app/delivery/http/controllers"
	"appointment-composite-service/internal/app/delivery/http/middlewares"
	"appointment-composite-service/internal/pkg/dto/requests"
	"appointment-composite-service/internal/pkg/dto/responses"
	"appointment-composite-service/internal/pkg/exceptions"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockAppointmentUsecase struct {
	mock.Mock
}

func (m *MockAppointmentUsecase) CreateAppointment(ctx context.Context, credential string, request *requests.CreateAppointment) (*responses.Appointment, error) {
	args := m.Called(ctx, credential, request)
	appointment, _ := args.Get(0).(*responses.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentUsecase) FindAppointmentByID(ctx context.Context, credential string, appointmentID string) (*responses.Appointment, error) {
	args := m.Called(ctx, credential, appointmentID)
	appointment, _ := args.Get(0).(*responses.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentUsecase) CancelAppointment(ctx context.Context, credential string, appointmentID string) (*responses.Appointment, error) {
	args := m.Called(ctx, credential, appointmentID)
	appointment, _ := args.Get(0).(*responses.Appointment)
	return appointment, args.Error(1)
}

func setupTestRouter(usecase *MockAppointmentUsecase) *chi.Mux {
	logger := zap.NewNop()
	internalConfig := &config.InternalConfig{
		App: config.App{
			Name:                       "appointment-composite-service",
			Version:                    "1.0.0",
			AllowedOrigins:             "https://clinic.example",
			MaxRequests:                1000,
			RequestBodyLimitInKilobyte: 1,
		},
	}

	router := chi.NewRouter()
	SetupRoutes(
		router,
		logger,
		internalConfig,
		middlewares.NewMiddlewares(logger, internalConfig),
		controllers.NewAppointmentController(logger, usecase, time.Second),
		controllers.NewHealthController(internalConfig.App),
	)
	return router
}

func TestRouter_Healthz(t *testing.T) {
	router := setupTestRouter(new(MockAppointmentUsecase))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRouter_AppointmentRoutes(t *testing.T) {
	usecase := new(MockAppointmentUsecase)
	usecase.On("CreateAppointment", mock.Anything, "token", mock.Anything).
		Return(&responses.Appointment{ID: "a1"}, nil)
	usecase.On("FindAppointmentByID", mock.Anything, "token", "a1").
		Return(&responses.Appointment{ID: "a1"}, nil)
	usecase.On("CancelAppointment", mock.Anything, "token", "a1").
		Return(nil, exceptions.ErrDownstream(http.StatusConflict, "appointment already cancelled"))
	router := setupTestRouter(usecase)

	testCases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "Create", method: http.MethodPost, path: "/composite/appointments", body: `{"patient_id":"p1","session":"morning"}`, want: http.StatusCreated},
		{name: "Get", method: http.MethodGet, path: "/composite/appointments/a1", want: http.StatusOK},
		{name: "Cancel conflict", method: http.MethodDelete, path: "/composite/appointments/a1", want: http.StatusConflict},
		{name: "Unknown route", method: http.MethodGet, path: "/appointments/a1", want: http.StatusNotFound},
		{name: "Wrong method", method: http.MethodPut, path: "/composite/appointments/a1", want: http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Authorization", "Bearer token")
			req.Header.Set("X-Request-ID", "req-"+tc.name)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.want, rr.Code)
			assert.Equal(t, "req-"+tc.name, rr.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_BodyLimit(t *testing.T) {
	usecase := new(MockAppointmentUsecase)
	router := setupTestRouter(usecase)

	body := `{"patient_id":"p1","session":"morning","notes":"` + strings.Repeat("x", 2048) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/composite/appointments", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	usecase.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := setupTestRouter(new(MockAppointmentUsecase))

	req := httptest.NewRequest(http.MethodOptions, "/composite/appointments", nil)
	req.Header.Set("Origin", "https://clinic.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "https://clinic.example", rr.Header().Get("Access-Control-Allow-Origin"))
}
