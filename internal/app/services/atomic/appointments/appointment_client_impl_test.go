package atomic_appointments

import (
	"appointment-composite-service/internal/app/models"
	"appointment-composite-service/internal/pkg/constvars"
	"appointment-composite-service/internal/pkg/dto/requests"
	"appointment-composite-service/internal/pkg/dto/responses"
	"appointment-composite-service/internal/pkg/exceptions"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const appointmentJSON = `{
	"id": "a1",
	"patient_id": "p1",
	"doctor_id": "d1",
	"start_time": "2025-01-01T09:00:00Z",
	"status": "pending",
	"estimated_time": null,
	"queue_position": null,
	"notes": null,
	"created_at": "2024-12-30T10:00:00Z",
	"updated_at": "2024-12-30T10:00:00Z"
}`

var testIdentity = &models.Identity{SubjectID: "user-1", Credential: "token-abc"}

func requestContext() context.Context {
	return context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, calls
}

func assertDownstream(t *testing.T, err error, status int, code, message string) {
	t.Helper()
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr), "should return a CustomError, got %v", err)
	assert.Equal(t, status, customErr.StatusCode)
	assert.Equal(t, code, customErr.Code)
	if message != "" {
		assert.Equal(t, message, customErr.ClientMessage)
	}
}

func TestAppointmentClient_CreateAppointment(t *testing.T) {
	server, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appointments", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"patient_id":"p1","doctor_id":"d1","start_time":"2025-01-01T09:00:00Z"}`, string(raw))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(appointmentJSON))
	})
	client := NewAppointmentClient(server.URL+"/", time.Second, zap.NewNop())

	doctorID := "d1"
	startTime := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	appointment, err := client.CreateAppointment(requestContext(), testIdentity, &requests.AtomicCreateAppointment{
		PatientID: "p1",
		DoctorID:  &doctorID,
		StartTime: &startTime,
	})

	require.NoError(t, err)
	createdAt := time.Date(2024, 12, 30, 10, 0, 0, 0, time.UTC)
	expected := &responses.Appointment{
		ID:        "a1",
		PatientID: "p1",
		DoctorID:  &doctorID,
		StartTime: &startTime,
		Status:    "pending",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if diff := cmp.Diff(expected, appointment); diff != "" {
		t.Errorf("appointment mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestAppointmentClient_FindAndCancel(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/appointments/a%2Fb%20c", r.URL.EscapedPath())
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.Write([]byte(appointmentJSON))
	})
	client := NewAppointmentClient(server.URL, time.Second, zap.NewNop())

	_, err := client.FindAppointmentByID(requestContext(), testIdentity, "a/b c")
	assert.NoError(t, err)

	_, err = client.CancelAppointment(requestContext(), testIdentity, "a/b c")
	assert.NoError(t, err)
}

func TestAppointmentClient_ErrorMessages(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "Error field", status: http.StatusNotFound, body: `{"error":"appointment not found"}`, wantMessage: "appointment not found"},
		{name: "Message field", status: http.StatusConflict, body: `{"message":"appointment already cancelled"}`, wantMessage: "appointment already cancelled"},
		{name: "Detail field", status: http.StatusUnprocessableEntity, body: `{"detail":"doctor unavailable"}`, wantMessage: "doctor unavailable"},
		{name: "Raw text body", status: http.StatusBadRequest, body: "  invalid start_time\n", wantMessage: "invalid start_time"},
		{name: "Empty body", status: http.StatusForbidden, body: "", wantMessage: "Forbidden"},
		{name: "JSON without known fields", status: http.StatusInternalServerError, body: `{"code":42}`, wantMessage: "Internal Server Error"},
		{name: "Non-string error field", status: http.StatusBadGateway, body: `{"error":{"code":42}}`, wantMessage: "Bad Gateway"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})
			client := NewAppointmentClient(server.URL, time.Second, zap.NewNop())

			appointment, err := client.CancelAppointment(requestContext(), testIdentity, "a1")

			assert.Nil(t, appointment)
			assertDownstream(t, err, tc.status, constvars.ErrCodeDownstreamError, tc.wantMessage)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestAppointmentClient_Unavailable(t *testing.T) {
	t.Run("Timeout is not retried", func(t *testing.T) {
		server, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		client := NewAppointmentClient(server.URL, 50*time.Millisecond, zap.NewNop())

		_, err := client.CreateAppointment(requestContext(), testIdentity, &requests.AtomicCreateAppointment{PatientID: "p1"})

		assertDownstream(t, err, http.StatusServiceUnavailable, constvars.ErrCodeDownstreamUnavailable, "")
		assert.Equal(t, int32(1), calls.Load(), "should not retry")
	})

	t.Run("Connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()
		client := NewAppointmentClient(url, time.Second, zap.NewNop())

		_, err := client.FindAppointmentByID(requestContext(), testIdentity, "a1")

		assertDownstream(t, err, http.StatusServiceUnavailable, constvars.ErrCodeDownstreamUnavailable, "")
	})

	t.Run("Cancelled request context", func(t *testing.T) {
		server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(appointmentJSON))
		})
		client := NewAppointmentClient(server.URL, time.Second, zap.NewNop())
		ctx, cancel := context.WithCancel(requestContext())
		cancel()

		_, err := client.FindAppointmentByID(ctx, testIdentity, "a1")

		assertDownstream(t, err, http.StatusServiceUnavailable, constvars.ErrCodeDownstreamUnavailable, "")
	})

	t.Run("Undecodable success body", func(t *testing.T) {
		server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>ok</html>"))
		})
		client := NewAppointmentClient(server.URL, time.Second, zap.NewNop())

		_, err := client.FindAppointmentByID(requestContext(), testIdentity, "a1")

		assertDownstream(t, err, http.StatusServiceUnavailable, constvars.ErrCodeDownstreamUnavailable, "")
	})

	t.Run("Success body without id", func(t *testing.T) {
		server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"status": "pending"})
		})
		client := NewAppointmentClient(server.URL, time.Second, zap.NewNop())

		_, err := client.FindAppointmentByID(requestContext(), testIdentity, "a1")

		assertDownstream(t, err, http.StatusServiceUnavailable, constvars.ErrCodeDownstreamUnavailable, "")
	})
}
