package middlewares

import (
	"appointment-composite-service/internal/pkg/constvars"
	"appointment-composite-service/internal/pkg/exceptions"
	"appointment-composite-service/internal/pkg/utils"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// CreateRateLimiter limits each client IP to App.MaxRequests per second. A
// non-positive limit disables it.
func (m *Middlewares) CreateRateLimiter() func(next http.Handler) http.Handler {
	if m.InternalConfig.App.MaxRequests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		m.InternalConfig.App.MaxRequests,
		time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.BuildErrorResponse(m.Log, w, exceptions.BuildNewCustomErrorWithCode(
				errors.New("rate limit exceeded"),
				constvars.StatusTooManyRequests,
				constvars.ErrCodeRateLimited,
				constvars.ErrClientTooManyRequests,
				constvars.ErrDevRateLimited,
			))
		}),
	)
}
