package config

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type (
	InternalConfig struct {
		App                App
		Auth               Auth
		AppointmentService AppointmentService
		Event              Event
	}

	DriverConfig struct {
		Logger   Logger
		RabbitMQ RabbitMQ
		Redis    Redis
	}

	App struct {
		Env                        string
		Port                       string
		Version                    string
		Name                       string
		AllowedOrigins             string
		MaxRequests                int
		ShutdownTimeoutInSeconds   int
		RequestBodyLimitInKilobyte int
		RequestTimeoutInSeconds    int
	}

	// Auth selects and tunes the token verifier.
	// Strategy is either "jwks" (local signature verification) or "session"
	// (remote introspection against the auth service).
	Auth struct {
		Strategy                        string
		BaseUrl                         string
		JWKSPath                        string
		SessionPath                     string
		Issuer                          string
		Audience                        string
		RequestTimeoutInSeconds         int
		JWKSCacheTTLInMinutes           int
		JWKSMinRefreshIntervalInSeconds int
		SessionCacheTTLInSeconds        int
		JWKSRefreshCronSpec             string
	}

	AppointmentService struct {
		BaseUrl                 string
		RequestTimeoutInSeconds int
	}

	Event struct {
		Exchange                string
		AppID                   string
		PublishTimeoutInSeconds int
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}

	RabbitMQ struct {
		Url string
	}

	// Redis is optional. An empty Host disables the session cache.
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
)

type Bootstrap struct {
	Router         *chi.Mux
	Logger         *zap.Logger
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// Closers run in order during Shutdown, e.g. the event publisher and redis client.
	Closers []NamedCloser
}

type NamedCloser struct {
	Name  string
	Close func() error
}
