package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "APPT_CMP_"
)

const (
	ResourceAppointments          = "appointments"
	ResourceCompositeAppointments = "composite/appointments"
	URLParamAppointmentID         = "appointmentID"
)

const (
	AuthStrategyJWKS    = "jwks"
	AuthStrategySession = "session"

	// The auth service signs every token with Ed25519; nothing else is accepted.
	JWTSigningAlgorithm = "EdDSA"
	JWKKeyTypeOKP       = "OKP"
	JWKCurveEd25519     = "Ed25519"
)

const (
	SessionCacheKeyPrefix = "composite:session:"
)

const (
	AppEnvProduction  = "production"
	AppEnvDevelopment = "development"
)
