package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"max":      "maximum at %s characters long",
	"oneof":    "must be one of [%s]",
	"notblank": "must not be blank",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"max":   true,
	"oneof": true,
}

// Booking rules, checked in this order
const (
	ErrClientBookingSessionAndStartTimeExclusive = "session and start_time are mutually exclusive"
	ErrClientBookingSessionOrStartTimeRequired   = "one of session or start_time is required"
	ErrClientBookingDoctorRequiredWithStartTime  = "doctor_id is required with start_time"
	ErrClientBookingStartTimeInvalid             = "start_time must be an ISO 8601 datetime"
)

// Accepted start_time layouts. Values without an offset are taken as UTC.
var BookingStartTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientNotAuthenticated              = "unauthorized"
	ErrClientInvalidRequestBody            = "request body is not valid JSON"
	ErrClientRequestBodyTooLarge           = "request body is too large"
	ErrClientDownstreamUnavailable         = "appointment service is unavailable, please try again later"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientTooManyRequests               = "too many requests, please slow down"
)

// Error codes, stable across releases
const (
	ErrCodeUnauthenticated       = "UNAUTHENTICATED"
	ErrCodeValidationFailed      = "VALIDATION_FAILED"
	ErrCodeBadRequestBody        = "BAD_REQUEST_BODY"
	ErrCodeDownstreamError       = "DOWNSTREAM_ERROR"
	ErrCodeDownstreamUnavailable = "DOWNSTREAM_UNAVAILABLE"
	ErrCodeDeadlineExceeded      = "DEADLINE_EXCEEDED"
	ErrCodeInternal              = "INTERNAL"
	ErrCodeRateLimited           = "RATE_LIMITED"
)

// Dev details of these are never sent to the caller, whatever APP_ENV says.
var ErrCodesWithoutDevDetails = map[string]bool{
	ErrCodeUnauthenticated:       true,
	ErrCodeDownstreamUnavailable: true,
}

// Error messages for developers
const (
	ErrDevInvalidInput               = "invalid input"
	ErrDevCannotParseJSON            = "cannot parse JSON"
	ErrDevValidationFailed           = "booking validation failed"
	ErrDevAuthTokenMissing           = "bearer credential missing"
	ErrDevAuthTokenInvalid           = "credential verification failed"
	ErrDevDownstreamRejected         = "appointment service responded with status %d"
	ErrDevDownstreamUnreachable      = "appointment service unreachable"
	ErrDevDownstreamDecodeResponse   = "cannot decode appointment service response"
	ErrDevCreateHTTPRequest          = "failed to create HTTP request"
	ErrDevCannotMarshalJSON          = "cannot marshal JSON"
	ErrDevServerDeadlineExceeded     = "server deadline exceeded"
	ErrDevServerProcess              = "server failed to process request"
	ErrDevMissingRequestID           = "request ID missing from context"
	ErrDevURLParamIDValidationFailed = "url param %s validation failed"
	ErrDevRedisGetData               = "failed to get redis key %s"
	ErrDevRedisSetData               = "failed to set redis key"
	ErrDevRedisDeleteData            = "failed to delete redis key"
	ErrDevRabbitMQDial               = "failed to connect to rabbitMQ"
	ErrDevRabbitMQChannel            = "failed to open rabbitMQ channel"
	ErrDevRabbitMQDeclareExchange    = "failed to declare exchange %s"
	ErrDevRabbitMQPublishMessage     = "failed to publish %s to exchange %s"
	ErrDevRabbitMQPublishNack        = "broker did not confirm %s on exchange %s"
	ErrDevJWKSFetch                  = "failed to fetch JWKS from %s"
	ErrDevJWKSDecode                 = "failed to decode JWKS"
	ErrDevJWKSNoUsableKey            = "JWKS contains no usable Ed25519 key"
	ErrDevRequestBodyTooLarge        = "request body exceeds configured limit"
	ErrDevRateLimited                = "client exceeded request rate"
)

const (
	ResponseUnknown = "unknown"
)
