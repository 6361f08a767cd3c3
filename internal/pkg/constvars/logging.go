package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingRequestKey        = "request"
	LoggingResponseKey       = "response"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingQueryKey          = "query"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingAppointmentIDKey  = "appointment_id"
	LoggingPatientIDKey      = "patient_id"
	LoggingSubjectIDKey      = "subject_id"
	LoggingUrlKey            = "url"
	LoggingRoutingKey        = "routing_key"
	LoggingExchangeKey       = "exchange"
	LoggingMessageIDKey      = "message_id"
	LoggingKeyIDKey          = "kid"
	LoggingKeyCountKey       = "key_count"
	LoggingAuthStrategyKey   = "auth_strategy"
	LoggingDownstreamCodeKey = "downstream_status_code"
	LoggingValidationRuleKey = "validation_rule"
)
