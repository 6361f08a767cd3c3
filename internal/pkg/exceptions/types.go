package exceptions

import (
	"appointment-composite-service/internal/pkg/constvars"
	"fmt"
)

var (
	// Unauthenticated. The client message never carries verification details.
	ErrTokenMissing = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusUnauthorized, constvars.ErrCodeUnauthenticated, constvars.ErrClientNotAuthenticated, constvars.ErrDevAuthTokenMissing)
	}
	ErrTokenInvalid = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusUnauthorized, constvars.ErrCodeUnauthenticated, constvars.ErrClientNotAuthenticated, constvars.ErrDevAuthTokenInvalid)
	}

	// Bad request
	ErrBookingValidation = func(err error, rule string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusBadRequest, constvars.ErrCodeValidationFailed, rule, constvars.ErrDevValidationFailed)
	}
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusBadRequest, constvars.ErrCodeValidationFailed, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusBadRequest, constvars.ErrCodeBadRequestBody, constvars.ErrClientInvalidRequestBody, constvars.ErrDevCannotParseJSON)
	}
	ErrRequestBodyTooLarge = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusRequestEntityTooBig, constvars.ErrCodeBadRequestBody, constvars.ErrClientRequestBodyTooLarge, constvars.ErrDevRequestBodyTooLarge)
	}
	ErrURLParamIDValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusBadRequest, constvars.ErrCodeValidationFailed, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamIDValidationFailed, paramName))
	}

	// Atomic appointment service
	ErrDownstream = func(statusCode int, message string) *CustomError {
		return BuildNewCustomErrorWithCode(nil, statusCode, constvars.ErrCodeDownstreamError, message, fmt.Sprintf(constvars.ErrDevDownstreamRejected, statusCode))
	}
	ErrDownstreamUnavailable = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusServiceUnavailable, constvars.ErrCodeDownstreamUnavailable, constvars.ErrClientDownstreamUnavailable, constvars.ErrDevDownstreamUnreachable)
	}
	ErrDownstreamDecodeResponse = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusServiceUnavailable, constvars.ErrCodeDownstreamUnavailable, constvars.ErrClientDownstreamUnavailable, constvars.ErrDevDownstreamDecodeResponse)
	}
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCreateHTTPRequest)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}

	// Redis
	ErrRedisGet = func(err error, redisKey string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRedisGetData, redisKey))
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData)
	}

	// RabbitMQ
	ErrRabbitMQDial = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRabbitMQDial)
	}
	ErrRabbitMQChannel = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRabbitMQChannel)
	}
	ErrRabbitMQDeclareExchange = func(err error, exchange string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQDeclareExchange, exchange))
	}
	ErrRabbitMQPublishMessage = func(err error, routingKey, exchange string) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, routingKey, exchange))
	}
	ErrRabbitMQPublishNack = func(routingKey, exchange string) *CustomError {
		return BuildNewCustomErrorWithCode(nil, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishNack, routingKey, exchange))
	}

	// Default Server
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusGatewayTimeout, constvars.ErrCodeDeadlineExceeded, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevServerProcess)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomErrorWithCode(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRequestID)
	}
)
