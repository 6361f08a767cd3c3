package exceptions

import (
	"appointment-composite-service/internal/pkg/constvars"
	"errors"
	"fmt"
	"runtime"
	"strings"
)

type CustomError struct {
	StatusCode    int        `json:"status_code"`
	Success       bool       `json:"success"`
	Code          string     `json:"code,omitempty"`
	ClientMessage string     `json:"message"`
	DevMessage    string     `json:"dev_message,omitempty"`
	Locations     []Location `json:"locations,omitempty"`
	cause         error
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	location := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, location.File, location.Line, location.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.cause
}

// BuildNewCustomError wraps err (which may be nil) and records the caller location.
// Wrapping another CustomError keeps its status, code and client message and only
// appends the new location.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	return build(err, statusCode, "", clientMessage, devMessage)
}

func BuildNewCustomErrorWithCode(err error, statusCode int, code, clientMessage, devMessage string) *CustomError {
	return build(err, statusCode, code, clientMessage, devMessage)
}

func build(err error, statusCode int, code, clientMessage, devMessage string) *CustomError {
	location := getLocation()

	var existing *CustomError
	if errors.As(err, &existing) {
		existing.Locations = append(existing.Locations, location)
		return existing
	}

	if err != nil {
		devMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}

	return &CustomError{
		StatusCode:    statusCode,
		Code:          code,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     []Location{location},
		cause:         err,
	}
}

// CodeOf returns the error code of the first CustomError in err's chain.
func CodeOf(err error) string {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code
	}
	return ""
}

// StatusCodeOf returns the HTTP status of the first CustomError in err's chain, or 500.
func StatusCodeOf(err error) int {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.StatusCode
	}
	return constvars.StatusInternalServerError
}

// getLocation reports the first caller outside this package.
func getLocation() Location {
	for skip := 2; skip < 10; skip++ {
		pc, file, line, ok := runtime.Caller(skip)
		if !ok {
			break
		}
		if strings.Contains(file, "/internal/pkg/exceptions/") {
			continue
		}
		return Location{
			File:         file,
			Line:         line,
			FunctionName: runtime.FuncForPC(pc).Name(),
		}
	}
	return Location{
		File:         constvars.ResponseUnknown,
		Line:         0,
		FunctionName: constvars.ResponseUnknown,
	}
}
