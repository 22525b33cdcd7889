// Package apperr defines the coded errors the order engine surfaces to the
// HTTP boundary. Every error carries a user-displayable message; Data is an
// optional payload the client needs to act on the error (the blocking pending
// transaction on a lock conflict, the remaining wait on a cancel throttle).
package apperr

import "net/http"

type Code string

const (
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeRateLimited       Code = "RATE_LIMITED"
	CodeInvalidState      Code = "INVALID_STATE"
	CodeUpstreamError     Code = "UPSTREAM_ERROR"
	CodeProvisioningError Code = "PROVISIONING_ERROR"
)

type Error struct {
	Code    Code
	Message string
	Data    interface{}
}

func (e *Error) Error() string { return e.Message }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func WithData(code Code, message string, data interface{}) *Error {
	return &Error{Code: code, Message: message, Data: data}
}

// HTTPStatus maps an error code to the HTTP status the boundary responds with.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeInvalidState:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUpstreamError, CodeProvisioningError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
