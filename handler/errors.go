package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError carries an explicit status, machine code and client message.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// BadRequest marks err as a malformed request. The message of err is shown to the client.
func BadRequest(err error) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Code: "invalid_request", Message: err.Error(), Err: err}
}

// MethodNotAllowed is the error for a route hit with the wrong method.
var MethodNotAllowed = &HTTPError{Status: http.StatusMethodNotAllowed, Code: "method_not_allowed", Message: "method not allowed"}

// NotFound is the error for an unknown route.
var NotFound = &HTTPError{Status: http.StatusNotFound, Code: "not_found", Message: "not found"}

// TooManyRequests is the error for a rate limited caller.
var TooManyRequests = &HTTPError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many requests, try again later"}
