package api

import (
	"context"
	"errors"
	"fmt"
)

// Messages surfaced to users for failed calls.
const (
	unknownErrorMessage = "An unknown error occurred"
	networkErrorMessage = "Network error. Please check your connection."
)

// RequestError is a non-2xx response from the backend.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// Unauthorized reports whether the backend rejected the bearer token.
func (e *RequestError) Unauthorized() bool {
	return e.Status == 401
}

// NetworkError is a transport failure: the request never produced a
// response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return networkErrorMessage
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error()
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled."
	}
	return err.Error()
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Unauthorized()
}

func httpStatusMessage(status int) string {
	return fmt.Sprintf("HTTP error! status: %d", status)
}
