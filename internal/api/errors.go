package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError is the JSON error envelope for all endpoints.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func (e *APIError) toHTTP(status int) *echo.HTTPError {
	return echo.NewHTTPError(status, e)
}

func badRequest(code, message string) *echo.HTTPError {
	return newAPIError(code, message).toHTTP(http.StatusBadRequest)
}

func serviceUnavailable(code, message string) *echo.HTTPError {
	return newAPIError(code, message).toHTTP(http.StatusServiceUnavailable)
}

func internalError(code, message string) *echo.HTTPError {
	return newAPIError(code, message).toHTTP(http.StatusInternalServerError)
}
