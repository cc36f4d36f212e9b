package types

import (
	"fmt"
	"net/http"
)

const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeAuthentication  = "AUTHENTICATION_ERROR"
	ErrCodeAuthorization   = "AUTHORIZATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeFileProcessing  = "FILE_PROCESSING_ERROR"
	ErrCodeExternalService = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// AppError is the domain error carried from services to the HTTP boundary.
// Code is stable and machine readable, Message is for humans.
type AppError struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
	}
}

func NewAuthenticationError(message string) *AppError {
	if message == "" {
		message = "Authentication failed"
	}
	return &AppError{
		Code:    ErrCodeAuthentication,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

func NewAuthorizationError(message string) *AppError {
	if message == "" {
		message = "Access denied"
	}
	return &AppError{
		Code:    ErrCodeAuthorization,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

func NewFileProcessingError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeFileProcessing,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// NewExternalServiceError tags the failure with the upstream service name so
// the caller can tell which dependency broke.
func NewExternalServiceError(message, service string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeExternalService,
		Message: message,
		Status:  http.StatusBadGateway,
		Details: map[string]interface{}{"service": service},
		Err:     err,
	}
}
