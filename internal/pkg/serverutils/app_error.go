package serverutils

import "net/http"

// AppError carries an HTTP status through the service layer so the error
// middleware can render it without string matching.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

func NewUnprocessableError(message string) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Message: message}
}
