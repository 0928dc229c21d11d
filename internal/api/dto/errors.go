package dto

// APIError is the error body every endpoint returns on failure.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes used across the API
const (
	ErrCodeNotFound      = "not_found"
	ErrCodeBadRequest    = "bad_request"
	ErrCodeInternalError = "internal_error"
	ErrCodeValidation    = "validation_error"
)

// NotFoundError creates a not found error response.
func NotFoundError(resource string) APIError {
	return APIError{Code: ErrCodeNotFound, Message: resource + " not found"}
}

// BadRequestError creates a bad request error response.
func BadRequestError(message string) APIError {
	return APIError{Code: ErrCodeBadRequest, Message: message}
}

// InternalError creates an internal server error response. Details stay
// in the server log.
func InternalError() APIError {
	return APIError{Code: ErrCodeInternalError, Message: "an internal error occurred"}
}

// ValidationError creates a validation error response.
func ValidationError(message string) APIError {
	return APIError{Code: ErrCodeValidation, Message: message}
}
