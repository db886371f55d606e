package apperrors

import "errors"

// Upstream failure classes. apiclient.APIError unwraps to one of these so
// callers can branch with errors.Is.
var (
	ErrNetwork          = errors.New("network failure")
	ErrUnauthorized     = errors.New("authentication required")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidationFailed = errors.New("validation failed")
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrServer           = errors.New("server error")
	ErrUnexpected       = errors.New("unexpected response")
)

// Session errors
var (
	ErrSessionExpired   = errors.New("session expired")
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoRefreshToken   = errors.New("no refresh token")
	ErrInvalidTokenPair = errors.New("refresh response carried no access token")
)

// Portal errors
var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnknownScreen = errors.New("unknown screen")
	ErrInvalidUpload = errors.New("invalid upload")
	ErrInvalidSheet  = errors.New("invalid spreadsheet")
)

// ForStatus maps an HTTP status code to its taxonomy sentinel.
func ForStatus(status int) error {
	switch {
	case status == 401:
		return ErrUnauthorized
	case status == 403:
		return ErrPermissionDenied
	case status == 404:
		return ErrResourceNotFound
	case status == 409:
		return ErrConflict
	case status == 400 || status == 422:
		return ErrValidationFailed
	case status >= 500:
		return ErrServer
	default:
		return ErrUnexpected
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// CustomError carries a user facing message on top of a sentinel
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return NewCustomError(ErrBadRequest, message)
}
