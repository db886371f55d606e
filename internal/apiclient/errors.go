package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// User facing fallbacks
const (
	GenericMessage        = "Something went wrong. Please try again."
	NetworkMessage        = "Network error: unable to reach the server. Please check your connection."
	SessionExpiredMessage = "Your session has expired. Please log in again."
	UnauthorizedMessage   = "Authentication required. Please log in."
	ForbiddenMessage      = "You do not have permission to perform this action."
	NotFoundMessage       = "The requested resource was not found."
	ValidationMessage     = "The submitted data is invalid."
	ServerMessage         = "The server encountered an error. Please try again later."
)

// APIError is a failed upstream exchange
type APIError struct {
	// Status is 0 when no response was received
	Status int
	// Message is what the backend said, empty when its body had no known shape
	Message string
	Body    []byte
	kind    error
	cause   error
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{
		Status:  status,
		Message: MessageFromBody(body),
		Body:    body,
		kind:    apperrors.ForStatus(status),
	}
}

func newNetworkError(cause error) *APIError {
	return &APIError{kind: apperrors.ErrNetwork, cause: cause}
}

// Error implements error
func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%v: %v", e.kind, e.cause)
	}
	if e.Message != "" {
		return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream %d: %v", e.Status, e.kind)
}

// Unwrap exposes the taxonomy sentinel and, for network failures, the cause
func (e *APIError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// FormatError resolves any error from this package to one human readable
// string suitable for a toast.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, apperrors.ErrSessionExpired) {
		return SessionExpiredMessage
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return GenericMessage
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}

	switch {
	case errors.Is(apiErr, apperrors.ErrNetwork):
		return NetworkMessage
	case errors.Is(apiErr, apperrors.ErrUnauthorized):
		return UnauthorizedMessage
	case errors.Is(apiErr, apperrors.ErrPermissionDenied):
		return ForbiddenMessage
	case errors.Is(apiErr, apperrors.ErrResourceNotFound):
		return NotFoundMessage
	case errors.Is(apiErr, apperrors.ErrValidationFailed):
		return ValidationMessage
	case errors.Is(apiErr, apperrors.ErrServer):
		return ServerMessage
	default:
		return GenericMessage
	}
}

// MessageFromBody extracts the human readable message from the error
// envelopes the backend is known to send:
//
//	{"message": "Invalid"}
//	{"message": ["A", "B"]}
//	{"error": {"message": "Bad"}}
//	{"error": "Denied"}
//	{"errors": ["A", {"message": "B"}, {"msg": "C"}]}
//
// It returns "" when none match.
func MessageFromBody(body []byte) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	if msg := messageFrom(envelope["message"]); msg != "" {
		return msg
	}
	if raw, ok := envelope["error"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err == nil {
			if msg := messageFrom(nested["message"]); msg != "" {
				return msg
			}
		} else if msg := messageFrom(raw); msg != "" {
			return msg
		}
	}
	return messageFrom(envelope["errors"])
}

// messageFrom flattens a string, a list of strings or {message|msg}
// objects, or a field -> messages map into one string.
func messageFrom(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if msg := itemMessage(item); msg != "" {
				parts = append(parts, msg)
			}
		}
		return strings.Join(parts, ", ")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if msg := messageFrom(fields[k]); msg != "" {
				parts = append(parts, msg)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func itemMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		return obj.Msg
	}
	return ""
}
