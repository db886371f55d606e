package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

func TestMessageFromBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message string", `{"message":"Invalid"}`, "Invalid"},
		{"message array", `{"message":["A","B"]}`, "A, B"},
		{"nested error object", `{"error":{"message":"Bad"}}`, "Bad"},
		{"error string", `{"error":"Denied"}`, "Denied"},
		{"errors list", `{"errors":["A",{"message":"B"},{"msg":"C"}]}`, "A, B, C"},
		{"errors by field", `{"errors":{"name":["Name is required"],"email":"Email taken"}}`, "Email taken, Name is required"},
		{"message wins over errors", `{"message":"Validation failed","errors":["x"]}`, "Validation failed"},
		{"empty message falls through", `{"message":"","error":"Denied"}`, "Denied"},
		{"unknown shape", `{"status":"fail"}`, ""},
		{"not json", `<html>502</html>`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MessageFromBody([]byte(tt.body)))
		})
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", newAPIError(http.StatusUnprocessableEntity, []byte(`{"message":["Name is required","Code too long"]}`)), "Name is required, Code too long"},
		{"forbidden fallback", newAPIError(http.StatusForbidden, nil), ForbiddenMessage},
		{"not found fallback", newAPIError(http.StatusNotFound, []byte(`{}`)), NotFoundMessage},
		{"validation fallback", newAPIError(http.StatusBadRequest, nil), ValidationMessage},
		{"server fallback", newAPIError(http.StatusBadGateway, []byte("<html/>")), ServerMessage},
		{"network", newNetworkError(errors.New("dial tcp: refused")), NetworkMessage},
		{"session expired", fmt.Errorf("%w: refresh rejected", apperrors.ErrSessionExpired), SessionExpiredMessage},
		{"foreign error", errors.New("boom"), GenericMessage},
		{"wrapped api error", fmt.Errorf("load: %w", newAPIError(http.StatusConflict, []byte(`{"error":{"message":"Code already used"}}`))), "Code already used"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatError(tt.err))
		})
	}
}

func TestAPIError_Taxonomy(t *testing.T) {
	assert.True(t, errors.Is(newAPIError(401, nil), apperrors.ErrUnauthorized))
	assert.True(t, errors.Is(newAPIError(403, nil), apperrors.ErrPermissionDenied))
	assert.True(t, errors.Is(newAPIError(422, nil), apperrors.ErrValidationFailed))
	assert.True(t, errors.Is(newAPIError(404, nil), apperrors.ErrResourceNotFound))
	assert.True(t, errors.Is(newAPIError(503, nil), apperrors.ErrServer))

	cause := errors.New("connection reset")
	netErr := newNetworkError(cause)
	assert.True(t, errors.Is(netErr, apperrors.ErrNetwork))
	assert.True(t, errors.Is(netErr, cause))
}
