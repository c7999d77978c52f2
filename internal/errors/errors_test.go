package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"order not found", ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"wrapped meal not found", fmt.Errorf("create order: %w", ErrMealNotFound), http.StatusNotFound, "MEAL_NOT_FOUND"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"duplicate signup", ErrUserAlreadyExists, http.StatusBadRequest, "USER_ALREADY_EXISTS"},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"bad status", ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
		{"feedback race", ErrFeedbackConflict, http.StatusConflict, "FEEDBACK_CONFLICT"},
		{"driver error", fmt.Errorf("dial tcp 10.0.0.1:27017: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.expectedStatus, httpErr.StatusCode)
			assert.Equal(t, tt.expectedCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesDriverMessages(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("server selection error: secret-host:27017"))

	resp := httpErr.ToErrorResponse()
	assert.Equal(t, "internal server error", resp.Message)
	assert.NotContains(t, resp.Message, "secret-host")
}
