package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrMealNotFound is returned when a meal id is unknown.
	ErrMealNotFound = errors.New("meal not found")
	// ErrOrderNotFound is returned when an order id is unknown or not visible to the caller.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUserAlreadyExists is returned when signing up with a registered email.
	ErrUserAlreadyExists = errors.New("a user with this email already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrForbidden is returned when the caller lacks the role for an operation.
	ErrForbidden = errors.New("not allowed to perform this operation")
	// ErrInvalidStatus is returned for statuses outside the order lifecycle.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidRating is returned when stars fall outside 1..5.
	ErrInvalidRating = errors.New("rating must be an integer between 1 and 5")
	// ErrInvalidMeal is returned when an imported meal misses required fields.
	ErrInvalidMeal = errors.New("invalid meal")
	// ErrInvalidQRCode is returned when a scanned image holds no order code.
	ErrInvalidQRCode = errors.New("invalid order code")
	// ErrFeedbackConflict is returned when a concurrent submission created the same feedback.
	ErrFeedbackConflict = errors.New("feedback already exists for this meal")
	// ErrCaptchaFailed is returned when CAPTCHA verification rejects the token.
	ErrCaptchaFailed = errors.New("captcha verification failed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

var mappings = []struct {
	err    error
	status int
	code   string
}{
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrMealNotFound, http.StatusNotFound, "MEAL_NOT_FOUND"},
	{ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
	{ErrUserAlreadyExists, http.StatusBadRequest, "USER_ALREADY_EXISTS"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
	{ErrInvalidRating, http.StatusBadRequest, "INVALID_RATING"},
	{ErrInvalidMeal, http.StatusBadRequest, "INVALID_MEAL"},
	{ErrInvalidQRCode, http.StatusBadRequest, "INVALID_QR_CODE"},
	{ErrFeedbackConflict, http.StatusConflict, "FEEDBACK_CONFLICT"},
	{ErrCaptchaFailed, http.StatusBadRequest, "CAPTCHA_FAILED"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// generic 500 so driver messages never reach the client.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, m.err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
