// Package apperr defines the typed failure used across the service layer.
// Every domain error carries the HTTP status it should surface as, raised at
// the point of detection and translated verbatim by the router's error
// handler. Anything that is not an *apperr.Error is reported as a 500 with a
// generic message while the detail is logged server-side.
package apperr

import "net/http"

// Error is a domain failure with an HTTP status attached.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string { return e.Message }

// New builds an Error with an explicit status.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Validation reports a malformed or missing required field.
func Validation(message string) *Error { return New(http.StatusBadRequest, message) }

// Unauthorized reports bad credentials or an invalid/expired access token.
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }

// Forbidden reports a denied role check or an invalid refresh token, which
// surfaces as 403 to tell clients "retry login" rather than "retry request".
func Forbidden(message string) *Error { return New(http.StatusForbidden, message) }

// NotFound reports a missing user, role, token or catalog record.
func NotFound(message string) *Error { return New(http.StatusNotFound, message) }

// Conflict reports a uniqueness violation such as a duplicate email or SKU.
func Conflict(message string) *Error { return New(http.StatusConflict, message) }

// Internal reports a store or signing failure.
func Internal(message string) *Error { return New(http.StatusInternalServerError, message) }
