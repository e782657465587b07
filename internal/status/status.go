package status

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound      = errors.New("order: order not found")
	ErrUserNotFound       = errors.New("user: user not found")
	ErrEventNotFound      = errors.New("event: event not found")
	ErrTicketTypeNotFound = errors.New("ticket type: ticket type not found")
	ErrPaymentNotFound    = errors.New("payment: payment not found")
)

// ValidationError reports a missing or malformed request field.
// Handlers map it to HTTP 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AuthError is returned when the session is missing, expired or lacks
// the required role. The caller decides how to react; there is no
// process-wide handler hook.
type AuthError struct {
	Reason   string
	Redirect string
}

func (e *AuthError) Error() string { return e.Reason }

func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// UpstreamError wraps a failed call to the gateway, mailer or another
// external collaborator. Handlers map it to HTTP 500.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func Upstream(service string, err error) *UpstreamError {
	return &UpstreamError{Service: service, Err: err}
}

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
