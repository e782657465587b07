package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"payper-storefront/internal/status"
	"payper-storefront/models"
)

// RequireBuyer guards a storefront route: missing session is 401,
// non-buyer roles get 403 with the access-denied redirect the web app
// navigates to.
func RequireBuyer(next func(*core.RequestEvent) error) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth == nil {
			return apis.NewUnauthorizedError("Unauthorized", nil)
		}
		if e.Auth.GetString("role") != models.RoleBuyer {
			return e.JSON(http.StatusForbidden, map[string]any{"redirect": "/access-denied"})
		}
		return next(e)
	}
}

// matchSessionUser rejects request bodies that name a different user
// than the session. An empty userId falls through to the session id.
func matchSessionUser(e *core.RequestEvent, userID string) error {
	if userID != "" && userID != e.Auth.Id {
		return apis.NewForbiddenError("Access denied", nil)
	}
	return nil
}

// mapServiceError translates service errors into the framework's
// error envelopes.
func mapServiceError(err error) error {
	switch {
	case status.IsValidation(err):
		return apis.NewBadRequestError(err.Error(), nil)
	case errors.Is(err, status.ErrOrderNotFound),
		errors.Is(err, status.ErrUserNotFound),
		errors.Is(err, status.ErrEventNotFound),
		errors.Is(err, status.ErrTicketTypeNotFound),
		errors.Is(err, status.ErrPaymentNotFound):
		return apis.NewNotFoundError(err.Error(), nil)
	case status.IsAuth(err):
		return apis.NewForbiddenError("Access denied", nil)
	default:
		return apis.NewInternalServerError("internal error", err)
	}
}
