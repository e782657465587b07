package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"payper-storefront/services"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile - GET /api/profile?userId= (defaults to the session user)
func (h *ProfileHandler) GetProfile(e *core.RequestEvent) error {
	userID := e.Request.URL.Query().Get("userId")
	if err := matchSessionUser(e, userID); err != nil {
		return err
	}
	if userID == "" {
		userID = e.Auth.Id
	}

	profile, err := h.profiles.GetProfile(e.Request.Context(), userID)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"data": profile})
}

// UpdateProfile - PUT /api/profile applies a partial update to the
// session user's profile.
func (h *ProfileHandler) UpdateProfile(e *core.RequestEvent) error {
	var req struct {
		UserID string `json:"userId"`
		services.ProfileUpdate
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := matchSessionUser(e, req.UserID); err != nil {
		return err
	}

	profile, err := h.profiles.UpdateProfile(e.Request.Context(), e.Auth.Id, &req.ProfileUpdate)
	if err != nil {
		slog.Error("h.profiles.UpdateProfile()", "userId", e.Auth.Id, "error", err)
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"data": profile})
}
