package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"

	"payper-storefront/services"
)

type UploadHandler struct {
	profiles      *services.ProfileService
	maxAvatarSize int64
}

func NewUploadHandler(profiles *services.ProfileService, maxAvatarSize int64) *UploadHandler {
	return &UploadHandler{
		profiles:      profiles,
		maxAvatarSize: maxAvatarSize,
	}
}

// UploadAvatar - POST /api/upload/avatar. Size and mime are checked
// before anything touches storage.
func (h *UploadHandler) UploadAvatar(e *core.RequestEvent) error {
	// One extra KB so the form boundary does not trip the reader
	// before the size check runs.
	e.Request.Body = http.MaxBytesReader(e.Response, e.Request.Body, h.maxAvatarSize+1024)

	mf, mh, err := e.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apis.NewBadRequestError("file exceeds the 5MB limit", nil)
		}
		return apis.NewBadRequestError("file is required", err)
	}
	defer mf.Close()

	if userID := e.Request.FormValue("userId"); userID != "" {
		if err := matchSessionUser(e, userID); err != nil {
			return err
		}
	}

	if mh.Size > h.maxAvatarSize {
		return apis.NewBadRequestError("file exceeds the 5MB limit", nil)
	}
	if ct := mh.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return apis.NewBadRequestError("only image uploads are allowed", nil)
	}

	file, err := filesystem.NewFileFromMultipart(mh)
	if err != nil {
		return apis.NewBadRequestError("unreadable upload", err)
	}

	avatarURL, err := h.profiles.SetAvatar(e.Request.Context(), e.Auth.Id, file)
	if err != nil {
		slog.Error("h.profiles.SetAvatar()", "userId", e.Auth.Id, "error", err)
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"data": map[string]any{"avatar_url": avatarURL}})
}

// DeleteAvatar - DELETE /api/upload/avatar clears the avatar; the
// stored file goes with the field value.
func (h *UploadHandler) DeleteAvatar(e *core.RequestEvent) error {
	if userID := e.Request.URL.Query().Get("userId"); userID != "" {
		if err := matchSessionUser(e, userID); err != nil {
			return err
		}
	}

	if err := h.profiles.ClearAvatar(e.Request.Context(), e.Auth.Id); err != nil {
		slog.Error("h.profiles.ClearAvatar()", "userId", e.Auth.Id, "error", err)
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"data": map[string]any{"deleted": true}})
}
