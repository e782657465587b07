package services

import (
	"context"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"

	"payper-storefront/internal/status"
	"payper-storefront/models"
)

// ProfileService reads and updates the buyer profile, including the
// avatar file field.
type ProfileService struct {
	app core.App
}

func NewProfileService(app core.App) *ProfileService {
	return &ProfileService{app: app}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	record, err := s.app.FindRecordById("users", userID)
	if err != nil {
		return nil, status.ErrUserNotFound
	}
	return userFromRecord(record), nil
}

// ProfileUpdate carries a partial update; nil fields stay untouched.
type ProfileUpdate struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// UpdateProfile applies the non-nil fields. An explicit empty name is
// rejected rather than silently clearing the display name.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update *ProfileUpdate) (*models.User, error) {
	if update.Name != nil && *update.Name == "" {
		return nil, status.Invalid("name", "must not be empty")
	}

	record, err := s.app.FindRecordById("users", userID)
	if err != nil {
		return nil, status.ErrUserNotFound
	}

	if update.Name != nil {
		record.Set("name", *update.Name)
	}
	if update.Phone != nil {
		record.Set("phone", *update.Phone)
	}

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("updateProfile: %w", err)
	}

	return userFromRecord(record), nil
}

// SetAvatar stores the uploaded file on the user record and returns
// the public file URL. The previous avatar, if any, is replaced.
func (s *ProfileService) SetAvatar(ctx context.Context, userID string, file *filesystem.File) (string, error) {
	record, err := s.app.FindRecordById("users", userID)
	if err != nil {
		return "", status.ErrUserNotFound
	}

	record.Set("avatar", file)
	if err := s.app.Save(record); err != nil {
		return "", fmt.Errorf("setAvatar: %w", err)
	}

	return fmt.Sprintf("/api/files/users/%s/%s", record.Id, record.GetString("avatar")), nil
}

// ClearAvatar removes the avatar file from the user record. The stored
// file is deleted with the field value.
func (s *ProfileService) ClearAvatar(ctx context.Context, userID string) error {
	record, err := s.app.FindRecordById("users", userID)
	if err != nil {
		return status.ErrUserNotFound
	}

	record.Set("avatar", nil)
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("clearAvatar: %w", err)
	}

	return nil
}
