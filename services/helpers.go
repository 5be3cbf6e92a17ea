package services

import (
	"fmt"
	"strings"

	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/storage"
)

// Viewer is the caller of a service operation. A zero Viewer is anonymous.
type Viewer struct {
	UserID int
	Role   models.UserRole
}

func (v Viewer) IsAnonymous() bool {
	return v.UserID == 0
}

func (v Viewer) IsAdmin() bool {
	return v.Role == models.RoleAdmin
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// trimmedOrNil returns nil for blank strings so optional columns stay NULL.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func populateTournamentImageURL(tournament *models.Tournament, uploader storage.FileUploader) {
	if tournament != nil && tournament.ImageKey != nil && *tournament.ImageKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*tournament.ImageKey)
		if url != "" {
			tournament.ImageURL = &url
		}
	}
}

func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			// Убираем возможные суффиксы типа "+xml" (например, "image/svg+xml")
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("%w: could not determine file extension from content type '%s'", ErrValidationFailed, contentType)
	}
}
