package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores public assets such as tournament banners.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	// GetPublicURL never touches the network.
	GetPublicURL(key string) string
}

// ObjectKey builds a collision-free key like "tournaments/7/<uuid>.png".
func ObjectKey(scope string, ownerID int, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s/%d/%s%s", strings.Trim(scope, "/"), ownerID, uuid.NewString(), ext)
}
