package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"interviewhub/internal/shared/util"
)

// ErrNotFound is returned by Open and Stat for unknown keys.
var ErrNotFound = errors.New("object not found")

// Object describes a stored blob.
type Object struct {
	Key         string
	SizeBytes   int64
	ContentType string
}

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, ownerID, fileName, contentType string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Stat(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) error
	Provider() string
}

// PresignedUpload is a short-lived URL a client PUTs the file body to.
type PresignedUpload struct {
	URL       string
	Key       string
	ExpiresIn time.Duration
}

// Presigner is implemented by stores that accept direct client uploads.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (PresignedUpload, error)
}

// NewKey builds "<owner hash>/<random>_<file name>" so keys never collide and
// never leak the owner id.
func NewKey(ownerID, fileName string) (string, error) {
	if strings.TrimSpace(ownerID) == "" {
		return "", errors.New("owner id is required")
	}
	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(OwnerPrefix(ownerID), uuid.NewString()+"_"+sanitized), nil
}

// OwnerPrefix is the key namespace for ownerID.
func OwnerPrefix(ownerID string) string {
	return util.HashUserKey(ownerID)
}

// OwnedBy reports whether key lives in ownerID's namespace.
func OwnedBy(key, ownerID string) bool {
	return strings.HasPrefix(path.Clean(key), OwnerPrefix(ownerID)+"/")
}
