// Package fs provides file-based storage for uploaded label images.
package fs

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/useby"
)

// Ensure UploadStore implements useby.UploadStore at compile time.
var _ useby.UploadStore = (*UploadStore)(nil)

// UploadStore writes uploaded images into a single directory. File names
// combine the upload time with a content hash, so repeated uploads of the
// same photo are easy to spot.
type UploadStore struct {
	dir string
	now func() time.Time
}

// NewUploadStore creates an UploadStore rooted at dir. The directory is
// created on first save.
func NewUploadStore(dir string) *UploadStore {
	return &UploadStore{dir: dir, now: time.Now}
}

// Dir returns the directory uploads are written to.
func (s *UploadStore) Dir() string { return s.dir }

// SaveUpload writes image to a temporary file and renames it into place.
func (s *UploadStore) SaveUpload(image []byte) (string, error) {
	if len(image) == 0 {
		return "", useby.Errorf(useby.EINVALID, "image required")
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}

	name := UploadName(s.now(), image)
	fullPath := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return fullPath, nil
}

// UploadName returns upload_<unix-millis>_<xxhash64>.<ext> for image.
func UploadName(at time.Time, image []byte) string {
	return fmt.Sprintf("upload_%d_%016x%s", at.UnixMilli(), xxhash.Sum64(image), extension(image))
}

func extension(image []byte) string {
	switch http.DetectContentType(image) {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
