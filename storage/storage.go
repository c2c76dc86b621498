// Package storage persists uploaded property images.
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dcode-github/rishstay/models"
	"github.com/google/uuid"
)

var ErrImageNotFound = errors.New("image not found")

type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ImageStore interface {
	Upload(ctx context.Context, u Upload) (models.Image, error)
	Delete(ctx context.Context, publicID string) error
}

// ImageServer is implemented by stores that serve images through this API
// rather than from a public URL of their own.
type ImageServer interface {
	Open(ctx context.Context, publicID string) (io.ReadCloser, string, error)
}

// objectName returns a collision-free name that keeps the upload's extension.
func objectName(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return uuid.NewString() + ext
}

// DeleteAll removes every image and returns the first error encountered.
func DeleteAll(ctx context.Context, s ImageStore, publicIDs []string) error {
	var first error
	for _, id := range publicIDs {
		if err := s.Delete(ctx, id); err != nil && first == nil {
			first = err
		}
	}
	return first
}
