package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dcode-github/rishstay/models"
)

type memoryImage struct {
	data        []byte
	contentType string
}

// Memory keeps images in process memory. It serves them the same way the
// GridFS store does.
type Memory struct {
	mu      sync.RWMutex
	images  map[string]memoryImage
	baseURL string
}

func NewMemory(baseURL string) *Memory {
	return &Memory{images: make(map[string]memoryImage), baseURL: baseURL}
}

func (m *Memory) Upload(ctx context.Context, u Upload) (models.Image, error) {
	data, err := io.ReadAll(u.Body)
	if err != nil {
		return models.Image{}, fmt.Errorf("read upload %s: %w", u.Filename, err)
	}
	id := objectName(u.Filename, u.ContentType)

	m.mu.Lock()
	m.images[id] = memoryImage{data: data, contentType: u.ContentType}
	m.mu.Unlock()

	return models.Image{URL: m.baseURL + ImageRoute + id, PublicID: id}, nil
}

func (m *Memory) Delete(ctx context.Context, publicID string) error {
	m.mu.Lock()
	delete(m.images, publicID)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Open(ctx context.Context, publicID string) (io.ReadCloser, string, error) {
	m.mu.RLock()
	img, ok := m.images[publicID]
	m.mu.RUnlock()
	if !ok {
		return nil, "", ErrImageNotFound
	}
	return io.NopCloser(bytes.NewReader(img.data)), img.contentType, nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.images)
}
