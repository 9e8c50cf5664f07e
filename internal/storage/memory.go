package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage keeps objects in process memory. Used when no object store is
// configured and in tests.
type MemoryStorage struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	bucket    string
	publicURL string
}

func NewMemoryStorage(publicURL, bucket string) *MemoryStorage {
	return &MemoryStorage{
		objects:   make(map[string][]byte),
		bucket:    bucket,
		publicURL: publicURL,
	}
}

func (s *MemoryStorage) UploadImage(ctx context.Context, listingID uuid.UUID, fileName, contentType string, file io.Reader, size int64) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	ext, err := ImageExt(fileName, contentType)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, size)); err != nil {
		return "", "", err
	}

	objectName := ObjectName(listingID, ext, time.Now().UTC())

	s.mu.Lock()
	s.objects[objectName] = buf.Bytes()
	s.mu.Unlock()

	return objectName, publicURL(s.publicURL, s.bucket, objectName), nil
}

func (s *MemoryStorage) DeleteImage(ctx context.Context, objectName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.objects, objectName)
	s.mu.Unlock()
	return nil
}

// Object returns a stored object.
func (s *MemoryStorage) Object(objectName string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[objectName]
	return b, ok
}
