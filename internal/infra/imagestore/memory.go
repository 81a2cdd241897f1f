package imagestore

import (
	"context"
	"sync"
)

type memoryObject struct {
	data     []byte
	mimeType string
}

// MemoryStore keeps archived soil photos in process memory. Used in tests
// and when no object storage is configured but archiving is still wanted.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryStore constructs an in-memory archive.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

// Store keeps a copy of the image.
func (s *MemoryStore) Store(_ context.Context, advisoryID string, image []byte, mimeType string) (string, error) {
	key := objectKey(advisoryID, mimeType)
	data := make([]byte, len(image))
	copy(data, image)

	s.mu.Lock()
	s.objects[key] = memoryObject{data: data, mimeType: mimeType}
	s.mu.Unlock()
	return key, nil
}

// Get returns a stored image, primarily for tests.
func (s *MemoryStore) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, "", false
	}
	return obj.data, obj.mimeType, true
}
