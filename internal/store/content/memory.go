package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore holds all content in process memory. Default backend for
// development and tests.
func NewMemoryStore() Store {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (s *memoryStore) Put(ctx context.Context, filename string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read content: %w", err)
	}
	s.mu.Lock()
	s.objects[filename] = data
	s.mu.Unlock()
	return int64(len(data)), nil
}

func (s *memoryStore) Open(ctx context.Context, filename string) (File, error) {
	s.mu.RLock()
	data, ok := s.objects[filename]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &memFile{Reader: bytes.NewReader(data), size: int64(len(data))}, nil
}

func (s *memoryStore) Delete(ctx context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[filename]; !ok {
		return ErrNotFound
	}
	delete(s.objects, filename)
	return nil
}

type memFile struct {
	*bytes.Reader
	size int64
}

func (f *memFile) Close() error  { return nil }
func (f *memFile) Length() int64 { return f.size }
