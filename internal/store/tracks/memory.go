package tracks

import (
	"context"
	"sync"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/domain"
)

type memoryStore struct {
	mu     sync.RWMutex
	tracks map[string]domain.Track
}

func NewMemoryStore() Store {
	return &memoryStore{tracks: make(map[string]domain.Track)}
}

func (s *memoryStore) Create(ctx context.Context, track *domain.Track) error {
	s.mu.Lock()
	s.tracks[track.ID] = *track
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) FindID(ctx context.Context, id string) (*domain.Track, error) {
	s.mu.RLock()
	track, ok := s.tracks[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &track, nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tracks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tracks, id)
	return nil
}
