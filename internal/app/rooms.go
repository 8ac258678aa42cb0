package app

import (
	"sync"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/domain"
)

// Rooms is the authoritative store of room state. The map itself is guarded
// here, but Room structs are mutated only inside the orchestrator's serialized
// event step, so anything reading mutable room fields must hold that lock too.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[string]*domain.Room)}
}

// Create allocates a room with a fresh id owned by ownerID, who becomes its
// only member.
func (m *Rooms) Create(ownerID string, onlyHost bool) (*domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < maxIDAttempts; i++ {
		id, err := domain.NewHexID()
		if err != nil {
			return nil, err
		}
		if _, taken := m.rooms[id]; taken {
			continue
		}
		room := &domain.Room{
			ID:       id,
			OwnerID:  ownerID,
			UserIDs:  []string{ownerID},
			Tracks:   []string{},
			OnlyHost: onlyHost,
			State: domain.PlaybackState{
				IsPlaying:   false,
				Position:    0,
				LastUpdated: 0,
				Title:       "",
				Duration:    0,
			},
		}
		m.rooms[id] = room
		return room, nil
	}
	return nil, ErrIDExhausted
}

func (m *Rooms) Get(id string) (*domain.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	return room, ok
}

func (m *Rooms) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, id)
}

type RoomInfo struct {
	ID          string `json:"roomId"`
	MemberCount int    `json:"client_count"`
	OnlyHost    bool   `json:"onlyHost"`
}

// list snapshots room metadata. Membership counts read mutable room state, so
// callers must hold the orchestrator's event lock; readers outside the package
// go through Orchestrator.ListRooms.
func (m *Rooms) list() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for id, r := range m.rooms {
		out = append(out, RoomInfo{ID: id, MemberCount: len(r.UserIDs), OnlyHost: r.OnlyHost})
	}
	return out
}
