package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/core"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/domain"
)

// maxIDAttempts bounds the collision-retry loop of id allocation. With 64-bit
// random ids exhaustion is effectively impossible; failing explicitly beats
// looping forever.
const maxIDAttempts = 32

var ErrIDExhausted = errors.New("id space exhausted")

type sessionEntry struct {
	Session *domain.Session
	Conn    core.SignalConnection
	Cancel  context.CancelFunc
}

// Registry tracks every live connection and its session identity.
// All state is process-lifetime only.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[core.SessionID]*sessionEntry)}
}

// Connect allocates a fresh session id and registers the connection with an
// empty room association.
func (r *Registry) Connect(conn core.SignalConnection, cancel context.CancelFunc) (core.SessionID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < maxIDAttempts; i++ {
		id, err := domain.NewHexID()
		if err != nil {
			return "", err
		}
		sid := core.SessionID(id)
		if _, taken := r.sessions[sid]; taken {
			continue
		}
		r.sessions[sid] = &sessionEntry{
			Session: &domain.Session{ID: id},
			Conn:    conn,
			Cancel:  cancel,
		}
		log.Info().Str("module", "app.registry").Str("sid", id).Msg("session connected")
		return sid, nil
	}
	return "", ErrIDExhausted
}

// Disconnect fires the session's cancel func, releasing its per-connection
// context, and removes the session. Room membership must already be torn down
// by the orchestrator.
func (r *Registry) Disconnect(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("session disconnected")
}

// Get returns a copy of the session identity.
func (r *Registry) Get(sid core.SessionID) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return domain.Session{}, false
	}
	return *e.Session, true
}

func (r *Registry) RoomOf(sid core.SessionID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok || !e.Session.InRoom() {
		return "", false
	}
	return e.Session.RoomID, true
}

func (r *Registry) SetRoom(sid core.SessionID, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	e.Session.RoomID = roomID
	return true
}

func (r *Registry) ClearRoom(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok {
		e.Session.RoomID = ""
	}
}

func (r *Registry) ConnOf(sid core.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, false
	}
	return e.Conn, true
}

type MemberSnap struct {
	SID  core.SessionID
	Conn core.SignalConnection
}

// MembersOfRoom snapshots the connections currently associated with roomID.
func (r *Registry) MembersOfRoom(roomID string) []MemberSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberSnap, 0, len(r.sessions))
	for sid, e := range r.sessions {
		if e.Session.RoomID == roomID {
			out = append(out, MemberSnap{SID: sid, Conn: e.Conn})
		}
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
