package app

import (
	"context"
	"encoding/json"
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/core"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/domain"
)

// TrackCatalog is the orchestrator's view of the track collaborator: resolve
// added ids, release room-owned tracks when the room dies.
type TrackCatalog interface {
	Exists(ctx context.Context, id string) bool
	Release(ctx context.Context, id string) error
}

// Orchestrator applies control events against the registries and fans the
// result out to room members. Every event runs to completion under one lock,
// so events for the same room apply in arrival order and the session<->room
// relation is never observed half-updated.
//
// Invalid events are dropped without a reply; peers are unauthenticated and
// noisy, and re-issuing an action is the client's job.
type Orchestrator struct {
	mu       sync.Mutex
	Registry *Registry
	Rooms    *Rooms
	Catalog  TrackCatalog
}

func NewOrchestrator(registry *Registry, rooms *Rooms, catalog TrackCatalog) *Orchestrator {
	return &Orchestrator{Registry: registry, Rooms: rooms, Catalog: catalog}
}

// CreateRoom makes sid the owner and only member of a fresh room and sends the
// room id back on sid's connection.
func (o *Orchestrator) CreateRoom(ctx context.Context, sid core.SessionID, onlyHost bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.Registry.Get(sid)
	if !ok {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Msg("createRoom from unknown session")
		return
	}
	if sess.InRoom() {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", sess.RoomID).Msg("createRoom while already in a room")
		return
	}

	room, err := o.Rooms.Create(string(sid), onlyHost)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Msg("room id allocation failed")
		return
	}
	o.Registry.SetRoom(sid, room.ID)
	log.Info().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", room.ID).Bool("only_host", onlyHost).Msg("room created")

	o.sendTo(sid, RoomCreatedEvent{Type: EventCreateRoom, RoomID: room.ID})
}

// JoinRoom adds sid to an existing room and replays the current track and
// playback state to the joiner so a late joiner catches up.
func (o *Orchestrator) JoinRoom(ctx context.Context, sid core.SessionID, roomID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.Registry.Get(sid)
	if !ok {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Msg("joinRoom from unknown session")
		return
	}
	if !domain.ValidHexID(roomID) {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", roomID).Msg("joinRoom with malformed room id")
		return
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", roomID).Msg("joinRoom to nonexistent room")
		return
	}
	if sess.InRoom() {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", sess.RoomID).Msg("joinRoom while already in a room")
		return
	}

	o.Registry.SetRoom(sid, roomID)
	room.UserIDs = append(room.UserIDs, string(sid))
	log.Info().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", roomID).Msg("joined room")

	o.sendTo(sid, TrackIDEvent{Type: EventTrackID, TrackID: room.CurrentTrackID})
	o.sendTo(sid, RoomSyncEvent{Type: EventJoinRoom, State: room.State, OnlyHost: room.OnlyHost})
}

// LeaveRoom removes sid from its room. The last member out deletes the room
// and releases its tracks back to the stores.
func (o *Orchestrator) LeaveRoom(ctx context.Context, sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.leaveLocked(ctx, sid)
}

// Disconnect tears down room membership, if any, then drops the session.
func (o *Orchestrator) Disconnect(ctx context.Context, sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.Registry.RoomOf(sid); ok {
		o.leaveLocked(ctx, sid)
	}
	o.Registry.Disconnect(sid)
}

func (o *Orchestrator) leaveLocked(ctx context.Context, sid core.SessionID) {
	roomID, ok := o.Registry.RoomOf(sid)
	if !ok {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Msg("leaveRoom while not in a room")
		return
	}
	room, ok := o.Rooms.Get(roomID)
	o.Registry.ClearRoom(sid)
	if !ok {
		return
	}
	room.RemoveUser(string(sid))
	log.Info().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", roomID).Msg("left room")

	if len(room.UserIDs) > 0 {
		return
	}
	for _, trackID := range room.Tracks {
		if err := o.Catalog.Release(ctx, trackID); err != nil {
			log.Error().Err(err).Str("module", "app.orchestrator").Str("track_id", trackID).Msg("failed to release track")
		}
	}
	o.Rooms.Delete(roomID)
	log.Info().Str("module", "app.orchestrator").Str("room", roomID).Msg("room deleted, no more users in it")
}

// ListRooms snapshots every room for the read-only listing endpoint. It takes
// the event lock so member counts never interleave with a join or leave.
func (o *Orchestrator) ListRooms() []RoomInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Rooms.list()
}

// AddTrack appends a known track to the room playlist. The first track becomes
// the current one and is announced to the other members.
func (o *Orchestrator) AddTrack(ctx context.Context, sid core.SessionID, trackID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	roomID, ok := o.Registry.RoomOf(sid)
	if !ok {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Msg("addTrack while not in a room")
		return
	}
	if !o.Catalog.Exists(ctx, trackID) {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("track_id", trackID).Msg("addTrack with unknown track")
		return
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return
	}
	room.Tracks = append(room.Tracks, trackID)
	log.Info().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", roomID).Str("track_id", trackID).Msg("track added")
	if len(room.Tracks) != 1 {
		return
	}
	room.CurrentTrackID = trackID
	o.fanout(roomID, sid, TrackIDEvent{Type: EventTrackID, TrackID: room.CurrentTrackID})
	o.fanout(roomID, sid, RoomSyncEvent{Type: EventJoinRoom, State: room.State, OnlyHost: room.OnlyHost})
}

// ChangeTrack switches the room to a track already in its playlist, replacing
// the playback state wholesale.
func (o *Orchestrator) ChangeTrack(ctx context.Context, sid core.SessionID, trackID string, state domain.PlaybackState) {
	o.mu.Lock()
	defer o.mu.Unlock()

	roomID, ok := o.Registry.RoomOf(sid)
	if !ok {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Msg("changeTrack while not in a room")
		return
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return
	}
	if !room.HasTrack(trackID) {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("track_id", trackID).Msg("changeTrack with track not in room")
		return
	}
	room.CurrentTrackID = trackID
	room.State = state
	log.Info().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", roomID).Str("track_id", trackID).Msg("track changed")
	o.fanout(roomID, sid, TrackIDEvent{Type: EventTrackID, TrackID: room.CurrentTrackID})
	o.fanout(roomID, sid, RoomSyncEvent{Type: EventJoinRoom, State: room.State, OnlyHost: room.OnlyHost})
}

// ApplyControl handles the three symmetric playback events. kind must be one
// of play, pause or seek; the accepted state replaces the room state verbatim
// and is echoed to every member except the sender.
func (o *Orchestrator) ApplyControl(ctx context.Context, sid core.SessionID, kind string, state domain.PlaybackState) {
	o.mu.Lock()
	defer o.mu.Unlock()

	roomID, ok := o.Registry.RoomOf(sid)
	if !ok {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("event", kind).Msg("control event while not in a room")
		return
	}
	if !validPosition(state.Position) {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("event", kind).Float64("position", state.Position).Msg("control event with invalid position")
		return
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return
	}
	if room.OnlyHost && room.OwnerID != string(sid) {
		log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", roomID).Str("event", kind).Msg("control event on host-locked room")
		return
	}

	room.State = state
	log.Info().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("room", roomID).Str("event", kind).Float64("position", state.Position).Float64("epoch", state.LastUpdated).Msg("playback state updated")
	o.fanout(roomID, sid, StateEvent{Type: kind, PlaybackState: room.State})
}

func validPosition(p float64) bool {
	return p >= 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}

func (o *Orchestrator) sendTo(sid core.SessionID, v any) {
	conn, ok := o.Registry.ConnOf(sid)
	if !ok {
		return
	}
	o.send(sid, conn, v)
}

// fanout delivers v to every member of roomID except the sender. Sends are
// non-blocking: a member whose send queue is full misses this frame and will
// reconverge on the next state event.
func (o *Orchestrator) fanout(roomID string, except core.SessionID, v any) {
	for _, m := range o.Registry.MembersOfRoom(roomID) {
		if m.SID == except {
			continue
		}
		o.send(m.SID, m.Conn, v)
	}
}

func (o *Orchestrator) send(sid core.SessionID, conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Msg("marshal outbound event")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		log.Warn().Err(err).Str("module", "app.orchestrator").Str("sid", string(sid)).Msg("dropping frame for slow client")
	}
}
