package app

import "github.com/devclub-iitd/CommonAudioVideoServer/internal/domain"

// Outbound control-protocol events. The Type field carries the event name;
// embedded payloads flatten into the envelope.

type StateEvent struct {
	Type                 string `json:"type"`
	domain.PlaybackState        // flattened: title, duration, position, is_playing, last_updated
}

type RoomCreatedEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

type TrackIDEvent struct {
	Type    string `json:"type"`
	TrackID string `json:"trackId"`
}

type RoomSyncEvent struct {
	Type     string               `json:"type"`
	State    domain.PlaybackState `json:"state"`
	OnlyHost bool                 `json:"onlyHost"`
}

const (
	EventCreateRoom = "createRoom"
	EventJoinRoom   = "joinRoom"
	EventTrackID    = "trackId"
	EventPlay       = "play"
	EventPause      = "pause"
	EventSeek       = "seek"
)
