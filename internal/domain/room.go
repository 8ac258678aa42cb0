package domain

// PlaybackState is a snapshot of the authoritative timeline: where it was,
// and at what wall-clock instant that snapshot was taken.
type PlaybackState struct {
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Position    float64 `json:"position"`
	IsPlaying   bool    `json:"is_playing"`
	LastUpdated float64 `json:"last_updated"`
}

// Room holds one shared listening timeline and its membership.
// UserIDs stays consistent with every member Session.RoomID; both sides of
// that relation are only mutated together inside a single registry step.
type Room struct {
	ID             string
	OwnerID        string
	UserIDs        []string
	Tracks         []string
	CurrentTrackID string
	State          PlaybackState
	OnlyHost       bool
}

// HasTrack reports whether id was previously added to the room playlist.
func (r *Room) HasTrack(id string) bool {
	for _, t := range r.Tracks {
		if t == id {
			return true
		}
	}
	return false
}

// RemoveUser drops id from the membership list, preserving join order.
func (r *Room) RemoveUser(id string) {
	kept := r.UserIDs[:0]
	for _, u := range r.UserIDs {
		if u != id {
			kept = append(kept, u)
		}
	}
	r.UserIDs = kept
}
