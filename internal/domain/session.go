// Package domain contains entity without logic, just meta-data
package domain

// Session is the server-side identity of one live connection.
// RoomID is empty while the session is not in a room.
type Session struct {
	ID     string
	RoomID string
}

// InRoom reports whether the session currently belongs to a room.
func (s *Session) InRoom() bool {
	return s.RoomID != ""
}
