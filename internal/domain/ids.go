package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// IDLen is the length of session and room identifiers on the wire.
const IDLen = 16

// NewHexID returns a random lowercase hex identifier of IDLen characters.
func NewHexID() (string, error) {
	buf := make([]byte, IDLen/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ValidHexID reports whether s looks like an identifier produced by NewHexID.
func ValidHexID(s string) bool {
	if len(s) != IDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
