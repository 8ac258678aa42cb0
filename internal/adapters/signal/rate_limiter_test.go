package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventRateLimiter(t *testing.T) {
	rl := NewEventRateLimiter(3, 50*time.Millisecond)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("a"), "event %d within the limit", i)
	}
	assert.False(t, rl.Allow("a"), "fourth event in the window is denied")
	assert.True(t, rl.Allow("b"), "sessions are limited independently")

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow("a"), "window expiry frees the session")
}

func TestEventRateLimiterForget(t *testing.T) {
	rl := NewEventRateLimiter(1, time.Minute)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	rl.Forget("a")
	assert.True(t, rl.Allow("a"))
}
