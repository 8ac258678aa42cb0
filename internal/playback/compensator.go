// Package playback implements the client side of the sync protocol: a local
// player is periodically steered toward the position extrapolated from the
// last authoritative state, and locally observed UI events are reported back
// unless they were caused by such a correction.
package playback

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/domain"
)

const (
	// MaxDrift is the tolerated gap between local and expected position.
	// Jitter below it is left alone rather than fought.
	MaxDrift = 0.5

	// TickInterval is the free-running reconciliation period. It is not tied
	// to any server round trip; correction is wall-clock based.
	TickInterval = time.Second

	// SuppressionWindow is how long locally observed UI events are muted
	// after a remote event or a forced correction, so a server-driven change
	// is not bounced back as a user action.
	SuppressionWindow = time.Second
)

// Player is the local audio element being steered.
type Player interface {
	Ready() bool
	Playing() bool
	Position() float64
	Seek(position float64)
	Play()
	Pause()
}

// Emitter sends a locally observed control event to the server.
type Emitter interface {
	Emit(kind string, state domain.PlaybackState)
}

// Compensator reconciles a Player against the room's authoritative state.
type Compensator struct {
	mu      sync.Mutex
	player  Player
	emitter Emitter
	now     func() time.Time

	lastState       domain.PlaybackState
	hasState        bool
	restricted      bool
	suppressedUntil time.Time
}

func NewCompensator(player Player, emitter Emitter) *Compensator {
	return &Compensator{player: player, emitter: emitter, now: time.Now}
}

// SetRestricted marks this user as locked out of playback control
// (onlyHost room, not the owner). Outbound events are muted while set.
func (c *Compensator) SetRestricted(restricted bool) {
	c.mu.Lock()
	c.restricted = restricted
	c.mu.Unlock()
}

// ExpectedPosition extrapolates where the timeline should be at wall time
// now, given the last accepted state.
func ExpectedPosition(state domain.PlaybackState, now time.Time) float64 {
	if !state.IsPlaying {
		return state.Position
	}
	return epochSeconds(now) - state.LastUpdated + state.Position
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// OnRemote applies a server event: the catch-up payload on join, or a
// play/pause/seek fanned out from another member. Every remote application
// opens the suppression window.
func (c *Compensator) OnRemote(kind string, state domain.PlaybackState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.lastState = state
	c.hasState = true
	c.suppressedUntil = now.Add(SuppressionWindow)

	switch kind {
	case "play":
		c.player.Seek(ExpectedPosition(state, now))
		c.player.Play()
	case "pause":
		c.player.Seek(state.Position)
		c.player.Pause()
	case "seek":
		c.player.Seek(ExpectedPosition(state, now))
	}
	log.Debug().Str("module", "playback").Str("event", kind).Float64("position", state.Position).Msg("applied remote state")
}

// Tick runs one reconciliation step. Run calls it every TickInterval; tests
// call it directly.
func (c *Compensator) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasState || !c.player.Ready() {
		return
	}
	if c.lastState.IsPlaying {
		c.player.Play()
	} else {
		c.player.Pause()
	}

	now := c.now()
	expected := ExpectedPosition(c.lastState, now)
	drift := math.Abs(c.player.Position() - expected)
	if drift < MaxDrift {
		return
	}
	log.Debug().Str("module", "playback").Float64("drift", drift).Float64("expected", expected).Msg("syncing now")
	c.suppressedUntil = now.Add(SuppressionWindow)
	c.player.Seek(expected)
}

// Run ticks until ctx is done.
func (c *Compensator) Run(ctx context.Context) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

func (c *Compensator) suppressed(now time.Time) bool {
	return now.Before(c.suppressedUntil)
}

// OnLocalPlay reports a user-initiated play.
func (c *Compensator) OnLocalPlay() {
	c.emitLocal("play", true, false)
}

// OnLocalPause reports a user-initiated pause.
func (c *Compensator) OnLocalPause() {
	c.emitLocal("pause", false, false)
}

// OnLocalSeek reports a user-initiated seek. Seeks while playing are not
// reported; continuous scrubbing would storm the room.
func (c *Compensator) OnLocalSeek() {
	c.emitLocal("seek", false, true)
}

func (c *Compensator) emitLocal(kind string, playing bool, onlyWhilePaused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.suppressed(now) || c.restricted {
		return
	}
	if onlyWhilePaused && c.player.Playing() {
		return
	}

	state := c.lastState
	state.LastUpdated = epochSeconds(now)
	state.Position = c.player.Position()
	state.IsPlaying = playing
	c.lastState = state
	c.hasState = true
	c.emitter.Emit(kind, state)
}
