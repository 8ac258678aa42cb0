package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/domain"
)

type fakePlayer struct {
	ready   bool
	playing bool
	pos     float64
	seeks   []float64
}

func (p *fakePlayer) Ready() bool       { return p.ready }
func (p *fakePlayer) Playing() bool     { return p.playing }
func (p *fakePlayer) Position() float64 { return p.pos }
func (p *fakePlayer) Play()             { p.playing = true }
func (p *fakePlayer) Pause()            { p.playing = false }

func (p *fakePlayer) Seek(position float64) {
	p.pos = position
	p.seeks = append(p.seeks, position)
}

type emitted struct {
	kind  string
	state domain.PlaybackState
}

type fakeEmitter struct {
	events []emitted
}

func (e *fakeEmitter) Emit(kind string, state domain.PlaybackState) {
	e.events = append(e.events, emitted{kind: kind, state: state})
}

func newTestCompensator(at time.Time) (*Compensator, *fakePlayer, *fakeEmitter, *time.Time) {
	player := &fakePlayer{ready: true}
	emitter := &fakeEmitter{}
	c := NewCompensator(player, emitter)
	now := at
	c.now = func() time.Time { return now }
	return c, player, emitter, &now
}

func TestExpectedPositionExtrapolation(t *testing.T) {
	epoch := time.Unix(1000, 0)
	state := domain.PlaybackState{Position: 10, IsPlaying: true, LastUpdated: 1000}

	// At T+5 the expected position is 15, regardless of polling history.
	assert.InDelta(t, 15.0, ExpectedPosition(state, epoch.Add(5*time.Second)), 1e-9)
	assert.InDelta(t, 10.0, ExpectedPosition(state, epoch), 1e-9)

	// A paused timeline does not advance.
	state.IsPlaying = false
	assert.InDelta(t, 10.0, ExpectedPosition(state, epoch.Add(time.Hour)), 1e-9)
}

func TestTickCorrectsDrift(t *testing.T) {
	c, player, _, now := newTestCompensator(time.Unix(2000, 0))
	c.OnRemote("play", domain.PlaybackState{Position: 0, IsPlaying: true, LastUpdated: 2000})
	player.seeks = nil

	// 10s later the player sat still; expected is 10, drift is 10.
	*now = time.Unix(2010, 0)
	player.pos = 0
	c.Tick()
	require.Len(t, player.seeks, 1)
	assert.InDelta(t, 10.0, player.seeks[0], 1e-9)
	assert.True(t, player.playing)
}

func TestTickToleratesSmallDrift(t *testing.T) {
	c, player, _, now := newTestCompensator(time.Unix(2000, 0))
	c.OnRemote("play", domain.PlaybackState{Position: 0, IsPlaying: true, LastUpdated: 2000})
	player.seeks = nil

	*now = time.Unix(2010, 0)
	player.pos = 10.3 // 0.3s off, below the 0.5s threshold
	c.Tick()
	assert.Empty(t, player.seeks, "drift below MaxDrift is tolerated")
}

func TestTickAlignsPlayPauseState(t *testing.T) {
	c, player, _, _ := newTestCompensator(time.Unix(2000, 0))
	c.OnRemote("pause", domain.PlaybackState{Position: 5, IsPlaying: false, LastUpdated: 2000})
	player.playing = true
	player.pos = 5
	c.Tick()
	assert.False(t, player.playing, "tick enforces the authoritative paused state")
}

func TestTickWithoutStateOrPlayer(t *testing.T) {
	c, player, _, _ := newTestCompensator(time.Unix(2000, 0))
	c.Tick() // no state yet: nothing to do
	assert.Empty(t, player.seeks)

	c.OnRemote("play", domain.PlaybackState{IsPlaying: true, LastUpdated: 2000})
	player.seeks = nil
	player.ready = false
	c.Tick() // player not ready: nothing to do
	assert.Empty(t, player.seeks)
}

func TestCorrectionSuppressesLocalEcho(t *testing.T) {
	c, player, emitter, now := newTestCompensator(time.Unix(2000, 0))
	c.OnRemote("play", domain.PlaybackState{Position: 0, IsPlaying: true, LastUpdated: 2000})

	*now = time.Unix(2010, 0)
	player.pos = 0
	c.Tick() // forces a correction, opening the suppression window

	c.OnLocalPlay()
	assert.Empty(t, emitter.events, "a server-driven correction must not bounce back")

	// After the window the user can act again.
	*now = time.Unix(2012, 0)
	player.pos = 12
	c.OnLocalPlay()
	require.Len(t, emitter.events, 1)
	assert.Equal(t, "play", emitter.events[0].kind)
	assert.InDelta(t, 12.0, emitter.events[0].state.Position, 1e-9)
	assert.InDelta(t, 2012.0, emitter.events[0].state.LastUpdated, 1e-9)
	assert.True(t, emitter.events[0].state.IsPlaying)
}

func TestLocalPauseStampsState(t *testing.T) {
	c, player, emitter, _ := newTestCompensator(time.Unix(3000, 0))
	player.pos = 33
	c.OnLocalPause()
	require.Len(t, emitter.events, 1)
	assert.Equal(t, "pause", emitter.events[0].kind)
	assert.False(t, emitter.events[0].state.IsPlaying)
	assert.InDelta(t, 33.0, emitter.events[0].state.Position, 1e-9)
	assert.InDelta(t, 3000.0, emitter.events[0].state.LastUpdated, 1e-9)
}

func TestSeekWhilePlayingNotReported(t *testing.T) {
	c, player, emitter, _ := newTestCompensator(time.Unix(3000, 0))
	player.playing = true
	c.OnLocalSeek()
	assert.Empty(t, emitter.events, "scrubbing during playback must not storm the room")

	player.playing = false
	c.OnLocalSeek()
	require.Len(t, emitter.events, 1)
	assert.Equal(t, "seek", emitter.events[0].kind)
}

func TestRestrictedUserEmitsNothing(t *testing.T) {
	c, _, emitter, _ := newTestCompensator(time.Unix(3000, 0))
	c.SetRestricted(true)
	c.OnLocalPlay()
	c.OnLocalPause()
	c.OnLocalSeek()
	assert.Empty(t, emitter.events)

	c.SetRestricted(false)
	c.OnLocalPlay()
	assert.Len(t, emitter.events, 1)
}

// Two-user scenario: A plays from position 0 at epoch T; B's compensator
// ticking at T+2 must land the player at ~2.0s.
func TestLateTickConvergesToElapsed(t *testing.T) {
	start := time.Unix(1700000000, 0)
	c, player, _, now := newTestCompensator(start)

	c.OnRemote("play", domain.PlaybackState{
		Position:    0,
		IsPlaying:   true,
		LastUpdated: 1700000000,
	})
	player.seeks = nil

	*now = start.Add(2 * time.Second)
	player.pos = 0
	c.Tick()
	require.Len(t, player.seeks, 1)
	assert.InDelta(t, 2.0, player.seeks[0], 0.01)
	assert.InDelta(t, 2.0, player.pos, 0.01)
	assert.True(t, player.playing)
}
