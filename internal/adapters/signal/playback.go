package signal

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/core"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/domain"
)

var (
	errMissingPosition  = errors.New("position missing or not a number")
	errNegativePosition = errors.New("position negative or not finite")
	errMissingIsPlaying = errors.New("is_playing missing or not a boolean")
)

// statePayload is the wire shape of a client-observed PlaybackState. Position
// and IsPlaying are pointers so an absent field is distinguishable from a zero
// value; shape is never trusted without this check.
type statePayload struct {
	Title       string   `json:"title"`
	Duration    float64  `json:"duration"`
	Position    *float64 `json:"position"`
	IsPlaying   *bool    `json:"is_playing"`
	LastUpdated float64  `json:"last_updated"`
}

func (p *statePayload) validate() (domain.PlaybackState, error) {
	if p.Position == nil {
		return domain.PlaybackState{}, errMissingPosition
	}
	if *p.Position < 0 || math.IsNaN(*p.Position) || math.IsInf(*p.Position, 0) {
		return domain.PlaybackState{}, errNegativePosition
	}
	if p.IsPlaying == nil {
		return domain.PlaybackState{}, errMissingIsPlaying
	}
	return domain.PlaybackState{
		Title:       p.Title,
		Duration:    p.Duration,
		Position:    *p.Position,
		IsPlaying:   *p.IsPlaying,
		LastUpdated: p.LastUpdated,
	}, nil
}

func (ctl *Controller) handlePlayback(ctx context.Context, sid core.SessionID, kind string, data []byte) {
	var p statePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("event", kind).Msg("bad playback payload")
		return
	}
	state, err := p.validate()
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("event", kind).Msg("invalid playback state")
		return
	}
	ctl.Orch.ApplyControl(ctx, sid, kind, state)
}
