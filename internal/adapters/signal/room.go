package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/core"
)

func (ctl *Controller) handleCreateRoom(ctx context.Context, sid core.SessionID, data []byte) {
	var p struct {
		Type     string `json:"type"`
		OnlyHost bool   `json:"onlyHost"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad createRoom payload")
		return
	}
	ctl.Orch.CreateRoom(ctx, sid, p.OnlyHost)
}

func (ctl *Controller) handleJoinRoom(ctx context.Context, sid core.SessionID, data []byte) {
	var p struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad joinRoom payload")
		return
	}
	ctl.Orch.JoinRoom(ctx, sid, p.RoomID)
}

func (ctl *Controller) handleAddTrack(ctx context.Context, sid core.SessionID, data []byte) {
	var p struct {
		Type    string `json:"type"`
		TrackID string `json:"trackId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad addTrack payload")
		return
	}
	ctl.Orch.AddTrack(ctx, sid, p.TrackID)
}

func (ctl *Controller) handleChangeTrack(ctx context.Context, sid core.SessionID, data []byte) {
	var p struct {
		Type    string       `json:"type"`
		TrackID string       `json:"trackId"`
		State   statePayload `json:"state"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad changeTrack payload")
		return
	}
	state, err := p.State.validate()
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("invalid changeTrack state")
		return
	}
	ctl.Orch.ChangeTrack(ctx, sid, p.TrackID, state)
}
