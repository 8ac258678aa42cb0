package tracks

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/store/content"
)

// Catalog is the room-facing view over track metadata plus the stored bytes.
// Rooms validate added tracks through it and release room-owned tracks when
// the room dies.
type Catalog struct {
	Tracks  Store
	Content content.Store
}

func NewCatalog(tracks Store, blobs content.Store) *Catalog {
	return &Catalog{Tracks: tracks, Content: blobs}
}

// Exists reports whether id resolves to a known track.
func (c *Catalog) Exists(ctx context.Context, id string) bool {
	_, err := c.Tracks.FindID(ctx, id)
	return err == nil
}

// Release deletes the track metadata and its stored bytes. Missing pieces are
// tolerated so a half-released track can be released again.
func (c *Catalog) Release(ctx context.Context, id string) error {
	track, err := c.Tracks.FindID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := c.Tracks.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := c.Content.Delete(ctx, track.Filename); err != nil && !errors.Is(err, content.ErrNotFound) {
		return err
	}
	log.Info().Str("module", "store.tracks").Str("track_id", id).Str("filename", track.Filename).Msg("released track")
	return nil
}
