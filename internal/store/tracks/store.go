// Package tracks persists metadata of uploaded audio tracks. The audio bytes
// themselves live in the content store under Track.Filename.
package tracks

import (
	"context"
	"errors"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/domain"
)

var ErrNotFound = errors.New("track not found")

type Store interface {
	Create(ctx context.Context, track *domain.Track) error
	FindID(ctx context.Context, id string) (*domain.Track, error)
	Delete(ctx context.Context, id string) error
}
