package tracks

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/domain"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/store/content"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tracks.db"))
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func TestCreateFindDelete(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			track := &domain.Track{
				ID:       "t-1",
				Title:    "some song",
				Filename: "abc.mp3",
				BinaryID: "bin-1",
				Duration: 180.5,
			}
			require.NoError(t, store.Create(ctx, track))

			got, err := store.FindID(ctx, "t-1")
			require.NoError(t, err)
			assert.Equal(t, track, got)

			_, err = store.FindID(ctx, "t-2")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Delete(ctx, "t-1"))
			_, err = store.FindID(ctx, "t-1")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, store.Delete(ctx, "t-1"), ErrNotFound)
		})
	}
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	trackStore := NewMemoryStore()
	blobStore := content.NewMemoryStore()
	catalog := NewCatalog(trackStore, blobStore)

	_, err := blobStore.Put(ctx, "abc.mp3", strings.NewReader("audio bytes"))
	require.NoError(t, err)
	require.NoError(t, trackStore.Create(ctx, &domain.Track{ID: "t-1", Title: "s", Filename: "abc.mp3", BinaryID: "b"}))

	assert.True(t, catalog.Exists(ctx, "t-1"))
	assert.False(t, catalog.Exists(ctx, "t-2"))

	require.NoError(t, catalog.Release(ctx, "t-1"))
	assert.False(t, catalog.Exists(ctx, "t-1"))
	_, err = blobStore.Open(ctx, "abc.mp3")
	assert.ErrorIs(t, err, content.ErrNotFound)

	// Releasing an already-released or unknown track is a no-op.
	require.NoError(t, catalog.Release(ctx, "t-1"))
	require.NoError(t, catalog.Release(ctx, "never-existed"))
}
