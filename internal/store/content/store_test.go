package content

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"memory":     NewMemoryStore(),
		"filesystem": fs,
	}
}

func TestPutOpenReadRange(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			data := []byte(strings.Repeat("abcdefghij", 100))

			n, err := store.Put(ctx, "song.mp3", bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, int64(1000), n)

			f, err := store.Open(ctx, "song.mp3")
			require.NoError(t, err)
			defer f.Close()
			assert.Equal(t, int64(1000), f.Length())

			chunk := make([]byte, 100)
			_, err = f.ReadAt(chunk, 200)
			require.NoError(t, err)
			assert.Equal(t, data[200:300], chunk)

			// A section reader over the handle is how the range server streams.
			var out bytes.Buffer
			_, err = io.Copy(&out, io.NewSectionReader(f, 990, 10))
			require.NoError(t, err)
			assert.Equal(t, data[990:], out.Bytes())
		})
	}
}

func TestOpenMissing(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Open(context.Background(), "nope.mp3")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.Put(ctx, "gone.mp3", strings.NewReader("bytes"))
			require.NoError(t, err)

			require.NoError(t, store.Delete(ctx, "gone.mp3"))
			_, err = store.Open(ctx, "gone.mp3")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, store.Delete(ctx, "gone.mp3"), ErrNotFound)
		})
	}
}

func TestFilesystemFlattensPaths(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "../../escape.mp3", strings.NewReader("x"))
	require.NoError(t, err)

	// The object is reachable only under its base name, inside the store dir.
	f, err := store.Open(ctx, "escape.mp3")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
