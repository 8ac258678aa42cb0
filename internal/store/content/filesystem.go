package content

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

type filesystemStore struct {
	basePath string
}

// NewFilesystemStore keeps every object as one file under basePath.
func NewFilesystemStore(basePath string) (Store, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}
	return &filesystemStore{basePath: basePath}, nil
}

// path flattens the filename so a crafted name cannot escape basePath.
func (s *filesystemStore) path(filename string) string {
	return filepath.Join(s.basePath, filepath.Base(filename))
}

func (s *filesystemStore) Put(ctx context.Context, filename string, r io.Reader) (int64, error) {
	f, err := os.Create(s.path(filename))
	if err != nil {
		return 0, fmt.Errorf("create content file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(s.path(filename))
		return 0, fmt.Errorf("write content file: %w", err)
	}
	log.Info().Str("module", "store.content").Str("filename", filename).Int64("size", n).Msg("stored content")
	return n, nil
}

func (s *filesystemStore) Open(ctx context.Context, filename string) (File, error) {
	f, err := os.Open(s.path(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open content file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat content file: %w", err)
	}
	return &osFile{File: f, size: info.Size()}, nil
}

func (s *filesystemStore) Delete(ctx context.Context, filename string) error {
	err := os.Remove(s.path(filename))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

type osFile struct {
	*os.File
	size int64
}

func (f *osFile) Length() int64 { return f.size }
