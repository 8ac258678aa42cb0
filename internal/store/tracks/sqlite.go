package tracks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/domain"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the track table at dataSourceName.
func NewSQLiteStore(dataSourceName string) (Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	schema := `CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		filename TEXT NOT NULL,
		binary_id TEXT NOT NULL,
		duration REAL NOT NULL DEFAULT 0
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tracks table: %w", err)
	}
	log.Info().Str("module", "store.tracks").Str("dsn", dataSourceName).Msg("sqlite track store ready")
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Create(ctx context.Context, track *domain.Track) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tracks (id, title, filename, binary_id, duration) VALUES (?, ?, ?, ?, ?)",
		track.ID, track.Title, track.Filename, track.BinaryID, track.Duration)
	if err != nil {
		return fmt.Errorf("insert track: %w", err)
	}
	return nil
}

func (s *sqliteStore) FindID(ctx context.Context, id string) (*domain.Track, error) {
	var track domain.Track
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, filename, binary_id, duration FROM tracks WHERE id = ?", id).
		Scan(&track.ID, &track.Title, &track.Filename, &track.BinaryID, &track.Duration)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select track: %w", err)
	}
	return &track, nil
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tracks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete track: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
