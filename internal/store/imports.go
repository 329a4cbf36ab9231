package store

import (
	"context"
	"database/sql"
	"errors"
)

// GetImportedFileHash returns the recorded hash of a seed file.
// Returns empty string and nil error if the file was never imported.
func (s *Store) GetImportedFileHash(ctx context.Context, path string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT sha256 FROM import_files WHERE path = $1`, path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return hash, err
}

// SetImportedFileHash upserts the hash of an imported seed file.
func (s *Store) SetImportedFileHash(ctx context.Context, path, hash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_files (path, sha256) VALUES ($1, $2)
		 ON CONFLICT (path) DO UPDATE SET sha256 = EXCLUDED.sha256`,
		path, hash)
	return err
}
