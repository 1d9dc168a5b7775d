package snapshotstore

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/osa030/playq/internal/domain/snapshot"
)

// FileStore keeps the snapshot in a single JSON file.
// Writes go to a temporary file that is renamed over the target, so a crash leaves
// either the previous snapshot or the new one.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore creates a FileStore writing to path on fs.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the snapshot. A nil snapshot writes the null marker.
func (s *FileStore) Save(snap *snapshot.Snapshot) error {
	data, err := snapshot.Marshal(snap)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create snapshot directory")
		}
	}

	// Write atomically via temp file + rename
	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write snapshot")
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return errors.Wrap(err, "failed to replace snapshot")
	}
	return nil
}

// Load reads the snapshot. A missing file means no session.
func (s *FileStore) Load() (*snapshot.Snapshot, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read snapshot")
	}
	return decode(data, s.path)
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
