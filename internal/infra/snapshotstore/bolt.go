package snapshotstore

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/osa030/playq/internal/domain/snapshot"
)

// BoltStore keeps the snapshot under one key of a bbolt bucket.
// Each save is a committed transaction.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
	key    []byte
}

// OpenBoltStore opens (or creates) the database at path.
// timeout bounds the wait for the file lock held by another process.
func OpenBoltStore(path, bucket, key string, timeout time.Duration) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create snapshot directory")
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open bolt database")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to create bucket %q", bucket)
	}

	return &BoltStore{db: db, bucket: []byte(bucket), key: []byte(key)}, nil
}

// Save writes the snapshot. A nil snapshot writes the null marker.
func (s *BoltStore) Save(snap *snapshot.Snapshot) error {
	data, err := snapshot.Marshal(snap)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(s.key, data)
	})
	if err != nil {
		return errors.Wrap(err, "failed to write snapshot")
	}
	return nil
}

// Load reads the snapshot. A missing key means no session.
func (s *BoltStore) Load() (*snapshot.Snapshot, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(s.bucket).Get(s.key); v != nil {
			// v is only valid inside the transaction
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read snapshot")
	}
	if data == nil {
		return nil, nil
	}
	return decode(data, s.db.Path())
}

// Close closes the database.
func (s *BoltStore) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, "failed to close bolt database")
	}
	return nil
}
