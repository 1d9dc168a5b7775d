package snapshotstore

import (
	"github.com/osa030/playq/internal/domain/snapshot"
)

// MemoryStore keeps the encoded snapshot in memory. Nothing survives the process.
type MemoryStore struct {
	data  []byte
	saves int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save encodes and keeps the snapshot.
func (s *MemoryStore) Save(snap *snapshot.Snapshot) error {
	data, err := snapshot.Marshal(snap)
	if err != nil {
		return err
	}
	s.data = data
	s.saves++
	return nil
}

// Load decodes the kept snapshot.
func (s *MemoryStore) Load() (*snapshot.Snapshot, error) {
	if s.data == nil {
		return nil, nil
	}
	return decode(s.data, "memory")
}

// Saves returns the number of completed saves.
func (s *MemoryStore) Saves() int {
	return s.saves
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
