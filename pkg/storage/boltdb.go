package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/quarry-storage/quarry/pkg/types"
)

var bucketNexusInfo = []byte("nexus_info")

// BoltStore implements NexusInfoStore using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "quarry.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketNexusInfo); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketNexusInfo, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// GetNexusInfo returns the persisted health record, or nil when the nexus
// has never been created.
func (s *BoltStore) GetNexusInfo(owner *types.VolumeID, nexus types.NexusID) (*types.NexusInfo, error) {
	var info *types.NexusInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNexusInfo)
		data := b.Get([]byte(types.NexusInfoKey(owner, nexus)))
		if data == nil {
			return nil
		}
		info = &types.NexusInfo{}
		return json.Unmarshal(data, info)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get nexus info for %s: %w", nexus, err)
	}
	return info, nil
}

// PutNexusInfo stores the health record for a nexus.
func (s *BoltStore) PutNexusInfo(owner *types.VolumeID, nexus types.NexusID, info *types.NexusInfo) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNexusInfo)
		data, err := json.Marshal(info)
		if err != nil {
			return err
		}
		return b.Put([]byte(types.NexusInfoKey(owner, nexus)), data)
	})
}

// DeleteNexusInfo removes the record for a destroyed nexus.
func (s *BoltStore) DeleteNexusInfo(owner *types.VolumeID, nexus types.NexusID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNexusInfo)
		return b.Delete([]byte(types.NexusInfoKey(owner, nexus)))
	})
}
