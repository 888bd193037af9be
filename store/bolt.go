package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultBucket is the bbolt bucket terms are stored in.
const DefaultBucket = "verbiage"

// BoltStore is a single-file on-disk store backed by bbolt.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBolt opens or creates a bbolt database at path. Missing parent
// directories are created.
func OpenBolt(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	bucket := []byte(DefaultBucket)
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db, bucket: bucket}, nil
}

// Get retrieves a value. Read errors report a miss.
func (s *BoltStore) Get(key string) (string, bool) {
	var (
		out    string
		exists bool
	)
	_ = s.db.View(func(tx *bolt.Tx) error {
		k, v := tx.Bucket(s.bucket).Cursor().Seek([]byte(key))
		if k == nil || string(k) != key {
			return nil
		}
		exists = true
		out = string(v)
		return nil
	})
	return out, exists
}

// Set stores a value.
func (s *BoltStore) Set(key string, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), []byte(value))
	})
}

// Remove deletes a key.
func (s *BoltStore) Remove(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

// Keys returns all keys with the given prefix in byte order.
func (s *BoltStore) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys, err
}

// Path returns the database file path.
func (s *BoltStore) Path() string {
	return s.db.Path()
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ Backend = (*BoltStore)(nil)
