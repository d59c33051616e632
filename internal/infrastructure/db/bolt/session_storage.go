package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const defaultBucket = "portal_sessions"

// SessionStorage keeps session values in a single BoltDB bucket. It suits a
// single portal instance with no Redis or MongoDB at hand.
type SessionStorage struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path, bucket string) (*SessionStorage, error) {
	if bucket == "" {
		bucket = defaultBucket
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("bolt dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt open %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("bolt bucket: %w", err)
	}

	return &SessionStorage{db: db, bucket: []byte(bucket)}, nil
}

func (s *SessionStorage) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(s.bucket).Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("bolt get %s: %w", key, err)
	}
	return value, found, nil
}

func (s *SessionStorage) Set(_ context.Context, key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), []byte(value))
	})
}

func (s *SessionStorage) Delete(_ context.Context, keys ...string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ping reports whether the database file is still open.
func (s *SessionStorage) Ping(context.Context) error {
	return s.db.View(func(*bolt.Tx) error { return nil })
}

// Close closes the underlying database.
func (s *SessionStorage) Close() error {
	return s.db.Close()
}
