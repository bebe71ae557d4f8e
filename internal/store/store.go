// Package store is the local bbolt-backed cache: the last fetched catalog
// and the viewer's favorite ids, so the client renders instantly and works
// through platform hiccups.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmarder/screener/internal/domain"
)

// Bucket names
var (
	bucketCatalog   = []byte("catalog")
	bucketFavorites = []byte("favorites")
)

const (
	keyItems       = "items"
	keyFavoriteIDs = "ids"
)

// Store caches catalog items and favorite ids in bbolt with an in-memory
// hot-path layer promoted on access.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	cache map[string][]byte
}

// Open creates or opens the cache under dir. An empty dir yields a
// memory-only store with no persistence.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "screener.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketCatalog, bucketFavorites} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *Store) put(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", bucket, key, err)
	}

	s.mu.Lock()
	s.cache[string(bucket)+":"+key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("bucket %s missing", bucket)
		}
		return b.Put([]byte(key), data)
	})
}

// === Catalog ===

// GetItems returns the cached catalog, reporting whether one exists.
func (s *Store) GetItems() ([]*domain.MediaItem, bool) {
	var items []*domain.MediaItem
	if !s.get(bucketCatalog, keyItems, &items) {
		return nil, false
	}
	return items, true
}

// SaveItems replaces the cached catalog.
func (s *Store) SaveItems(items []*domain.MediaItem) error {
	return s.put(bucketCatalog, keyItems, items)
}

// === Favorites ===

// GetFavoriteIDs returns the cached favorite set, reporting whether one exists.
func (s *Store) GetFavoriteIDs() ([]string, bool) {
	var ids []string
	if !s.get(bucketFavorites, keyFavoriteIDs, &ids) {
		return nil, false
	}
	return ids, true
}

// SaveFavoriteIDs replaces the cached favorite set.
func (s *Store) SaveFavoriteIDs(ids []string) error {
	return s.put(bucketFavorites, keyFavoriteIDs, ids)
}
