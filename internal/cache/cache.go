// Package cache is the content-addressed build cache. Each slide is keyed by
// the SHA-256 of its assembled text; under the prefix directory the cache
// keeps a side-car <hash>.tex holding the exact source last compiled and the
// compiled artifact <hash>.pdf. A slide is fresh iff its side-car bytes
// equal the current assembled text and the artifact exists. Compile metadata
// lives in a BoltDB alongside the files.
//
// Addressing by content rather than timestamps makes the cache immune to
// clock skew and reordering: only byte-identical assembled text counts as
// unchanged.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.etcd.io/bbolt"
)

const (
	// DefaultPrefix is the default cache directory name.
	DefaultPrefix = ".spv-cache"

	// dbName is the BoltDB file kept inside the prefix directory.
	dbName = "cache.db"

	// bucketName is the BoltDB bucket for slide entries.
	bucketName = "slides"
)

// entryFile matches side-car and artifact file names owned by the cache.
var entryFile = regexp.MustCompile(`^([0-9a-f]{64})\.(tex|pdf)$`)

// Cache manages the side-car/artifact files and metadata for one prefix
// directory.
type Cache struct {
	db     *bbolt.DB
	prefix string
}

// New opens the cache rooted at prefix, creating the directory and the
// metadata database as needed. An empty prefix uses DefaultPrefix under the
// working directory.
func New(prefix string) (*Cache, error) {
	if prefix == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}

		prefix = filepath.Join(cwd, DefaultPrefix)
	}

	if err := os.MkdirAll(prefix, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(prefix, dbName), 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &Cache{db: db, prefix: prefix}, nil
}

// Close closes the metadata database.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}

	return nil
}

// Prefix returns the cache directory.
func (c *Cache) Prefix() string {
	return c.prefix
}

// SidecarPath returns the side-car source path for a hash.
func (c *Cache) SidecarPath(hash string) string {
	return filepath.Join(c.prefix, hash+".tex")
}

// ArtifactPath returns the compiled artifact path for a hash.
func (c *Cache) ArtifactPath(hash string) string {
	return filepath.Join(c.prefix, hash+".pdf")
}

// IsStale reports whether a unit must be recompiled: always with force set,
// otherwise when the persisted side-car is unreadable or differs from the
// unit's assembled text, or when the artifact is missing. Read errors count
// as stale; the cache fails open toward rebuilding, never toward serving
// stale output.
func (c *Cache) IsStale(u Unit, force bool) bool {
	if force {
		return true
	}

	data, err := os.ReadFile(c.SidecarPath(u.Hash))
	if err != nil || string(data) != u.Assembled {
		return true
	}

	if _, err := os.Stat(c.ArtifactPath(u.Hash)); err != nil {
		return true
	}

	return false
}

// GarbageCollect removes every side-car, artifact and metadata entry whose
// hash is not in the required set. Removal is best effort; failures are
// reported through warn and never abort. Returns the number of files
// removed.
func (c *Cache) GarbageCollect(required map[string]struct{}, warn func(format string, args ...any)) int {
	removed := 0

	files, err := os.ReadDir(c.prefix)
	if err != nil {
		warn("could not list cache directory %s: %v", c.prefix, err)
		return 0
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}

		m := entryFile.FindStringSubmatch(f.Name())
		if m == nil {
			continue
		}

		if _, ok := required[m[1]]; ok {
			continue
		}

		path := filepath.Join(c.prefix, f.Name())
		if err := os.Remove(path); err != nil {
			warn("could not remove %s: %v", path, err)
			continue
		}

		removed++
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		cur := b.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			if _, ok := required[string(k)]; !ok {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		warn("could not prune cache metadata: %v", err)
	}

	return removed
}

// Record stores the metadata entry for a compiled slide.
func (c *Cache) Record(entry Entry) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		return b.Put([]byte(entry.Hash), data)
	})
}

// Get retrieves the metadata entry for a hash. Returns nil on a miss.
func (c *Cache) Get(hash string) (*Entry, error) {
	var entry Entry

	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		data := b.Get([]byte(hash))
		if data == nil {
			return nil
		}

		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return nil, err
	}

	if entry.Hash == "" {
		return nil, nil
	}

	return &entry, nil
}

// Stats returns the number of metadata entries and the total size in bytes
// of the cached side-car and artifact files.
func (c *Cache) Stats() (int, int64, error) {
	var count int

	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		count = b.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	var totalSize int64

	files, err := os.ReadDir(c.prefix)
	if err != nil {
		return count, 0, err
	}

	for _, f := range files {
		if f.IsDir() || !entryFile.MatchString(f.Name()) {
			continue
		}

		if info, err := f.Info(); err == nil {
			totalSize += info.Size()
		}
	}

	return count, totalSize, nil
}
