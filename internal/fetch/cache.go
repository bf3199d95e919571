package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Cache is a content-addressed disk cache keyed by request URL.
type Cache struct {
	dir string
}

// NewCache creates the cache directory if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// Get returns the cached body for url, if any.
func (c *Cache) Get(url string) ([]byte, bool) {
	body, err := os.ReadFile(c.entryPath(url))
	if err != nil {
		return nil, false
	}
	return body, true
}

// Put stores body for url. The write goes through a uniquely named temp
// file and a rename, so a partial write never becomes visible as a cache
// entry.
func (c *Cache) Put(url string, body []byte) error {
	entry := c.entryPath(url)
	tmp := entry + "." + uuid.NewString() + ".tmp"

	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := os.Rename(tmp, entry); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

func (c *Cache) entryPath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:]))
}
