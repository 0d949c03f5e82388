package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Cache stores fetched bodies keyed by URL. Implementations are created
// before a build, flushed between runs if needed and closed afterwards.
type Cache interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Put(ctx context.Context, url string, body []byte) error
	// Flush drops every cached body.
	Flush(ctx context.Context) error
	Close() error
}

// DirCache keeps one file per URL, named by the SHA-256 of the URL.
type DirCache struct {
	dir string
}

// NewDirCache creates the cache directory if needed.
func NewDirCache(dir string) (*DirCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DirCache{dir: dir}, nil
}

// Key returns the file name used for url.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

func (c *DirCache) path(url string) string {
	return filepath.Join(c.dir, Key(url))
}

// Get returns the cached body for url; a missing file is a miss, not an error.
func (c *DirCache) Get(_ context.Context, url string) ([]byte, bool, error) {
	b, err := os.ReadFile(c.path(url))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Put writes through a temp file so a crashed build never leaves a partial body.
func (c *DirCache) Put(_ context.Context, url string, body []byte) error {
	tmp, err := os.CreateTemp(c.dir, ".partial-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path(url))
}

// Flush removes every cached file, leaving the directory in place.
func (c *DirCache) Flush(_ context.Context) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op; DirCache holds no open handles.
func (c *DirCache) Close() error { return nil }
