// Package snapcache persists the last catalog snapshot as a JSON file so the
// catalog can be bootstrapped without reaching the remote source.
package snapcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mkoelzer/songbase/internal/domain"
)

type Cache struct {
	path string
}

func New(path string) *Cache {
	return &Cache{path: path}
}

// Load reads the cached snapshot. A missing file returns (nil, nil).
func (c *Cache) Load() ([]domain.Song, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot cache: %w", err)
	}

	var songs []domain.Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot cache: %w", err)
	}
	return songs, nil
}

// Dump atomically replaces the cached snapshot.
func (c *Cache) Dump(songs []domain.Song) error {
	data, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close snapshot cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot cache: %w", err)
	}
	return nil
}
