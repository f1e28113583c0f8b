// Package state persists the small between-run files: the article
// snapshot cache and the tweet checkpoint. Both live under the ref
// directory as human-readable JSON.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"NewsLedger/internal/domain"
	"NewsLedger/internal/ports"
)

// FileCache stores the per-URL article snapshots.
type FileCache struct {
	path string
}

var _ ports.ArticleCache = (*FileCache)(nil)

// NewFileCache points the cache at its JSON file.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Load reads the snapshot map. A missing file is an empty cache, not
// an error; a corrupt file is reported so the caller can decide to
// start fresh.
func (c *FileCache) Load(ctx context.Context) (map[string]domain.CachedArticle, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]domain.CachedArticle{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read article cache: %w", err)
	}

	var entries map[string]domain.CachedArticle
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse article cache: %w", err)
	}
	if entries == nil {
		entries = map[string]domain.CachedArticle{}
	}
	return entries, nil
}

// Save writes the snapshot map, creating the ref directory on first use.
func (c *FileCache) Save(ctx context.Context, entries map[string]domain.CachedArticle) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal article cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write article cache: %w", err)
	}
	return nil
}

// SinceIDFile stores the newest tweet ID seen by the X side channel.
type SinceIDFile struct {
	path string
}

var _ ports.Checkpoint = (*SinceIDFile)(nil)

// NewSinceIDFile points the checkpoint at its JSON file.
func NewSinceIDFile(path string) *SinceIDFile {
	return &SinceIDFile{path: path}
}

type checkpointPayload struct {
	SinceID string `json:"since_id"`
}

// Load returns the stored ID, or empty when no checkpoint exists yet.
func (s *SinceIDFile) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read checkpoint: %w", err)
	}

	var payload checkpointPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("parse checkpoint: %w", err)
	}
	return payload.SinceID, nil
}

// Save stores the newest seen ID.
func (s *SinceIDFile) Save(ctx context.Context, id string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}
	data, err := json.MarshalIndent(checkpointPayload{SinceID: id}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}
