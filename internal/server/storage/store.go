// Package storage persists uploaded photos on disk, bucketed by capture
// date, with content-hash dedup.
//
// The dedup index is the directory tree itself: at startup every stored
// file is re-hashed into an in-memory SHA-256 -> relative-path map. The
// check-then-write sequence is a critical section, so two concurrent
// uploads of identical new content cannot both win.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gontarzpawel/photo-pigeon-send/internal/common"
	"github.com/gontarzpawel/photo-pigeon-send/internal/logging"
)

// DuplicateError reports a content-hash collision with an already stored
// photo.
type DuplicateError struct {
	// Path is the existing file, relative to the storage root.
	Path string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate content, already stored at %s", e.Path)
}

func (e *DuplicateError) Unwrap() error { return common.ErrDuplicate }

type Store struct {
	root string
	log  logging.Logger

	mu     sync.Mutex
	hashes map[string]string // content hash -> relative path
}

func New(root string, log logging.Logger) *Store {
	return &Store{root: root, log: log, hashes: make(map[string]string)}
}

// Hash returns the lowercase hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load rebuilds the hash index by walking the storage root. Unreadable
// files are logged and skipped so one bad file cannot block startup.
func (s *Store) Load(ctx context.Context) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create storage root: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn(ctx, "skipping unreadable file", "path", path, "error", err.Error())
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		s.hashes[Hash(data)] = filepath.ToSlash(rel)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk storage root: %w", err)
	}

	s.log.Info(ctx, "loaded existing photo hashes", "count", len(s.hashes))
	return nil
}

// Count returns the number of indexed photos.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hashes)
}

// Save writes data under <root>/YYYY/MM/DD/ derived from takenAt, names it
// after the upload timestamp plus the first 8 hash characters, and records
// the hash. Returns the stored path relative to the root.
//
// If the content hash is already indexed nothing is written and a
// *DuplicateError carrying the existing path is returned. A failed write is
// never indexed.
func (s *Store) Save(data []byte, originalName string, takenAt time.Time) (string, error) {
	hash := Hash(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.hashes[hash]; ok {
		return "", &DuplicateError{Path: existing}
	}

	dateDir := filepath.Join(
		fmt.Sprintf("%d", takenAt.Year()),
		fmt.Sprintf("%02d", takenAt.Month()),
		fmt.Sprintf("%02d", takenAt.Day()),
	)
	if err := os.MkdirAll(filepath.Join(s.root, dateDir), 0o755); err != nil {
		return "", fmt.Errorf("create date directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	filename := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), hash[:8], ext)
	relPath := filepath.ToSlash(filepath.Join(dateDir, filename))

	if err := os.WriteFile(filepath.Join(s.root, dateDir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}

	s.hashes[hash] = relPath
	return relPath, nil
}
