// Package queue holds the client's upload queue: the authoritative ordered
// collection of queued photos (Store) and the drain logic that pushes them
// through the transport (Scheduler).
package queue

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gontarzpawel/photo-pigeon-send/internal/client/models"
)

// UploadLedger is the dedup authority consulted on enqueue and updated on
// completion. Implemented by ledger.Ledger.
type UploadLedger interface {
	IsUploaded(path string) bool
	MarkUploaded(ctx context.Context, path string) error
}

// Listener receives a full snapshot of the queue after every mutation.
// Listeners are invoked synchronously while the store is locked, so they
// must return quickly and must not call back into the Store.
type Listener func(items []models.QueuedPhoto)

// Store is the single source of truth for queued uploads. All mutations are
// serialized by an internal mutex and each one is followed, before the lock
// is released, by a notification carrying a fresh snapshot. Subscribers can
// therefore never observe a torn intermediate state.
type Store struct {
	ledger UploadLedger

	mu      sync.Mutex
	items   []*models.QueuedPhoto
	subs    map[int]Listener
	nextSub int
}

func NewStore(ledger UploadLedger) *Store {
	return &Store{ledger: ledger, subs: make(map[int]Listener)}
}

// Add enqueues file for upload to serverURL+uploadPath. When originalPath is
// non-empty and already recorded in the ledger the call is a complete no-op:
// no item, no notification. Returns the new item's id and whether an item
// was created.
//
// URL validation is the caller's responsibility (validate.IsValidURL); the
// store does not re-check.
func (s *Store) Add(file models.LocalFile, serverURL, uploadPath string, source models.PhotoSource, originalPath string) (string, bool) {
	if originalPath != "" && s.ledger.IsUploaded(originalPath) {
		return "", false
	}

	item := &models.QueuedPhoto{
		ID:           uuid.NewString(),
		File:         file,
		Status:       models.StatusPending,
		Progress:     0,
		ServerURL:    serverURL,
		UploadPath:   uploadPath,
		Source:       source,
		OriginalPath: originalPath,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	s.notifyLocked()

	return item.ID, true
}

// Remove deletes the item regardless of status. An uploading item is first
// marked failed ("cancelled by user") and announced, reflecting that the
// in-flight HTTP call cannot be reliably stopped; its late result is then
// discarded because the id no longer resolves. Removing an unknown id is a
// no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return
	}

	if s.items[idx].Status == models.StatusUploading {
		s.items[idx].Status = models.StatusFailed
		s.items[idx].Error = "cancelled by user"
		s.notifyLocked()
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.notifyLocked()
}

// ClearCompleted removes every completed and failed item. Pending and
// uploading items are untouched. Idempotent.
func (s *Store) ClearCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	removed := false
	for _, item := range s.items {
		if item.Status == models.StatusCompleted || item.Status == models.StatusFailed {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept

	if removed {
		s.notifyLocked()
	}
}

// Subscribe registers listener and returns an unsubscribe function that is
// safe to call more than once. Multiple subscribers are allowed.
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = listener

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Snapshot returns a copy of the current queue in insertion order.
func (s *Store) Snapshot() []models.QueuedPhoto {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// IsFileUploaded is a pure ledger lookup.
func (s *Store) IsFileUploaded(originalPath string) bool {
	return s.ledger.IsUploaded(originalPath)
}

// PendingIDs returns the ids of all pending items in FIFO insertion order.
func (s *Store) PendingIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, item := range s.items {
		if item.Status == models.StatusPending {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// markUploading transitions a pending item to uploading and returns a copy
// of it. The second result is false when the item is gone or not pending,
// in which case the caller must skip the dispatch.
func (s *Store) markUploading(id string) (models.QueuedPhoto, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 || s.items[idx].Status != models.StatusPending {
		return models.QueuedPhoto{}, false
	}

	s.items[idx].Status = models.StatusUploading
	s.items[idx].Progress = 0
	s.notifyLocked()

	return *s.items[idx], true
}

// setProgress records progress for an uploading item. Regressions and
// writes to items in any other state are dropped, as are writes to removed
// ids (the late-result discard path).
func (s *Store) setProgress(id string, percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 || s.items[idx].Status != models.StatusUploading {
		return
	}
	if percent <= s.items[idx].Progress {
		return
	}

	s.items[idx].Progress = percent
	s.notifyLocked()
}

// markCompleted finalizes a successful attempt, forcing progress to 100.
// Returns false when the item was removed mid-flight.
func (s *Store) markCompleted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 || s.items[idx].Status != models.StatusUploading {
		return false
	}

	s.items[idx].Status = models.StatusCompleted
	s.items[idx].Progress = 100
	s.items[idx].Error = ""
	s.notifyLocked()

	return true
}

// markFailed finalizes a failed attempt with the transport's message,
// verbatim. Returns false when the item was removed mid-flight.
func (s *Store) markFailed(id string, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 || s.items[idx].Status != models.StatusUploading {
		return false
	}

	s.items[idx].Status = models.StatusFailed
	s.items[idx].Error = message
	s.notifyLocked()

	return true
}

func (s *Store) indexLocked(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []models.QueuedPhoto {
	snap := make([]models.QueuedPhoto, len(s.items))
	for i, item := range s.items {
		snap[i] = *item
	}
	return snap
}

func (s *Store) notifyLocked() {
	for _, listener := range s.subs {
		listener(s.snapshotLocked())
	}
}
