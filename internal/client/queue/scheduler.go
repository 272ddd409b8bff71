package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/gontarzpawel/photo-pigeon-send/internal/analytics"
	"github.com/gontarzpawel/photo-pigeon-send/internal/client/models"
	"github.com/gontarzpawel/photo-pigeon-send/internal/common"
	"github.com/gontarzpawel/photo-pigeon-send/internal/logging"
	"github.com/gontarzpawel/photo-pigeon-send/internal/validate"
)

const (
	// DefaultConcurrency bounds how many uploads may be in flight at once
	// during a drain cycle.
	DefaultConcurrency = 3

	// DefaultUploadTimeout bounds a single upload attempt. The original
	// client had no timeout at all; a stuck connection would hang the
	// queue item forever.
	DefaultUploadTimeout = 5 * time.Minute
)

// Uploader performs exactly one upload attempt. Implemented by
// transport.Uploader.
type Uploader interface {
	Upload(ctx context.Context, file models.LocalFile, url string, authHeader string, onProgress func(percent int)) error
}

// AuthProvider supplies the bearer header for dispatched uploads. The
// scheduler attaches it without inspecting or persisting it.
type AuthProvider interface {
	AuthHeader() string
}

// Scheduler drains pending queue items through the Uploader with bounded
// concurrency. There is no automatic retry: each item gets at most one
// attempt per drain cycle and terminal states are final.
type Scheduler struct {
	store    *Store
	uploader Uploader
	auth     AuthProvider
	ledger   UploadLedger
	sink     analytics.Sink
	log      logging.Logger

	concurrency int64
	timeout     time.Duration

	draining atomic.Bool
	wg       sync.WaitGroup
}

// Option tweaks a Scheduler.
type Option func(*Scheduler)

// WithConcurrency overrides the dispatch bound. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(s *Scheduler) {
		if n >= 1 {
			s.concurrency = int64(n)
		}
	}
}

// WithUploadTimeout overrides the per-item attempt timeout.
func WithUploadTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithAnalytics attaches an analytics sink for completion/failure events.
func WithAnalytics(sink analytics.Sink) Option {
	return func(s *Scheduler) {
		if sink != nil {
			s.sink = sink
		}
	}
}

func NewScheduler(store *Store, uploader Uploader, auth AuthProvider, ledger UploadLedger, log logging.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:       store,
		uploader:    uploader,
		auth:        auth,
		ledger:      ledger,
		sink:        analytics.Noop{},
		log:         log,
		concurrency: DefaultConcurrency,
		timeout:     DefaultUploadTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartUploadAll triggers one drain cycle over the items pending right now,
// in FIFO order. The call returns immediately; the cycle runs in the
// background. While a cycle is in progress further calls are absorbed.
// Items added mid-cycle wait for the next trigger.
//
// Returns common.ErrAuthRequired, without touching any item, when no bearer
// token is available at dispatch time.
func (s *Scheduler) StartUploadAll(ctx context.Context) error {
	if s.auth.AuthHeader() == "" {
		return common.ErrAuthRequired
	}

	if !s.draining.CompareAndSwap(false, true) {
		return nil
	}

	ids := s.store.PendingIDs()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.draining.Store(false)
		s.drain(ctx, ids)
	}()

	return nil
}

// Wait blocks until the current drain cycle (if any) finishes.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) drain(ctx context.Context, ids []string) {
	sem := semaphore.NewWeighted(s.concurrency)
	var wg sync.WaitGroup

	for _, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context gone: remaining items simply stay pending for the
			// next cycle.
			break
		}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			defer sem.Release(1)
			s.process(ctx, id)
		}(id)
	}

	wg.Wait()
}

// process runs one upload attempt for one item. Every failure path ends in
// the item's Error field; nothing is silently dropped.
func (s *Scheduler) process(ctx context.Context, id string) {
	item, ok := s.store.markUploading(id)
	if !ok {
		// Removed or already handled between snapshot and dispatch.
		return
	}

	url := validate.JoinAPIURL(item.ServerURL, item.UploadPath)

	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.uploader.Upload(attemptCtx, item.File, url, s.auth.AuthHeader(), func(percent int) {
		s.store.setProgress(id, percent)
	})

	if err != nil {
		if s.store.markFailed(id, err.Error()) {
			s.log.Warn(ctx, "upload failed", "id", id, "file", item.File.Name, "error", err.Error())
			_ = s.sink.Track(ctx, "", "upload_failed", analytics.Properties{"source": string(item.Source)})
		}
		return
	}

	if !s.store.markCompleted(id) {
		// Removed mid-flight: discard the result, leave no trace.
		return
	}

	if item.OriginalPath != "" {
		if err := s.ledger.MarkUploaded(ctx, item.OriginalPath); err != nil {
			s.log.Error(ctx, "failed to persist ledger entry", "path", item.OriginalPath, "error", err.Error())
		}
	}

	s.log.Info(ctx, "upload completed", "id", id, "file", item.File.Name)
	_ = s.sink.Track(ctx, "", "upload_completed", analytics.Properties{"source": string(item.Source)})
}
