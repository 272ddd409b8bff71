package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gontarzpawel/photo-pigeon-send/internal/client/models"
	"github.com/gontarzpawel/photo-pigeon-send/internal/client/transport"
	"github.com/gontarzpawel/photo-pigeon-send/internal/common"
	"github.com/gontarzpawel/photo-pigeon-send/internal/logging"
)

// The real transport must slot into the scheduler unchanged.
var _ Uploader = (*transport.Uploader)(nil)

type staticAuth string

func (a staticAuth) AuthHeader() string { return string(a) }

// stubUploader scripts upload outcomes per file name and records calls.
type stubUploader struct {
	mu       sync.Mutex
	calls    map[string]int
	fail     map[string]error
	block    chan struct{} // when non-nil, uploads wait here before returning
	progress []int         // progress values to emit before finishing
	urls     []string
}

func newStubUploader() *stubUploader {
	return &stubUploader{calls: make(map[string]int), fail: make(map[string]error)}
}

func (u *stubUploader) Upload(ctx context.Context, file models.LocalFile, url string, authHeader string, onProgress func(int)) error {
	u.mu.Lock()
	u.calls[file.Name]++
	u.urls = append(u.urls, url)
	block := u.block
	u.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return transport.ErrAborted
		}
	}

	for _, p := range u.progress {
		if onProgress != nil {
			onProgress(p)
		}
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if err, ok := u.fail[file.Name]; ok {
		return err
	}
	return nil
}

func (u *stubUploader) attempts(name string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls[name]
}

func newTestScheduler(t *testing.T, uploader Uploader, ledger UploadLedger) (*Scheduler, *Store) {
	t.Helper()
	store := NewStore(ledger)
	sched := NewScheduler(store, uploader, staticAuth("Bearer tok"), ledger, logging.NewDiscard())
	return sched, store
}

func TestDrain_UploadsAllPending(t *testing.T) {
	uploader := newStubUploader()
	uploader.progress = []int{25, 50, 100}
	ledger := newFakeLedger()
	sched, store := newTestScheduler(t, uploader, ledger)

	store.Add(testFile("a.jpg"), "http://h", "upload", models.SourceGallery, "/photos/a.jpg")
	store.Add(testFile("b.jpg"), "http://h/", "/upload", models.SourceGallery, "/photos/b.jpg")

	require.NoError(t, sched.StartUploadAll(context.Background()))
	sched.Wait()

	for _, item := range store.Snapshot() {
		assert.Equal(t, models.StatusCompleted, item.Status)
		assert.Equal(t, 100, item.Progress)
	}

	// Both identities recorded in the ledger afterward.
	assert.True(t, ledger.IsUploaded("/photos/a.jpg"))
	assert.True(t, ledger.IsUploaded("/photos/b.jpg"))

	// Destination resolved with exactly one slash, regardless of input shape.
	assert.ElementsMatch(t, []string{"http://h/upload", "http://h/upload"}, uploader.urls)
}

func TestStartUploadAll_NoToken_LeavesQueueUntouched(t *testing.T) {
	uploader := newStubUploader()
	store := NewStore(newFakeLedger())
	sched := NewScheduler(store, uploader, staticAuth(""), newFakeLedger(), logging.NewDiscard())

	store.Add(testFile("a.jpg"), "http://h", "upload", models.SourceFile, "/photos/a.jpg")

	err := sched.StartUploadAll(context.Background())
	require.ErrorIs(t, err, common.ErrAuthRequired)
	sched.Wait()

	assert.Equal(t, models.StatusPending, store.Snapshot()[0].Status)
	assert.Zero(t, uploader.attempts("a.jpg"))
}

func TestStartUploadAll_AbsorbedWhileDraining(t *testing.T) {
	uploader := newStubUploader()
	uploader.block = make(chan struct{})
	ledger := newFakeLedger()
	sched, store := newTestScheduler(t, uploader, ledger)

	store.Add(testFile("a.jpg"), "http://h", "upload", models.SourceFile, "/photos/a.jpg")

	require.NoError(t, sched.StartUploadAll(context.Background()))

	// Wait until the item is actually in flight.
	require.Eventually(t, func() bool {
		return uploader.attempts("a.jpg") == 1
	}, time.Second, time.Millisecond)

	// Re-trigger during the cycle: absorbed, no second attempt.
	require.NoError(t, sched.StartUploadAll(context.Background()))

	close(uploader.block)
	sched.Wait()

	assert.Equal(t, 1, uploader.attempts("a.jpg"), "one attempt per drain cycle")
}

func TestDrain_ItemAddedMidCycle_WaitsForNextTrigger(t *testing.T) {
	uploader := newStubUploader()
	uploader.block = make(chan struct{})
	ledger := newFakeLedger()
	sched, store := newTestScheduler(t, uploader, ledger)

	store.Add(testFile("a.jpg"), "http://h", "upload", models.SourceFile, "/photos/a.jpg")
	require.NoError(t, sched.StartUploadAll(context.Background()))

	require.Eventually(t, func() bool {
		return uploader.attempts("a.jpg") == 1
	}, time.Second, time.Millisecond)

	store.Add(testFile("late.jpg"), "http://h", "upload", models.SourceFile, "/photos/late.jpg")

	close(uploader.block)
	sched.Wait()

	assert.Zero(t, uploader.attempts("late.jpg"))

	snap := store.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, models.StatusPending, snap[1].Status, "mid-cycle item stays pending, never dropped")

	// The next explicit trigger picks it up.
	require.NoError(t, sched.StartUploadAll(context.Background()))
	sched.Wait()
	assert.Equal(t, 1, uploader.attempts("late.jpg"))
}

func TestDrain_FailureIsFinalAndVerbatim(t *testing.T) {
	uploader := newStubUploader()
	uploader.fail["dup.jpg"] = &transport.StatusError{
		Code:    409,
		Message: "This exact image has already been uploaded previously.",
	}
	ledger := newFakeLedger()
	sched, store := newTestScheduler(t, uploader, ledger)

	store.Add(testFile("dup.jpg"), "http://h", "upload", models.SourceFile, "/photos/dup.jpg")
	store.Add(testFile("ok.jpg"), "http://h", "upload", models.SourceFile, "/photos/ok.jpg")

	require.NoError(t, sched.StartUploadAll(context.Background()))
	sched.Wait()

	snap := store.Snapshot()
	require.Len(t, snap, 2)

	assert.Equal(t, models.StatusFailed, snap[0].Status)
	assert.Contains(t, snap[0].Error, "already been uploaded")
	assert.False(t, ledger.IsUploaded("/photos/dup.jpg"), "failed items never enter the ledger")

	// A sibling failure does not abort the other upload.
	assert.Equal(t, models.StatusCompleted, snap[1].Status)

	// No automatic retry on a subsequent cycle: the item is failed, not pending.
	require.NoError(t, sched.StartUploadAll(context.Background()))
	sched.Wait()
	assert.Equal(t, 1, uploader.attempts("dup.jpg"))
}

func TestDrain_RemovedMidFlight_ResultDiscarded(t *testing.T) {
	uploader := newStubUploader()
	uploader.block = make(chan struct{})
	ledger := newFakeLedger()
	sched, store := newTestScheduler(t, uploader, ledger)

	id, _ := store.Add(testFile("a.jpg"), "http://h", "upload", models.SourceFile, "/photos/a.jpg")

	require.NoError(t, sched.StartUploadAll(context.Background()))
	require.Eventually(t, func() bool {
		return uploader.attempts("a.jpg") == 1
	}, time.Second, time.Millisecond)

	store.Remove(id)

	close(uploader.block)
	sched.Wait()

	assert.Empty(t, store.Snapshot(), "late result must not resurrect the item")
	assert.False(t, ledger.IsUploaded("/photos/a.jpg"))
}

func TestDedupIdempotence_AddAfterCompletedIsNoop(t *testing.T) {
	uploader := newStubUploader()
	ledger := newFakeLedger()
	sched, store := newTestScheduler(t, uploader, ledger)

	_, added := store.Add(testFile("a.jpg"), "http://h", "upload", models.SourceGallery, "/photos/a.jpg")
	require.True(t, added)

	require.NoError(t, sched.StartUploadAll(context.Background()))
	sched.Wait()

	_, added = store.Add(testFile("a.jpg"), "http://h", "upload", models.SourceGallery, "/photos/a.jpg")
	assert.False(t, added)

	require.NoError(t, sched.StartUploadAll(context.Background()))
	sched.Wait()

	assert.Equal(t, 1, uploader.attempts("a.jpg"), "exactly one item ever enters uploading")
}
