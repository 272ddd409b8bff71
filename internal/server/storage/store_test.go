package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gontarzpawel/photo-pigeon-send/internal/common"
	"github.com/gontarzpawel/photo-pigeon-send/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), logging.NewDiscard())
}

func TestStore_SaveBucketsByDate(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Load(context.Background()))

	takenAt := time.Date(2023, 5, 14, 10, 30, 0, 0, time.UTC)
	rel, err := s.Save([]byte("photo-bytes"), "Holiday.JPG", takenAt)
	require.NoError(t, err)

	assert.Equal(t, "2023/05/14", filepath.ToSlash(filepath.Dir(rel)))
	name := filepath.Base(rel)
	assert.Contains(t, name, Hash([]byte("photo-bytes"))[:8])
	assert.Equal(t, ".jpg", filepath.Ext(name), "extension should be lower-cased")

	assert.FileExists(t, filepath.Join(s.root, filepath.FromSlash(rel)))
	assert.Equal(t, 1, s.Count())
}

func TestStore_SaveRejectsDuplicateContent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Load(context.Background()))

	data := []byte("same content")
	first, err := s.Save(data, "a.jpg", time.Now())
	require.NoError(t, err)

	_, err = s.Save(data, "b.png", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicate)

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first, dup.Path)
	assert.Equal(t, 1, s.Count())
}

func TestStore_LoadRebuildsIndex(t *testing.T) {
	root := t.TempDir()
	log := logging.NewDiscard()

	s1 := New(root, log)
	require.NoError(t, s1.Load(context.Background()))

	existing, err := s1.Save([]byte("persisted"), "x.jpeg", time.Now())
	require.NoError(t, err)

	s2 := New(root, log)
	require.NoError(t, s2.Load(context.Background()))
	assert.Equal(t, 1, s2.Count())

	_, err = s2.Save([]byte("persisted"), "y.jpeg", time.Now())
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, existing, dup.Path)
}

func TestStore_SaveDistinctContent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Load(context.Background()))

	for i := 0; i < 5; i++ {
		_, err := s.Save([]byte(fmt.Sprintf("photo-%d", i)), "p.jpg", time.Now())
		require.NoError(t, err)
	}
	assert.Equal(t, 5, s.Count())
}
