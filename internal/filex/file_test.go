package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads", "2023")

	require.NoError(t, EnsureDir(dir))

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")
}

func TestEnsureDir_ExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, EnsureDir(dir))
}
