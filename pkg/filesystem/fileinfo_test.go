package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julien-sobczak/the-notewriter-live/pkg/clock"
	"github.com/julien-sobczak/the-notewriter-live/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardFileInfoReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("temporary file content"), 0644))

	stat, err := filesystem.Stat(path)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), stat.ModTime(), 10*time.Second)
	assert.Greater(t, stat.Size(), int64(1))
}

func TestClockBasedFileInfoReader(t *testing.T) {
	clock.FreezeAt(time.Date(2023, 01, 01, 14, 00, 00, 00, time.UTC))
	defer clock.Unfreeze()
	filesystem.OverrideFileInfoReader(filesystem.NewClockBasedFileInfoReader())
	defer filesystem.RestoreFileInfoReader()

	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("temporary file content"), 0644))

	modTime, err := filesystem.ModTime(path)
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), modTime)

	_, err = filesystem.ModTime(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
