package medias

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julien-sobczak/the-notewriter-live/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheLocal(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, filepath.Join(dir, "a.png"), 900, 300)

	var generations int
	converter := NewNativeConverter()
	converter.OnPreGeneration(func(cmd string, args ...string) {
		generations++
	})
	cache := NewCache(filepath.Join(dir, "cache"), converter, 450, time.Hour)

	thumbnail, err := cache.Thumbnail(src, false)
	require.NoError(t, err)
	assert.Equal(t, src, thumbnail.Source)
	assert.Equal(t, cache.Path(src), thumbnail.Path)
	assert.Equal(t, Dimensions{Width: 450, Height: 150}, thumbnail.Dimensions)
	assert.Equal(t, 1, generations)
	assert.True(t, cache.Fresh(src, false))

	// Reused while the source is unchanged
	_, err = cache.Thumbnail(src, false)
	require.NoError(t, err)
	assert.Equal(t, 1, generations)

	// Regenerated when the source is modified
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(src, future, future))
	assert.False(t, cache.Fresh(src, false))
	_, err = cache.Thumbnail(src, false)
	require.NoError(t, err)
	assert.Equal(t, 2, generations)

	size, err := cache.Size()
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))

	require.NoError(t, cache.Purge())
	size, err = cache.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)
}

func TestCacheMissingSource(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(filepath.Join(dir, "cache"), NewNativeConverter(), 450, time.Hour)

	_, err := cache.Thumbnail(filepath.Join(dir, "missing.png"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, cache.Path(filepath.Join(dir, "missing.png")))
}

func TestCacheRemote(t *testing.T) {
	dir := t.TempDir()
	image, err := os.ReadFile(writePNG(t, filepath.Join(dir, "remote.png"), 100, 50))
	require.NoError(t, err)

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/img/remote.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(image)
	}))
	defer server.Close()

	cache := NewCache(filepath.Join(dir, "cache"), NewNativeConverter(), 450, 24*time.Hour).WithClient(server.Client())
	source := server.URL + "/img/remote.png"

	thumbnail, err := cache.Thumbnail(source, true)
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Width: 100, Height: 50}, thumbnail.Dimensions)
	assert.Equal(t, int32(1), hits.Load())

	// Not downloaded again before the expiration
	_, err = cache.Thumbnail(source, true)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	// Downloaded again after the expiration
	c := clock.FreezeAt(time.Now())
	defer clock.Unfreeze()
	c.FastForward(25 * time.Hour)
	assert.False(t, cache.Fresh(source, true))
	_, err = cache.Thumbnail(source, true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())

	_, err = cache.Thumbnail(server.URL+"/img/missing.png", true)
	assert.ErrorContains(t, err, "404")
}
