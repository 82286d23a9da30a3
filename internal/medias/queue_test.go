package medias

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julien-sobczak/the-notewriter-live/pkg/oid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingConverter waits for the test to release the conversions.
type blockingConverter struct {
	*RandomConverter
	release chan struct{}
	calls   atomic.Int32
}

func (c *blockingConverter) ToThumbnail(src, dest string, dimensions Dimensions) error {
	c.calls.Add(1)
	<-c.release
	return c.RandomConverter.ToThumbnail(src, dest, dimensions)
}

func TestQueueCoalescesDuplicates(t *testing.T) {
	oid.UseSequence(t)
	dir := t.TempDir()
	src := writePNG(t, filepath.Join(dir, "a.png"), 10, 10)

	converter := &blockingConverter{
		RandomConverter: NewRandomConverter(),
		release:         make(chan struct{}),
	}
	cache := NewCache(filepath.Join(dir, "cache"), converter, 450, time.Hour)

	var mu sync.Mutex
	var results []Result
	queue := NewQueue(cache, 2, 4, func(result Result) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, result)
	})
	defer queue.Close()

	ids := []oid.OID{oid.New(), oid.New(), oid.New()}
	for i, id := range ids {
		// Different notes may reference the same picture
		err := queue.Submit(Job{Attachment: id, Note: string(rune('a' + i)), Source: src})
		require.NoError(t, err)
	}
	close(converter.release)
	queue.Wait()

	assert.Equal(t, int32(1), converter.calls.Load())
	require.Len(t, results, 3)
	for i, result := range results {
		assert.Equal(t, ids[i], result.Job.Attachment)
		assert.NoError(t, result.Err)
		assert.Equal(t, cache.Path(src), result.Thumbnail.Path)
	}
}

func TestQueuePreservesNoteOrder(t *testing.T) {
	dir := t.TempDir()
	var sources []string
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png", "e.png"} {
		sources = append(sources, writePNG(t, filepath.Join(dir, name), 10, 10))
	}
	cache := NewCache(filepath.Join(dir, "cache"), NewRandomConverter(), 450, time.Hour)

	var mu sync.Mutex
	var delivered []string
	queue := NewQueue(cache, 4, 8, func(result Result) {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, result.Job.Source)
	})

	for _, source := range sources {
		require.NoError(t, queue.Submit(Job{Note: "note.md", Source: source}))
	}
	queue.Wait()
	queue.Close()

	assert.Equal(t, sources, delivered)

	// Closing twice is harmless
	queue.Close()
	assert.ErrorIs(t, queue.Submit(Job{Note: "note.md", Source: sources[0]}), ErrQueueClosed)
}

func TestQueueSubmitDoesNotWait(t *testing.T) {
	dir := t.TempDir()
	var sources []string
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png", "e.png", "f.png"} {
		sources = append(sources, writePNG(t, filepath.Join(dir, name), 10, 10))
	}
	converter := &blockingConverter{
		RandomConverter: NewRandomConverter(),
		release:         make(chan struct{}),
	}
	cache := NewCache(filepath.Join(dir, "cache"), converter, 450, time.Hour)

	var delivered atomic.Int32
	queue := NewQueue(cache, 1, 1, func(result Result) {
		delivered.Add(1)
	})
	defer queue.Close()

	// More jobs than the backlog capacity while the only worker is stuck
	submitted := make(chan struct{})
	go func() {
		defer close(submitted)
		for _, source := range sources {
			assert.NoError(t, queue.Submit(Job{Note: "note.md", Source: source}))
		}
	}()
	select {
	case <-submitted:
	case <-time.After(5 * time.Second):
		t.Fatal("submit waited for the conversions")
	}
	assert.Equal(t, int32(0), delivered.Load())

	close(converter.release)
	queue.Wait()
	assert.Equal(t, int32(len(sources)), delivered.Load())
}

func TestQueueReportsFailures(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(filepath.Join(dir, "cache"), NewNativeConverter(), 450, time.Hour)

	var result Result
	queue := NewQueue(cache, 1, 1, func(r Result) {
		result = r
	})
	defer queue.Close()

	require.NoError(t, queue.Submit(Job{Note: "note.md", Source: filepath.Join(dir, "missing.png")}))
	queue.Wait()
	assert.ErrorIs(t, result.Err, os.ErrNotExist)
}

func TestArena(t *testing.T) {
	arena := NewArena()
	arena.Put(Thumbnail{Source: "img/a.png", Path: "/tmp/a.png"})

	thumbnail, ok := arena.Get("img/a.png")
	require.True(t, ok)
	assert.Equal(t, "/tmp/a.png", thumbnail.Path)
	assert.Equal(t, 1, arena.Len())

	arena.Delete("img/a.png")
	_, ok = arena.Get("img/a.png")
	assert.False(t, ok)
}
