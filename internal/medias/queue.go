package medias

import (
	"errors"
	"hash/fnv"
	"sync"

	"github.com/julien-sobczak/the-notewriter-live/internal/logger"
	"github.com/julien-sobczak/the-notewriter-live/pkg/oid"
)

// ErrQueueClosed is returned when submitting to a closed queue.
var ErrQueueClosed = errors.New("thumbnail queue closed")

// Job requests the thumbnail of an attachment.
type Job struct {
	Attachment oid.OID
	// Jobs of the same note are processed in submission order
	Note   string
	Source string
	Remote bool
}

// Result is delivered once per submitted job.
type Result struct {
	Job       Job
	Thumbnail Thumbnail
	Err       error
}

// Queue generates thumbnails on a fixed number of workers.
type Queue struct {
	cache   *Cache
	handler func(Result)
	workers []*worker

	mu       sync.Mutex
	inflight map[string][]Job

	closeMu sync.RWMutex
	closed  bool

	pending sync.WaitGroup
	running sync.WaitGroup
}

// worker owns an unbounded backlog so that submitting never waits for a conversion.
type worker struct {
	mu     sync.Mutex
	jobs   []Job
	closed bool
	wake   chan struct{}
}

func newWorker(capacity int) *worker {
	return &worker{
		jobs: make([]Job, 0, capacity),
		wake: make(chan struct{}, 1),
	}
}

func (w *worker) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *worker) push(job Job) {
	w.mu.Lock()
	w.jobs = append(w.jobs, job)
	w.mu.Unlock()
	w.signal()
}

// pop waits for the next job. It returns false once the worker is closed and its backlog drained.
func (w *worker) pop() (Job, bool) {
	for {
		w.mu.Lock()
		if len(w.jobs) > 0 {
			job := w.jobs[0]
			w.jobs = w.jobs[1:]
			w.mu.Unlock()
			return job, true
		}
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return Job{}, false
		}
		<-w.wake
	}
}

func (w *worker) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.signal()
}

// NewQueue starts the workers. The handler is called from worker goroutines.
// The queue size is only the initial capacity of each backlog.
func NewQueue(cache *Cache, workers, queueSize int, handler func(Result)) *Queue {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	q := &Queue{
		cache:    cache,
		handler:  handler,
		inflight: make(map[string][]Job),
	}
	for i := 0; i < workers; i++ {
		w := newWorker(queueSize)
		q.workers = append(q.workers, w)
		q.running.Add(1)
		go q.work(w)
	}
	return q
}

// Submit enqueues a job without waiting. Jobs for a source already in progress share its result.
func (q *Queue) Submit(job Job) error {
	q.closeMu.RLock()
	defer q.closeMu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	q.pending.Add(1)
	q.mu.Lock()
	waiting, found := q.inflight[job.Source]
	q.inflight[job.Source] = append(waiting, job)
	q.mu.Unlock()
	if found {
		logger.Tracef("Coalescing thumbnail request for %s", job.Source)
		return nil
	}

	q.workers[q.route(job.Note)].push(job)
	return nil
}

func (q *Queue) route(note string) int {
	h := fnv.New32a()
	h.Write([]byte(note))
	return int(h.Sum32() % uint32(len(q.workers)))
}

func (q *Queue) work(w *worker) {
	defer q.running.Done()
	for {
		job, ok := w.pop()
		if !ok {
			return
		}
		thumbnail, err := q.cache.Thumbnail(job.Source, job.Remote)
		q.complete(job.Source, thumbnail, err)
	}
}

func (q *Queue) complete(source string, thumbnail Thumbnail, err error) {
	q.mu.Lock()
	waiting := q.inflight[source]
	delete(q.inflight, source)
	q.mu.Unlock()

	for _, job := range waiting {
		if q.handler != nil {
			q.handler(Result{
				Job:       job,
				Thumbnail: thumbnail,
				Err:       err,
			})
		}
		q.pending.Done()
	}
}

// Wait blocks until every submitted job has been delivered.
func (q *Queue) Wait() {
	q.pending.Wait()
}

// Close stops accepting jobs and waits for the workers to finish the queued ones.
func (q *Queue) Close() {
	q.closeMu.Lock()
	if q.closed {
		q.closeMu.Unlock()
		return
	}
	q.closed = true
	for _, w := range q.workers {
		w.close()
	}
	q.closeMu.Unlock()
	q.running.Wait()
}

// Arena holds the thumbnails referenced by attachments, keyed by source.
type Arena struct {
	mu         sync.RWMutex
	thumbnails map[string]Thumbnail
}

func NewArena() *Arena {
	return &Arena{
		thumbnails: make(map[string]Thumbnail),
	}
}

func (a *Arena) Put(thumbnail Thumbnail) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.thumbnails[thumbnail.Source] = thumbnail
}

func (a *Arena) Get(source string) (Thumbnail, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	thumbnail, ok := a.thumbnails[source]
	return thumbnail, ok
}

func (a *Arena) Delete(source string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.thumbnails, source)
}

func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.thumbnails)
}
