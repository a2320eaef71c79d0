// Package fetchqueue bounds concurrent verse fetches against the upstream.
// Jobs are keyed by verse: concurrent requests for the same verse share one
// fetch. Interactive jobs (embeds, the builder) run before background jobs
// (live preview, warm-up).
package fetchqueue

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielledeleo/ayatembed/quran"
)

// ErrQueueClosed is returned when Submit is called on a closed queue.
var ErrQueueClosed = errors.New("fetch queue is closed")

// DefaultWorkers is the default number of concurrent upstream fetches.
const DefaultWorkers = 5

// Tier is the priority tier of a job.
type Tier int

const (
	TierInteractive Tier = iota
	TierBackground
)

func (t Tier) String() string {
	if t == TierInteractive {
		return "interactive"
	}
	return "background"
}

// Job is one verse fetch.
type Job struct {
	Key         quran.VerseKey
	Tier        Tier
	SubmittedAt time.Time
	seq         uint64
	heapIndex   int
}

// Result is the outcome of a job.
type Result struct {
	Verse *quran.Verse
	Err   error
}

// FetchFunc fetches one verse.
type FetchFunc func(ctx context.Context, key quran.VerseKey) (*quran.Verse, error)

// Queue runs jobs on a fixed pool of workers in priority order.
type Queue struct {
	fetch FetchFunc
	ctx   context.Context
	stop  context.CancelFunc

	mu       sync.Mutex
	heap     *jobHeap
	jobs     map[quran.VerseKey]*Job
	waiters  map[quran.VerseKey][]chan Result
	seq      uint64
	jobReady chan struct{}
	closed   bool
	closeCh  chan struct{}
	wg       sync.WaitGroup
}

// New starts a queue with workerCount workers.
func New(workerCount int, fetch FetchFunc) *Queue {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, stop := context.WithCancel(context.Background())

	q := &Queue{
		fetch:    fetch,
		ctx:      ctx,
		stop:     stop,
		heap:     &jobHeap{},
		jobs:     make(map[quran.VerseKey]*Job),
		waiters:  make(map[quran.VerseKey][]chan Result),
		jobReady: make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
	}
	heap.Init(q.heap)

	q.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go q.worker()
	}
	return q
}

// Submit queues a job. A job for a verse that is already queued is merged
// into it, raising its tier if needed. waitCh, if non-nil, receives the
// result; it should be buffered so an abandoned waiter never blocks a
// worker.
func (q *Queue) Submit(job Job, waitCh chan Result) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	if existing, ok := q.jobs[job.Key]; ok {
		if job.Tier < existing.Tier {
			existing.Tier = job.Tier
			q.heap.Fix(existing.heapIndex)
		}
	} else {
		j := job
		if j.SubmittedAt.IsZero() {
			j.SubmittedAt = time.Now()
		}
		q.seq++
		j.seq = q.seq
		q.jobs[job.Key] = &j
		heap.Push(q.heap, &j)
	}

	if waitCh != nil {
		q.waiters[job.Key] = append(q.waiters[job.Key], waitCh)
	}

	select {
	case q.jobReady <- struct{}{}:
	default:
	}
	return nil
}

// Pending returns the number of queued jobs.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}

// Shutdown stops accepting jobs, lets workers drain what is queued and
// waits for them up to the context deadline. In-flight fetches are
// cancelled if the deadline passes.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeCh)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.stop()
		return nil
	case <-ctx.Done():
		q.stop()
		return ctx.Err()
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for {
		select {
		case <-q.closeCh:
			for q.processOneJob() {
			}
			return
		case <-q.jobReady:
			q.processOneJob()
		}
	}
}

// processOneJob pops and runs one job. It returns false if the queue was
// empty.
func (q *Queue) processOneJob() bool {
	q.mu.Lock()
	if q.heap.Len() == 0 {
		q.mu.Unlock()
		return false
	}

	job := heap.Pop(q.heap).(*Job)
	key := job.Key
	delete(q.jobs, key)

	jobWaiters := q.waiters[key]
	delete(q.waiters, key)

	if q.heap.Len() > 0 {
		select {
		case q.jobReady <- struct{}{}:
		default:
		}
	}
	q.mu.Unlock()

	result := q.execute(key)
	if result.Err != nil {
		slog.Debug("verse fetch failed", "key", key.String(), "tier", job.Tier.String(), "error", result.Err)
	}

	for _, ch := range jobWaiters {
		if ch == nil {
			continue
		}
		select {
		case ch <- result:
		default:
			// abandoned waiter
		}
	}
	return true
}

func (q *Queue) execute(key quran.VerseKey) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Err: fmt.Errorf("fetch panic: %v", r)}
		}
	}()

	v, err := q.fetch(q.ctx, key)
	return Result{Verse: v, Err: err}
}
