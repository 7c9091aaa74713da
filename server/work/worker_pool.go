package work

import (
	"fmt"
	"strings"
	"sync"
)

const QUEUE_SIZE = 64

// WorkerPool runs enqueued jobs on a fixed number of workers. A job name
// can only be queued or in progress once at a time.
type WorkerPool struct {
	mu          sync.Mutex
	handlers    map[string]Handler
	pending     map[string]bool
	queue       chan JobParams
	workers     []*worker
	concurrency int
	started     bool
}

func NewWorkerPool(concurrency int) *WorkerPool {
	wp := &WorkerPool{
		handlers:    make(map[string]Handler),
		pending:     make(map[string]bool),
		queue:       make(chan JobParams, QUEUE_SIZE),
		concurrency: concurrency,
	}

	for i := 0; i < concurrency; i++ {
		wp.workers = append(wp.workers, newWorker(wp))
	}

	return wp
}

// registerHandler binds a name to a job handler for all workers in pool
func (wp *WorkerPool) registerHandler(name string, handler Handler) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if _, ok := wp.handlers[name]; ok {
		return ErrDuplicateHandler
	}

	wp.handlers[name] = handler
	return nil
}

// enqueue adds a job to the queue, to be executed as soon as a worker is free
func (wp *WorkerPool) enqueue(job JobParams) error {
	if strings.TrimSpace(job.Name) == "" || strings.TrimSpace(job.Handler) == "" {
		return fmt.Errorf("both a name & handler is required for a job")
	}

	wp.mu.Lock()
	defer wp.mu.Unlock()

	if _, ok := wp.handlers[job.Handler]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandler, job.Handler)
	}

	if wp.pending[job.Name] {
		return ErrDuplicateJob
	}

	select {
	case wp.queue <- job:
		wp.pending[job.Name] = true
		return nil
	default:
		return ErrQueueFull
	}
}

func (wp *WorkerPool) handler(name string) (Handler, bool) {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	handler, ok := wp.handlers[name]
	return handler, ok
}

// done frees 'jobName' to be enqueued again
func (wp *WorkerPool) done(jobName string) {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	delete(wp.pending, jobName)
}

// start starts all workers in pool i.e the workers can start processing jobs
func (wp *WorkerPool) start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.started {
		return
	}
	wp.started = true

	for _, worker := range wp.workers {
		worker.start()
	}
}

// stop stops all workers in pool i.e jobs will stop being processed.
// Jobs still queued are kept & picked up if the pool is started again.
func (wp *WorkerPool) stop() {
	wp.mu.Lock()
	if !wp.started {
		wp.mu.Unlock()
		return
	}
	wp.started = false
	wp.mu.Unlock()

	wg := sync.WaitGroup{}
	for _, w := range wp.workers {
		wg.Add(1)
		go func(w *worker) {
			w.stop()
			wg.Done()
		}(w)
	}
	wg.Wait()
}
