package work

import (
	"errors"
	"fmt"
	"time"

	"github.com/Daskott/contacts/colors"
	"github.com/Daskott/contacts/server/logger"
	"github.com/google/uuid"
)

const MAX_FAILS = 4

var (
	ErrDuplicateHandler = errors.New("handler with provided name already mapped")
	ErrDuplicateJob     = errors.New("job with provided name already enqueued")
	ErrUnknownHandler   = errors.New("no handler mapped to provided name")
	ErrQueueFull        = errors.New("job queue is full")

	// Wait between attempts of a failing job, the last entry is reused.
	retryBackoffs = []time.Duration{1 * time.Second, 10 * time.Second, 30 * time.Second}

	logg = logger.NewLogger()
)

type JobParams struct {
	Name    string
	Handler string
	Args    map[string]interface{}
}

type Handler func(map[string]interface{}) error

type worker struct {
	id       string
	pool     *WorkerPool
	stopChan chan struct{}
}

func newWorker(pool *WorkerPool) *worker {
	return &worker{
		id:       uuid.NewString()[:8],
		pool:     pool,
		stopChan: make(chan struct{}),
	}
}

// start starts the worker loop that pulls jobs from the queue & process them
func (w *worker) start() {
	go w.loop()
}

func (w *worker) stop() {
	w.stopChan <- struct{}{}
}

func (w *worker) loop() {
	w.logInfof("starting")
	for {
		select {
		case <-w.stopChan:
			w.logInfof("stopping")
			return
		case job := <-w.pool.queue:
			if stopped := w.processJob(job); stopped {
				return
			}
		}
	}
}

// processJob runs 'job' until it succeeds or has failed MAX_FAILS times.
// A stop request while waiting to retry abandons the job & reports true.
func (w *worker) processJob(job JobParams) bool {
	defer w.pool.done(job.Name)

	handler, ok := w.pool.handler(job.Handler)
	if !ok {
		w.logError(fmt.Errorf("%w: %s", ErrUnknownHandler, job.Handler))
		return false
	}

	for fails := 0; ; {
		err := handler(job.Args)
		if err == nil {
			w.logInfof("job %s completed", job.Name)
			return false
		}

		fails++
		w.logError(fmt.Errorf("job %s failed (%d/%d): %v", job.Name, fails, MAX_FAILS, err))
		if fails >= MAX_FAILS {
			w.logInfof("job %s is dead", job.Name)
			return false
		}

		select {
		case <-w.stopChan:
			w.logInfof("stopping, job %s abandoned", job.Name)
			return true
		case <-time.After(backoff(fails)):
		}
	}
}

func backoff(fails int) time.Duration {
	idx := fails - 1
	if idx >= len(retryBackoffs) {
		idx = len(retryBackoffs) - 1
	}
	return retryBackoffs[idx]
}

func (w *worker) logInfof(template string, args ...interface{}) {
	prefix := colors.Yellow(fmt.Sprintf("[worker %v] ", w.id))
	logg.Infof(prefix+template, args...)
}

func (w *worker) logError(err error) {
	prefix := colors.Red(fmt.Sprintf("[worker %v] ", w.id))
	logg.Error(prefix, err)
}
