package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jobportal/portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// DepthObserver is told the number of changes queued per worker when a batch
// is enqueued and again when the worker drains.
type DepthObserver interface {
	QueueDepth(workerID string, depth int)
}

// Dispatcher routes status changes to a fixed set of workers using consistent
// hashing on the application ID, guaranteeing per-application ordering.
type Dispatcher struct {
	numWorkers int
	log        zerolog.Logger
	depth      DepthObserver
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Dispatcher{
		numWorkers: numWorkers,
		log:        log.With().Str("component", "status_dispatcher").Logger(),
	}
}

// WithDepthObserver attaches o and returns d.
func (d *Dispatcher) WithDepthObserver(o DepthObserver) *Dispatcher {
	d.depth = o
	return d
}

type task struct {
	index  int
	change ports.StatusChange
}

// Dispatch runs apply for every change and blocks until all are done. A
// failed change does not stop the others; its error text lands in the result.
func (d *Dispatcher) Dispatch(ctx context.Context, changes []ports.StatusChange, apply func(context.Context, ports.StatusChange) error) []ports.StatusResult {
	results := make([]ports.StatusResult, len(changes))
	if len(changes) == 0 {
		return results
	}

	n := min(d.numWorkers, len(changes))
	workers := make([]chan task, n)
	var wg sync.WaitGroup
	for i := range workers {
		workers[i] = make(chan task, channelBuffer)
		wg.Add(1)
		go func(id int, ch <-chan task) {
			defer wg.Done()
			d.runWorker(ctx, id, ch, apply, results)
		}(i, workers[i])
	}

	for i, c := range changes {
		w := shardIndex(c.ApplicationID, n)
		workers[w] <- task{index: i, change: c}
		d.observe(w, len(workers[w]))
	}
	for _, ch := range workers {
		close(ch)
	}
	wg.Wait()

	return results
}

// shardIndex maps an application ID deterministically to a worker index.
func shardIndex(applicationID string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(applicationID))
	return int(h.Sum32() % uint32(n))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan task, apply func(context.Context, ports.StatusChange) error, results []ports.StatusResult) {
	for t := range ch {
		res := ports.StatusResult{ApplicationID: t.change.ApplicationID, Status: t.change.Status}

		if err := ctx.Err(); err != nil {
			res.Error = err.Error()
		} else if err := apply(ctx, t.change); err != nil {
			res.Error = err.Error()
			d.log.Warn().Err(err).
				Str("application_id", t.change.ApplicationID).
				Str("status", string(t.change.Status)).
				Int("worker_id", id).
				Msg("status change failed")
		}

		results[t.index] = res
		d.observe(id, len(ch))
	}
}

func (d *Dispatcher) observe(worker, depth int) {
	if d.depth != nil {
		d.depth.QueueDepth(strconv.Itoa(worker), depth)
	}
}

var _ ports.StatusDispatcher = (*Dispatcher)(nil)
