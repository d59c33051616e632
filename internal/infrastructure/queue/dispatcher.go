package queue

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/api/metrics"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher routes narration jobs to a fixed set of workers sharded by
// memory id, so one memory's narration is never generated twice in parallel.
type Dispatcher struct {
	workers []chan ports.NarrationJob
	service ports.NarrationService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NarrationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.NarrationJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.NarrationJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands a job to the worker responsible for its memory. When that
// worker's buffer is full the job is dropped and logged.
func (d *Dispatcher) Enqueue(job ports.NarrationJob) {
	idx := d.shardIndex(job.MemoryID)
	select {
	case d.workers[idx] <- job:
		metrics.NarrationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.NarrationJobsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Int64("memory_id", job.MemoryID).Int("worker_id", idx).Msg("narration queue full, job dropped")
	}
}

func (d *Dispatcher) shardIndex(memoryID int64) int {
	n := int64(len(d.workers))
	return int(((memoryID % n) + n) % n)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.NarrationJob) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.NarrationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.service.Process(ctx, job); err != nil {
				metrics.NarrationJobsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Int64("memory_id", job.MemoryID).
					Int("worker_id", id).
					Msg("narration failed")
				continue
			}
			metrics.NarrationJobsTotal.WithLabelValues("ok").Inc()
		}
	}
}
