package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/observability"
	"go.uber.org/zap"
)

// ErrPoolStopped is returned by Submit after Stop.
var ErrPoolStopped = errors.New("worker pool stopped")

// poolJob is one unit of CPU-bound work handed to a worker.
type poolJob struct {
	ctx        context.Context
	name       string
	fn         func(ctx context.Context) error
	done       chan error
	enqueuedAt time.Time
}

// WorkerPool bounds the number of concurrent OCR and hashing jobs.
type WorkerPool struct {
	queue           chan poolJob
	workers         int
	wg              sync.WaitGroup
	ctx             context.Context
	cancel          context.CancelFunc
	processingStats *ProcessingStats
	mu              sync.RWMutex
	logger          *logging.SafeLogger
}

// ProcessingStats tracks pool performance
type ProcessingStats struct {
	JobsEnqueued    int64         `json:"jobs_enqueued"`
	JobsProcessed   int64         `json:"jobs_processed"`
	JobsFailed      int64         `json:"jobs_failed"`
	JobsAbandoned   int64         `json:"jobs_abandoned"`
	AverageWaitTime time.Duration `json:"average_wait_time"`
	QueueSize       int           `json:"queue_size"`
	ActiveWorkers   int           `json:"active_workers"`
}

// NewWorkerPool starts workers goroutines reading from a queue of queueSize.
func NewWorkerPool(workers, queueSize int, logger *logging.SafeLogger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		queue:           make(chan poolJob, queueSize),
		workers:         workers,
		ctx:             ctx,
		cancel:          cancel,
		processingStats: &ProcessingStats{},
		logger:          logger.Named("worker_pool"),
	}
	pool.startWorkers()
	return pool
}

func (p *WorkerPool) startWorkers() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.queue:
			observability.WorkerQueueDepth.Set(float64(len(p.queue)))
			p.processJob(job, id)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *WorkerPool) processJob(job poolJob, workerID int) {
	wait := time.Since(job.enqueuedAt)

	// The submitter already gave up
	if err := job.ctx.Err(); err != nil {
		p.mu.Lock()
		p.processingStats.JobsAbandoned++
		p.mu.Unlock()
		job.done <- err
		return
	}

	err := job.fn(job.ctx)

	p.mu.Lock()
	p.processingStats.JobsProcessed++
	if err != nil {
		p.processingStats.JobsFailed++
	}
	if p.processingStats.AverageWaitTime == 0 {
		p.processingStats.AverageWaitTime = wait
	} else {
		p.processingStats.AverageWaitTime = (p.processingStats.AverageWaitTime + wait) / 2
	}
	p.mu.Unlock()

	if err != nil {
		p.logger.Debug("pool job failed",
			zap.Int("worker_id", workerID),
			zap.String("job", job.name),
			zap.Error(err))
	}
	job.done <- err
}

// Submit runs fn on a worker and waits for it. When ctx ends first, Submit
// returns ctx.Err() and the job is skipped if it has not started yet; a job
// already running observes the same ctx.
func (p *WorkerPool) Submit(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	job := poolJob{
		ctx:        ctx,
		name:       name,
		fn:         fn,
		done:       make(chan error, 1),
		enqueuedAt: time.Now(),
	}

	p.mu.Lock()
	p.processingStats.JobsEnqueued++
	p.mu.Unlock()

	select {
	case p.queue <- job:
		observability.WorkerQueueDepth.Set(float64(len(p.queue)))
	case <-ctx.Done():
		p.markAbandoned()
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolStopped
	}

	select {
	case err := <-job.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolStopped
	}
}

func (p *WorkerPool) markAbandoned() {
	p.mu.Lock()
	p.processingStats.JobsAbandoned++
	p.mu.Unlock()
}

// GetStats returns the current processing statistics
func (p *WorkerPool) GetStats() ProcessingStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := *p.processingStats
	stats.QueueSize = len(p.queue)
	stats.ActiveWorkers = p.workers
	return stats
}

// Stop signals the workers and waits for running jobs to return.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
}

// IsHealthy reports whether the queue is draining.
func (p *WorkerPool) IsHealthy() bool {
	if p.ctx.Err() != nil {
		return false
	}
	stats := p.GetStats()
	return stats.QueueSize < cap(p.queue)
}
