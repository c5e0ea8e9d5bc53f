// Package services holds the business orchestration between handlers and stores.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/campusdesk/swo-feedback/config"
	"github.com/campusdesk/swo-feedback/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const defaultJobTimeout = 30 * time.Second

// Job is a unit of background work. Name has the form "<kind>:<detail>", e.g.
// "publish:feedback_form.created" or "email:report"; the kind labels metrics.
type Job struct {
	Name    string
	Execute func(ctx context.Context) error
	// Timeout overrides the default per-job deadline when set.
	Timeout time.Duration
}

func (j Job) kind() string {
	kind, _, _ := strings.Cut(j.Name, ":")
	if kind == "" {
		return "other"
	}
	return kind
}

// JobSubmitter accepts background jobs. Implemented by WorkerPool.
type JobSubmitter interface {
	Submit(job Job) bool
}

// WorkerPool runs event publishing and report emails on a fixed number of
// workers reading from a bounded queue. Submit never blocks a request.
type WorkerPool struct {
	queue   chan Job
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.SugaredLogger
	metrics *workerPoolMetrics
	cfg     config.WorkerPoolConfig

	mu      sync.RWMutex
	running bool
	stopped bool
}

type workerPoolMetrics struct {
	queueDepth prometheus.Gauge
	busy       prometheus.Gauge
	jobs       *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeDropped = "dropped"
)

var (
	wpMetricsInstance *workerPoolMetrics
	wpMetricsOnce     sync.Once
	wpDefaultRegistry = prometheus.DefaultRegisterer
)

func newWorkerPoolMetrics() *workerPoolMetrics {
	wpMetricsOnce.Do(func() {
		f := promauto.With(wpDefaultRegistry)
		wpMetricsInstance = &workerPoolMetrics{
			queueDepth: f.NewGauge(prometheus.GaugeOpts{
				Name: "swo_worker_pool_queue_depth",
				Help: "Jobs waiting in the queue",
			}),
			busy: f.NewGauge(prometheus.GaugeOpts{
				Name: "swo_worker_pool_busy_workers",
				Help: "Workers currently running a job",
			}),
			jobs: f.NewCounterVec(prometheus.CounterOpts{
				Name: "swo_worker_pool_jobs_total",
				Help: "Background jobs by kind and outcome (ok, error, dropped)",
			}, []string{"kind", "outcome"}),
			duration: f.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "swo_worker_pool_job_duration_seconds",
				Help:    "Background job run time by kind",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			}, []string{"kind"}),
		}
	})
	return wpMetricsInstance
}

func resetWorkerPoolMetricsForTesting() {
	wpDefaultRegistry = prometheus.NewRegistry()
	wpMetricsInstance = nil
	wpMetricsOnce = sync.Once{}
}

// NewWorkerPool creates a pool. Jobs are accepted only after Start.
func NewWorkerPool(cfg config.WorkerPoolConfig) *WorkerPool {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		queue:   make(chan Job, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
		log:     logger.GetLogger().Named("worker-pool"),
		metrics: newWorkerPoolMetrics(),
		cfg:     cfg,
	}
}

// Start launches the workers. Calling it again, or after Shutdown, does nothing.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running || wp.stopped {
		return
	}
	wp.running = true
	wp.log.Infow("Starting worker pool", "workers", wp.cfg.MaxWorkers, "queueSize", wp.cfg.QueueSize)

	for i := 0; i < wp.cfg.MaxWorkers; i++ {
		wp.wg.Add(1)
		go func(id int) {
			defer wp.wg.Done()
			for job := range wp.queue {
				wp.run(id, job)
			}
		}(i)
	}
}

func (wp *WorkerPool) run(workerID int, job Job) {
	wp.metrics.queueDepth.Dec()
	wp.metrics.busy.Inc()
	defer wp.metrics.busy.Dec()

	timeout := job.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(wp.ctx, timeout)
	defer cancel()

	start := time.Now()
	err := safeExecute(ctx, job)
	elapsed := time.Since(start)

	kind := job.kind()
	wp.metrics.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if err != nil {
		wp.metrics.jobs.WithLabelValues(kind, outcomeError).Inc()
		wp.log.Errorw("Background job failed", "job", job.Name, "worker", workerID, "duration", elapsed, "error", err)
		return
	}
	wp.metrics.jobs.WithLabelValues(kind, outcomeOK).Inc()
	wp.log.Debugw("Background job done", "job", job.Name, "worker", workerID, "duration", elapsed)
}

// safeExecute turns a panicking job into an error so one bad job cannot take
// the worker down.
func safeExecute(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()
	return job.Execute(ctx)
}

// Submit queues a job without blocking. It returns false when the queue is
// full or the pool is not running; callers then do the work inline.
func (wp *WorkerPool) Submit(job Job) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if !wp.running {
		wp.metrics.jobs.WithLabelValues(job.kind(), outcomeDropped).Inc()
		return false
	}

	select {
	case wp.queue <- job:
		wp.metrics.queueDepth.Inc()
		return true
	default:
		wp.metrics.jobs.WithLabelValues(job.kind(), outcomeDropped).Inc()
		wp.log.Warnw("Worker pool queue full", "job", job.Name, "queueSize", wp.cfg.QueueSize)
		return false
	}
}

// Shutdown stops accepting jobs and waits for the queue to drain. If ctx
// expires first, running jobs see their context cancelled and ctx.Err() is returned.
func (wp *WorkerPool) Shutdown(ctx context.Context) error {
	wp.mu.Lock()
	if !wp.running {
		wp.mu.Unlock()
		return nil
	}
	wp.running = false
	wp.stopped = true
	close(wp.queue)
	wp.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	defer wp.cancel()
	select {
	case <-done:
		wp.log.Info("Worker pool drained")
		return nil
	case <-ctx.Done():
		wp.log.Warnw("Worker pool shutdown timed out; cancelling running jobs", "pending", len(wp.queue))
		return ctx.Err()
	}
}

// QueueDepth returns the number of jobs waiting in the queue.
func (wp *WorkerPool) QueueDepth() int {
	return len(wp.queue)
}

func (wp *WorkerPool) IsRunning() bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	return wp.running
}
