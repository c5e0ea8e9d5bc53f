package services

import (
	"context"
	"time"

	"github.com/campusdesk/swo-feedback/logger"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Pinger is the part of a database pool the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JobQueue is the view of the worker pool the health check reports on.
type JobQueue interface {
	IsRunning() bool
	QueueDepth() int
}

const healthCheckTimeout = 2 * time.Second

type HealthService struct {
	db          Pinger
	redisClient redis.UniversalClient
	jobs        JobQueue
	version     string
	startTime   time.Time
	log         *zap.SugaredLogger
}

// NewHealthService creates a health checker. redisClient may be nil when Redis
// is not configured; the component is then omitted.
func NewHealthService(db Pinger, redisClient redis.UniversalClient, version string) *HealthService {
	return &HealthService{
		db:          db,
		redisClient: redisClient,
		version:     version,
		startTime:   time.Now(),
		log:         logger.GetLogger(),
	}
}

// WithJobQueue adds the background job queue to the report.
func (h *HealthService) WithJobQueue(q JobQueue) *HealthService {
	h.jobs = q
	return h
}

// CheckHealth pings every dependency. The database is required; a Redis outage
// only degrades the service because events and rate limiting fail open.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overall := types.HealthStatusUp

	dbStatus := h.checkDatabase(ctx)
	components["database"] = dbStatus
	if dbStatus.Status == types.HealthStatusDown {
		overall = types.HealthStatusDown
	}

	if h.redisClient != nil {
		redisStatus := h.checkRedis(ctx)
		components["redis"] = redisStatus
		if redisStatus.Status == types.HealthStatusDown && overall == types.HealthStatusUp {
			overall = types.HealthStatusDegraded
		}
	}

	if h.jobs != nil {
		jobStatus := h.checkJobs()
		components["background_jobs"] = jobStatus
		if jobStatus.Status != types.HealthStatusUp && overall == types.HealthStatusUp {
			overall = types.HealthStatusDegraded
		}
	}

	return types.HealthCheck{
		Status:     overall,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkDatabase(ctx context.Context) types.HealthComponent {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		h.log.Errorw("Database health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp, LatencyMs: time.Since(start).Milliseconds()}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp, LatencyMs: time.Since(start).Milliseconds()}
}

// checkJobs reports a stopped pool as down. Events and report emails then run
// inline, so the service is degraded rather than unavailable.
func (h *HealthService) checkJobs() types.HealthComponent {
	depth := h.jobs.QueueDepth()
	if !h.jobs.IsRunning() {
		return types.HealthComponent{
			Status:     types.HealthStatusDown,
			Details:    "Worker pool is not running",
			QueueDepth: &depth,
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp, QueueDepth: &depth}
}
