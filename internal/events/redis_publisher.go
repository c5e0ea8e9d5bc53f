package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/campusdesk/swo-feedback/logger"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds configuration for RedisPublisher
type Config struct {
	PublishTimeout time.Duration
	ChannelPrefix  string
}

// DefaultConfig returns default configuration values
func DefaultConfig() Config {
	return Config{
		PublishTimeout: 5 * time.Second,
		ChannelPrefix:  "swo:feedback",
	}
}

type metrics struct {
	publishLatency prometheus.Histogram
	errorCount     *prometheus.CounterVec
	eventCount     *prometheus.CounterVec
}

var (
	metricsInstance *metrics
	metricsOnce     sync.Once
	defaultRegistry = prometheus.DefaultRegisterer
)

func newMetrics() *metrics {
	metricsOnce.Do(func() {
		metricsInstance = &metrics{
			publishLatency: promauto.With(defaultRegistry).NewHistogram(prometheus.HistogramOpts{
				Name:    "swo_event_publish_duration_seconds",
				Help:    "Time taken to publish feedback events",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			}),
			errorCount: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "swo_event_errors_total",
				Help: "Total number of event publishing errors",
			}, []string{"operation", "type"}),
			eventCount: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "swo_events_total",
				Help: "Total number of published events by type",
			}, []string{"operation", "type"}),
		}
	})
	return metricsInstance
}

func resetMetricsForTesting() {
	defaultRegistry = prometheus.NewRegistry()
	metricsInstance = nil
	metricsOnce = sync.Once{}
}

// RedisPublisher publishes feedback events on Redis Pub/Sub, one channel per form type.
type RedisPublisher struct {
	rdb     redis.UniversalClient
	log     *zap.SugaredLogger
	metrics *metrics
	config  Config
}

var _ types.EventPublisher = (*RedisPublisher)(nil)

func NewRedisPublisher(rdb redis.UniversalClient, cfg ...Config) *RedisPublisher {
	config := DefaultConfig()
	if len(cfg) > 0 {
		config = cfg[0]
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = DefaultConfig().PublishTimeout
	}
	if config.ChannelPrefix == "" {
		config.ChannelPrefix = DefaultConfig().ChannelPrefix
	}

	return &RedisPublisher{
		rdb:     rdb,
		log:     logger.GetLogger().Named("events"),
		metrics: newMetrics(),
		config:  config,
	}
}

// Channel returns the Pub/Sub channel events for formType are published on.
func (p *RedisPublisher) Channel(formType types.FormType) string {
	return fmt.Sprintf("%s:%s", p.config.ChannelPrefix, formType)
}

// Publish publishes an event to the channel of its form type.
func (p *RedisPublisher) Publish(ctx context.Context, event types.Event) error {
	start := time.Now()
	defer func() {
		p.metrics.publishLatency.Observe(time.Since(start).Seconds())
	}()

	data, err := p.encode(&event)
	if err != nil {
		p.metrics.errorCount.WithLabelValues("publish", "validation").Inc()
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.PublishTimeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, p.Channel(event.FormType), data).Err(); err != nil {
		p.metrics.errorCount.WithLabelValues("publish", "redis").Inc()
		return fmt.Errorf("redis publish: %w", err)
	}

	p.metrics.eventCount.WithLabelValues("publish", string(event.Type)).Inc()
	p.log.Debugw("Published event", "type", event.Type, "formId", event.FormID)
	return nil
}

// PublishBatch publishes several events in a single pipeline round trip.
func (p *RedisPublisher) PublishBatch(ctx context.Context, events []types.Event) error {
	if len(events) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.PublishTimeout)
	defer cancel()

	pipe := p.rdb.Pipeline()
	for i := range events {
		data, err := p.encode(&events[i])
		if err != nil {
			p.metrics.errorCount.WithLabelValues("publish_batch", "validation").Inc()
			return fmt.Errorf("invalid event in batch: %w", err)
		}
		pipe.Publish(ctx, p.Channel(events[i].FormType), data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		p.metrics.errorCount.WithLabelValues("publish_batch", "redis").Inc()
		return fmt.Errorf("execute batch publish: %w", err)
	}

	for _, event := range events {
		p.metrics.eventCount.WithLabelValues("publish", string(event.Type)).Inc()
	}
	return nil
}

// encode fills defaults, validates and marshals the event.
func (p *RedisPublisher) encode(event *types.Event) ([]byte, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Version == 0 {
		event.Version = 1
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}
