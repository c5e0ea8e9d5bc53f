package types

type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "UP"
	HealthStatusDown     HealthStatus = "DOWN"
	HealthStatusDegraded HealthStatus = "DEGRADED"
)

// HealthComponent is the state of one dependency. LatencyMs is the round trip
// of the probe; QueueDepth is only set for the background job queue.
type HealthComponent struct {
	Status     HealthStatus `json:"status"`
	Details    string       `json:"details,omitempty"`
	LatencyMs  int64        `json:"latencyMs,omitempty"`
	QueueDepth *int         `json:"queueDepth,omitempty"`
}

type HealthCheck struct {
	Status     HealthStatus               `json:"status"`
	Components map[string]HealthComponent `json:"components"`
	Version    string                     `json:"version"`
	Timestamp  string                     `json:"timestamp"`
	Uptime     string                     `json:"uptime"`
}
