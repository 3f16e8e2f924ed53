package model

// HealthStatus is the liveness verdict for a service or one of its
// dependencies.
type HealthStatus string

// Health statuses.
const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// PeerStatus is the wire-level health sample for one dependency.
type PeerStatus struct {
	Status         HealthStatus `json:"status"`
	ResponseTimeMS float64      `json:"response_time_ms"`
}

// Health is the health report returned by every service. Dependencies is
// nil for leaf services and maps dependency name to its probe sample for
// the assignment service.
type Health struct {
	Service      string                `json:"service"`
	Status       HealthStatus          `json:"status"`
	Dependencies map[string]PeerStatus `json:"dependencies"`
}
