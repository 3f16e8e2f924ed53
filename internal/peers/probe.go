package peers

import (
	"context"
	"net/http"
	"time"

	"github.com/matchday/refassign/internal/domain/model"
	"github.com/matchday/refassign/pkg/metrics"
)

const millisecondsPerSecond = 1000

// ProbeResult is one liveness sample for a dependency. It is produced fresh
// per probe and never persisted.
type ProbeResult struct {
	Name      string
	Reachable bool
	Latency   time.Duration
	Err       error
}

// LatencyMS returns the round-trip time in milliseconds with sub-millisecond
// precision.
func (r ProbeResult) LatencyMS() float64 {
	return r.Latency.Seconds() * millisecondsPerSecond
}

// PeerStatus converts the sample to its wire representation.
func (r ProbeResult) PeerStatus() model.PeerStatus {
	status := model.StatusUnhealthy
	if r.Reachable {
		status = model.StatusHealthy
	}
	return model.PeerStatus{Status: status, ResponseTimeMS: r.LatencyMS()}
}

// Probe issues one liveness request against the peer's /health endpoint.
// It never returns an error: timeouts, connection failures, and non-200
// responses all yield an unreachable sample with the cause captured.
func (c *Client) Probe(ctx context.Context) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	result := ProbeResult{Name: c.name}
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		result.Latency = time.Since(start)
		result.Err = err
		metrics.RecordPeerProbe(c.name, "unreachable", result.LatencyMS())
		return result
	}

	resp, err := c.httpClient.Do(req)
	result.Latency = time.Since(start)
	if err != nil {
		result.Err = err
		metrics.RecordPeerProbe(c.name, "unreachable", result.LatencyMS())
		return result
	}
	defer resp.Body.Close()

	result.Reachable = resp.StatusCode == http.StatusOK
	outcome := "reachable"
	if !result.Reachable {
		outcome = "unreachable"
	}
	metrics.RecordPeerProbe(c.name, outcome, result.LatencyMS())
	return result
}
