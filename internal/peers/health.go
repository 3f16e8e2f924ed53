package peers

import (
	"context"
	"net/http"
	"sync"

	"github.com/matchday/refassign/internal/domain/model"
)

// Aggregator derives a composite health verdict for the assignment service
// by probing every declared dependency.
type Aggregator struct {
	self  string
	peers []*Client
}

// NewAggregator creates an aggregator reporting as self over the given
// dependencies.
func NewAggregator(self string, peers ...*Client) *Aggregator {
	return &Aggregator{self: self, peers: peers}
}

// Check probes all dependencies concurrently and composes one verdict.
// Probes run in parallel so a slow dependency bounds the check at its own
// latency instead of the sum across peers; each probe carries its own
// timeout and is attempted exactly once. The returned status code is 200
// when every dependency is reachable and 503 otherwise.
func (a *Aggregator) Check(ctx context.Context) (model.Health, int) {
	results := make([]ProbeResult, len(a.peers))

	var wg sync.WaitGroup
	for i, p := range a.peers {
		wg.Add(1)
		go func(i int, p *Client) {
			defer wg.Done()
			results[i] = p.Probe(ctx)
		}(i, p)
	}
	wg.Wait()

	health := model.Health{
		Service:      a.self,
		Status:       model.StatusHealthy,
		Dependencies: make(map[string]model.PeerStatus, len(results)),
	}
	for _, r := range results {
		health.Dependencies[r.Name] = r.PeerStatus()
		if !r.Reachable {
			health.Status = model.StatusUnhealthy
		}
	}

	code := http.StatusOK
	if health.Status != model.StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	return health, code
}
