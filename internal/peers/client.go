// Package peers implements the assignment service's coordination with the
// user and game services: liveness probing, composite health aggregation,
// referential validation, and read-time enrichment. All peer calls are
// single-attempt with a per-call timeout; retries belong to callers above
// this layer.
package peers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/matchday/refassign/internal/domain/model"
	"github.com/matchday/refassign/pkg/metrics"
)

// Dependency names as they appear in health reports and error messages.
const (
	PeerUserService = "user-service"
	PeerGameService = "game-service"
)

// Client issues synchronous HTTP lookups against one peer service.
type Client struct {
	name          string
	base          string
	httpClient    *http.Client
	lookupTimeout time.Duration
	probeTimeout  time.Duration
}

// NewClient creates a peer client for the service at base, identified by
// name in health reports and error messages.
func NewClient(name, base string, opts ...Option) *Client {
	c := &Client{
		name:          name,
		base:          base,
		httpClient:    http.DefaultClient,
		lookupTimeout: 2 * time.Second,
		probeTimeout:  2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the dependency name used in health reports.
func (c *Client) Name() string { return c.name }

// GameByID fetches one game record. The returned error is *NotFoundError
// when the game does not exist and *CommError on any communication fault.
func (c *Client) GameByID(ctx context.Context, id string) (model.Game, error) {
	var games []model.Game
	err := c.lookup(ctx, "/games", url.Values{"game_id": {id}}, &games)
	switch {
	case err != nil:
		return model.Game{}, err
	case len(games) == 0:
		metrics.RecordPeerLookup(c.name, "not_found")
		return model.Game{}, &NotFoundError{Entity: "game", ID: id}
	}
	metrics.RecordPeerLookup(c.name, "ok")
	return games[0], nil
}

// UserByID fetches one user record regardless of status.
func (c *Client) UserByID(ctx context.Context, id string) (model.User, error) {
	return c.userLookup(ctx, id, url.Values{"user_id": {id}}, "user")
}

// OfficialByID fetches one user record, requiring the Official status. A
// user that exists without the Official role is reported as not found, the
// same way the user service itself reports it.
func (c *Client) OfficialByID(ctx context.Context, id string) (model.User, error) {
	q := url.Values{"user_id": {id}, "status": {string(model.StatusOfficial)}}
	return c.userLookup(ctx, id, q, "Official")
}

func (c *Client) userLookup(ctx context.Context, id string, q url.Values, entity string) (model.User, error) {
	var users []model.User
	err := c.lookup(ctx, "/users", q, &users)
	switch {
	case err != nil:
		return model.User{}, err
	case len(users) == 0:
		metrics.RecordPeerLookup(c.name, "not_found")
		return model.User{}, &NotFoundError{Entity: entity, ID: id}
	}
	metrics.RecordPeerLookup(c.name, "ok")
	return users[0], nil
}

// lookup issues one GET and decodes the peer's JSON list response into out.
// A 404 leaves out empty; any other non-200 status, transport failure, or
// undecodable body is a communication fault.
func (c *Client) lookup(ctx context.Context, path string, q url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+q.Encode(), nil)
	if err != nil {
		return c.fault(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fault(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil
	case resp.StatusCode != http.StatusOK:
		return c.fault(fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.name))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fault(err)
	}
	return nil
}

func (c *Client) fault(err error) error {
	metrics.RecordPeerLookup(c.name, "fault")
	return &CommError{Peer: c.name, Err: err}
}
