package peers

import (
	"context"
	"errors"
	"sync"

	"github.com/matchday/refassign/internal/domain/model"
	"github.com/matchday/refassign/pkg/metrics"
)

// Validator confirms that an assignment's weak references resolve against
// the owning services: the game must exist and every referee must exist
// with the Official status. The two services fail independently, so all
// lookups run concurrently and the heterogeneous results are merged through
// the outcome decision table.
type Validator struct {
	games *Client
	users *Client
}

// NewValidator creates a validator over the game and user service clients.
func NewValidator(games, users *Client) *Validator {
	return &Validator{games: games, users: users}
}

// Validate checks the game reference and every referee reference for a
// create request. The returned error is *CommError or *NotFoundError per
// the precedence table, nil on success.
func (v *Validator) Validate(ctx context.Context, gameID string, refs []model.RefereeSlot) error {
	return v.run(ctx, &gameID, refs)
}

// ValidateReferees checks only a supplied referee list. Partial updates
// leave the stored game reference untouched, so it is not re-validated.
func (v *Validator) ValidateReferees(ctx context.Context, refs []model.RefereeSlot) error {
	return v.run(ctx, nil, refs)
}

func (v *Validator) run(ctx context.Context, gameID *string, refs []model.RefereeSlot) error {
	ids := distinctRefereeIDs(refs)

	var wg sync.WaitGroup
	var gameErr error
	refErrs := make([]error, len(ids))

	if gameID != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, gameErr = v.games.GameByID(ctx, *gameID)
		}()
	}
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, refErrs[i] = v.users.OfficialByID(ctx, id)
		}(i, id)
	}
	wg.Wait()

	outcomes := make([]lookupOutcome, 0, len(ids)+1)
	if gameID != nil {
		outcomes = append(outcomes, lookupOutcome{scope: scopeGame, class: classify(gameErr), err: gameErr})
	}
	for _, err := range refErrs {
		outcomes = append(outcomes, lookupOutcome{scope: scopeReferee, class: classify(err), err: err})
	}

	if err := merge(outcomes); err != nil {
		metrics.RecordValidationFailure(failureCause(err))
		return err
	}
	return nil
}

// distinctRefereeIDs returns the referee IDs in first-seen order with
// duplicates removed, so one referee filling two positions is looked up once.
func distinctRefereeIDs(refs []model.RefereeSlot) []string {
	seen := make(map[string]struct{}, len(refs))
	ids := make([]string, 0, len(refs))
	for _, slot := range refs {
		if _, ok := seen[slot.RefereeID]; ok {
			continue
		}
		seen[slot.RefereeID] = struct{}{}
		ids = append(ids, slot.RefereeID)
	}
	return ids
}

func failureCause(err error) string {
	var comm *CommError
	var nf *NotFoundError
	switch {
	case errors.As(err, &comm):
		return "communication_fault"
	case errors.As(err, &nf) && nf.Entity == "game":
		return "game_not_found"
	}
	return "referee_not_found"
}
