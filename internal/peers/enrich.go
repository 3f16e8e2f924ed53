package peers

import (
	"context"
	"sync"

	"github.com/matchday/refassign/internal/domain/model"
)

// Enricher assembles the denormalized full-details view of an assignment by
// joining the local record with live snapshots from the owning services. The
// view is best-effort at read time and never cached.
type Enricher struct {
	games *Client
	users *Client
}

// NewEnricher creates an enricher over the game and user service clients.
func NewEnricher(games, users *Client) *Enricher {
	return &Enricher{games: games, users: users}
}

// Enrich fetches the game snapshot and every referenced referee snapshot
// concurrently and merges them. Any failed lookup fails the whole view: a
// view without its game is meaningless, and a view silently missing a
// referee would misrepresent the assignment. Failures surface with the same
// precedence as validation.
func (e *Enricher) Enrich(ctx context.Context, a model.Assignment) (model.EnrichedAssignment, error) {
	ids := distinctRefereeIDs(a.Referees)

	var wg sync.WaitGroup
	var game model.Game
	var gameErr error
	users := make([]model.User, len(ids))
	refErrs := make([]error, len(ids))

	wg.Add(1)
	go func() {
		defer wg.Done()
		game, gameErr = e.games.GameByID(ctx, a.GameID)
	}()
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			users[i], refErrs[i] = e.users.UserByID(ctx, id)
		}(i, id)
	}
	wg.Wait()

	outcomes := make([]lookupOutcome, 0, len(ids)+1)
	outcomes = append(outcomes, lookupOutcome{scope: scopeGame, class: classify(gameErr), err: gameErr})
	for _, err := range refErrs {
		outcomes = append(outcomes, lookupOutcome{scope: scopeReferee, class: classify(err), err: err})
	}
	if err := merge(outcomes); err != nil {
		return model.EnrichedAssignment{}, err
	}

	byID := make(map[string]model.User, len(ids))
	for i, id := range ids {
		byID[id] = users[i]
	}

	view := model.EnrichedAssignment{AssignmentID: a.ID, Game: game}
	for _, slot := range a.Referees {
		view.Referees = append(view.Referees, model.EnrichedReferee{
			User:     byID[slot.RefereeID],
			Position: slot.Position,
		})
	}
	return view, nil
}
