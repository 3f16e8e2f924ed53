package peers_test

import (
	"context"
	"testing"
	"time"

	"github.com/matchday/refassign/internal/domain/model"
	"github.com/matchday/refassign/internal/peers"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEnrich(t *testing.T) {
	ctx := context.Background()

	assignment := model.Assignment{
		ID:     "a1",
		GameID: "g1",
		Referees: []model.RefereeSlot{
			{RefereeID: "u1", Position: model.PositionCenter},
			{RefereeID: "u2", Position: model.PositionAR1},
		},
		AssignedAt: time.Now(),
		UpdatedAt:  time.Now(),
	}

	Convey("Given all referenced records resolvable", t, func() {
		users := newUserService(map[string]model.User{"u1": official("u1"), "u2": official("u2")})
		games := newGameService(map[string]model.Game{"g1": game("g1")})
		defer users.Close()
		defer games.Close()
		e := newEnricher(games, users)

		Convey("the view embeds the game and position-tagged referees", func() {
			view, err := e.Enrich(ctx, assignment)
			So(err, ShouldBeNil)
			So(view.AssignmentID, ShouldEqual, "a1")
			So(view.Game.ID, ShouldEqual, "g1")
			So(len(view.Referees), ShouldEqual, 2)
			So(view.Referees[0].ID, ShouldEqual, "u1")
			So(view.Referees[0].Position, ShouldEqual, model.PositionCenter)
			So(view.Referees[1].ID, ShouldEqual, "u2")
			So(view.Referees[1].Position, ShouldEqual, model.PositionAR1)
		})

		Convey("an assignment without referees yields a view with only the game", func() {
			bare := model.Assignment{ID: "a2", GameID: "g1"}
			view, err := e.Enrich(ctx, bare)
			So(err, ShouldBeNil)
			So(view.Game.ID, ShouldEqual, "g1")
			So(view.Referees, ShouldBeNil)
		})
	})

	Convey("Given the referenced game was deleted after assignment creation", t, func() {
		users := newUserService(map[string]model.User{"u1": official("u1"), "u2": official("u2")})
		games := newGameService(nil)
		defer users.Close()
		defer games.Close()
		e := newEnricher(games, users)

		Convey("enrichment fails with not-found naming the game", func() {
			_, err := e.Enrich(ctx, assignment)
			var nf *peers.NotFoundError
			So(err, ShouldHaveSameTypeAs, nf)
			nf = err.(*peers.NotFoundError)
			So(nf.Entity, ShouldEqual, "game")
			So(nf.ID, ShouldEqual, "g1")
		})
	})

	Convey("Given one referee record missing", t, func() {
		users := newUserService(map[string]model.User{"u1": official("u1")})
		games := newGameService(map[string]model.Game{"g1": game("g1")})
		defer users.Close()
		defer games.Close()
		e := newEnricher(games, users)

		Convey("the whole view fails naming that referee, never a partial view", func() {
			_, err := e.Enrich(ctx, assignment)
			var nf *peers.NotFoundError
			So(err, ShouldHaveSameTypeAs, nf)
			nf = err.(*peers.NotFoundError)
			So(nf.ID, ShouldEqual, "u2")
		})
	})

	Convey("Given one referee faulting and another missing", t, func() {
		users := newUserService(map[string]model.User{"u1": official("u1")})
		users.faultID = "u2"
		games := newGameService(map[string]model.Game{"g1": game("g1")})
		defer users.Close()
		defer games.Close()
		e := newEnricher(games, users)

		withThird := model.Assignment{
			ID:     "a1",
			GameID: "g1",
			Referees: append(assignment.Referees,
				model.RefereeSlot{RefereeID: "u-missing", Position: model.PositionFourth}),
		}

		Convey("the communication fault takes precedence", func() {
			_, err := e.Enrich(ctx, withThird)
			var comm *peers.CommError
			So(err, ShouldHaveSameTypeAs, comm)
			So(err.Error(), ShouldEqual, "error communicating with the user-service")
		})
	})

	Convey("Given non-Official referees on a persisted assignment", t, func() {
		// Enrichment is a read-time join; eligibility was checked at write
		// time and a later status change must not hide the referee.
		users := newUserService(map[string]model.User{"u1": spectator("u1"), "u2": official("u2")})
		games := newGameService(map[string]model.Game{"g1": game("g1")})
		defer users.Close()
		defer games.Close()
		e := newEnricher(games, users)

		Convey("the view still includes the now-ineligible referee", func() {
			view, err := e.Enrich(ctx, assignment)
			So(err, ShouldBeNil)
			So(view.Referees[0].Status, ShouldEqual, model.StatusNonOfficial)
		})
	})
}

func newEnricher(games, users *stubPeer) *peers.Enricher {
	return peers.NewEnricher(
		peers.NewClient(peers.PeerGameService, games.URL),
		peers.NewClient(peers.PeerUserService, users.URL),
	)
}
