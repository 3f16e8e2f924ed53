package assignmentapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/matchday/refassign/internal/domain/model"
	"github.com/matchday/refassign/internal/peers"
	"github.com/matchday/refassign/pkg/logger"
)

// peerService is an in-memory stand-in for the user or game service,
// answering the query-filtered list lookups the assignment service issues.
type peerService struct {
	*httptest.Server

	mu    sync.Mutex
	users map[string]model.User
	games map[string]model.Game
}

func newPeerServices() (*peerService, *peerService) {
	users := &peerService{users: make(map[string]model.User)}
	mux := chi.NewRouter()
	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeHealthOK(w, "user-service")
	})
	mux.Get("/users", users.handleUsers)
	users.Server = httptest.NewServer(mux)

	games := &peerService{games: make(map[string]model.Game)}
	gmux := chi.NewRouter()
	gmux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeHealthOK(w, "game-service")
	})
	gmux.Get("/games", games.handleGames)
	games.Server = httptest.NewServer(gmux)

	return users, games
}

func writeHealthOK(w http.ResponseWriter, service string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(model.Health{Service: service, Status: model.StatusHealthy})
}

func (p *peerService) addUser(u model.User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[u.ID] = u
}

func (p *peerService) addGame(g model.Game) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.games[g.ID] = g
}

func (p *peerService) removeGame(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.games, id)
}

func (p *peerService) handleUsers(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	q := r.URL.Query()
	var out []model.User
	for _, u := range p.users {
		if id := q.Get("user_id"); id != "" && u.ID != id {
			continue
		}
		if status := q.Get("status"); status != "" && string(u.Status) != status {
			continue
		}
		out = append(out, u)
	}
	if len(out) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (p *peerService) handleGames(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	q := r.URL.Query()
	var out []model.Game
	for _, g := range p.games {
		if id := q.Get("game_id"); id != "" && g.ID != id {
			continue
		}
		out = append(out, g)
	}
	if len(out) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

func TestAssignmentLifecycle(t *testing.T) {
	Convey("Given running user and game services", t, func() {
		users, games := newPeerServices()
		defer users.Close()
		defer games.Close()

		users.addUser(model.User{
			ID: "user-a", Status: model.StatusOfficial,
			FirstName: "Ana", LastName: "Silva", Username: "asilva", Email: "ana@example.com",
		})
		users.addUser(model.User{
			ID: "user-b", Status: model.StatusOfficial,
			FirstName: "Ben", LastName: "Okoro", Username: "bokoro", Email: "ben@example.com",
		})
		users.addUser(model.User{
			ID: "user-c", Status: model.StatusNonOfficial,
			FirstName: "Cal", LastName: "Mendes", Username: "cmendes", Email: "cal@example.com",
		})
		games.addGame(model.Game{
			ID: "game-g", League: "Premier", Venue: "North Park",
			HomeTeam: "Rovers", AwayTeam: "United", Level: "Senior",
			HalvesLengthMinutes: 45, ScheduledTime: time.Now().Add(48 * time.Hour).UTC(),
		})

		gameClient := peers.NewClient(peers.PeerGameService, games.URL,
			peers.WithLookupTimeout(time.Second), peers.WithProbeTimeout(time.Second))
		userClient := peers.NewClient(peers.PeerUserService, users.URL,
			peers.WithLookupTimeout(time.Second), peers.WithProbeTimeout(time.Second))

		store := newMockStore()
		_ = logger.Init()
		router := chi.NewRouter()
		NewServer(
			store,
			peers.NewValidator(gameClient, userClient),
			peers.NewEnricher(gameClient, userClient),
			peers.NewAggregator(ServiceName, userClient, gameClient),
			logger.Get(),
		).Register(router)

		Convey("When assigning two Officials to the game", func() {
			w := doJSON(router, "POST", "/assignments",
				`{"game_id":"game-g","referees":[{"referee_id":"user-a","position":"Center"},{"referee_id":"user-b","position":"AR1"}]}`)

			So(w.Code, ShouldEqual, http.StatusCreated)

			var created model.Assignment
			So(json.Unmarshal(w.Body.Bytes(), &created), ShouldBeNil)
			So(created.GameID, ShouldEqual, "game-g")
			So(created.Referees, ShouldHaveLength, 2)

			Convey("Then full details joins the live game and referee records", func() {
				fd := doJSON(router, "GET", "/assignments/full-details/"+created.ID, "")
				So(fd.Code, ShouldEqual, http.StatusOK)

				var view model.EnrichedAssignment
				So(json.Unmarshal(fd.Body.Bytes(), &view), ShouldBeNil)
				So(view.AssignmentID, ShouldEqual, created.ID)
				So(view.Game.HomeTeam, ShouldEqual, "Rovers")
				So(view.Referees, ShouldHaveLength, 2)
				So(view.Referees[0].FirstName, ShouldEqual, "Ana")
				So(view.Referees[0].Position, ShouldEqual, model.PositionCenter)
				So(view.Referees[1].FirstName, ShouldEqual, "Ben")
				So(view.Referees[1].Position, ShouldEqual, model.PositionAR1)
			})

			Convey("And deleting the game fails later full-details reads", func() {
				games.removeGame("game-g")

				fd := doJSON(router, "GET", "/assignments/full-details/"+created.ID, "")
				So(fd.Code, ShouldEqual, http.StatusNotFound)
				So(detailOf(fd), ShouldEqual, "no game found with ID game-g")
			})
		})

		Convey("When the crew includes a Non-Official user", func() {
			w := doJSON(router, "POST", "/assignments",
				`{"game_id":"game-g","referees":[{"referee_id":"user-c","position":"Center"}]}`)

			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(detailOf(w), ShouldEqual, "no Official found with ID user-c")
			So(store.byID, ShouldBeEmpty)
		})

		Convey("When the game does not exist", func() {
			w := doJSON(router, "POST", "/assignments",
				`{"game_id":"game-x","referees":[{"referee_id":"user-a","position":"Center"}]}`)

			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(detailOf(w), ShouldEqual, "no game found with ID game-x")
		})

		Convey("When checking composite health with both peers up", func() {
			w := doJSON(router, "GET", "/health", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var health model.Health
			So(json.Unmarshal(w.Body.Bytes(), &health), ShouldBeNil)
			So(health.Service, ShouldEqual, ServiceName)
			So(health.Status, ShouldEqual, model.StatusHealthy)
			So(health.Dependencies[peers.PeerUserService].Status, ShouldEqual, model.StatusHealthy)
			So(health.Dependencies[peers.PeerGameService].Status, ShouldEqual, model.StatusHealthy)
		})

		Convey("When the user service goes down health reports unhealthy", func() {
			users.Close()

			w := doJSON(router, "GET", "/health", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)

			var health model.Health
			So(json.Unmarshal(w.Body.Bytes(), &health), ShouldBeNil)
			So(health.Status, ShouldEqual, model.StatusUnhealthy)
			So(health.Dependencies[peers.PeerUserService].Status, ShouldEqual, model.StatusUnhealthy)
			So(health.Dependencies[peers.PeerGameService].Status, ShouldEqual, model.StatusHealthy)
		})
	})
}
