package peers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/matchday/refassign/internal/domain/model"
)

// stubPeer simulates a user or game service for client tests. Entities whose
// ID equals faultID cause a mid-request connection drop, producing a
// transport-level fault on the caller's side.
type stubPeer struct {
	*httptest.Server
	calls   atomic.Int64
	delay   time.Duration
	faultID string
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func dropConnection(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic("stub server does not support hijacking")
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		panic(err)
	}
	_ = conn.Close()
}

// newUserService serves /health and /users?user_id=&status= over the given
// records.
func newUserService(users map[string]model.User) *stubPeer {
	s := &stubPeer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
		_ = json.NewEncoder(w).Encode(model.Health{Service: "user-service", Status: model.StatusHealthy})
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
		id := r.URL.Query().Get("user_id")
		if id == s.faultID {
			dropConnection(w)
			return
		}
		u, ok := users[id]
		if status := r.URL.Query().Get("status"); ok && status != "" && string(u.Status) != status {
			ok = false
		}
		if !ok {
			writeDetail(w, http.StatusNotFound, "no user(s) found")
			return
		}
		_ = json.NewEncoder(w).Encode([]model.User{u})
	})
	s.Server = httptest.NewServer(mux)
	return s
}

// newGameService serves /health and /games?game_id= over the given records.
func newGameService(games map[string]model.Game) *stubPeer {
	s := &stubPeer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
		_ = json.NewEncoder(w).Encode(model.Health{Service: "game-service", Status: model.StatusHealthy})
	})
	mux.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
		id := r.URL.Query().Get("game_id")
		if id == s.faultID {
			dropConnection(w)
			return
		}
		g, ok := games[id]
		if !ok {
			writeDetail(w, http.StatusNotFound, "no game(s) found")
			return
		}
		_ = json.NewEncoder(w).Encode([]model.Game{g})
	})
	s.Server = httptest.NewServer(mux)
	return s
}

func official(id string) model.User {
	return model.User{ID: id, Status: model.StatusOfficial, FirstName: "Ref", LastName: id, Username: "ref-" + id, Email: id + "@example.com"}
}

func spectator(id string) model.User {
	u := official(id)
	u.Status = model.StatusNonOfficial
	return u
}

func game(id string) model.Game {
	return model.Game{ID: id, League: "Premier", Venue: "North Field", HomeTeam: "Hawks", AwayTeam: "Wolves", Level: "Adult", HalvesLengthMinutes: 45, ScheduledTime: time.Now().Add(48 * time.Hour)}
}
