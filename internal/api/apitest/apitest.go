// Package apitest provides an in-memory drills backend served over HTTP. It
// backs the client tests and the --demo mode of the CLI.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ayoisaiah/drills/internal/api"
	"github.com/ayoisaiah/drills/internal/clock"
)

// TimeFormat selects how timestamps are written on the wire.
type TimeFormat int

const (
	TimeISO TimeFormat = iota
	TimeEpoch
	TimeEpochString
)

type user struct {
	created   time.Time
	email     *string
	firstName string
	lastName  string
	id        int
}

type drill struct {
	created time.Time
	title   string
	price   float64
	id      int
}

type session struct {
	started time.Time
	stopped *time.Time
	id      int
	userID  int
	drillID int
}

type failure struct {
	body   string
	status int
}

// Backend is the in-memory state behind a Server.
type Backend struct {
	clock    clock.Clock
	failures map[string]failure
	hits     map[string]int
	users    []user
	drills   []drill
	sessions []session
	nextID   int
	format   TimeFormat
	mu       sync.Mutex
}

// Option configures a Backend.
type Option func(*Backend)

func WithClock(c clock.Clock) Option {
	return func(b *Backend) {
		b.clock = c
	}
}

func WithTimeFormat(f TimeFormat) Option {
	return func(b *Backend) {
		b.format = f
	}
}

// NewBackend returns an empty backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		clock:    clock.Real{},
		failures: make(map[string]failure),
		hits:     make(map[string]int),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Server is a running httptest server for a Backend.
type Server struct {
	*Backend
	*httptest.Server
}

// NewServer starts a server on a loopback port. Call Close when done.
func NewServer(opts ...Option) *Server {
	b := NewBackend(opts...)

	return &Server{
		Backend: b,
		Server:  httptest.NewServer(b.Handler()),
	}
}

// Fail makes the next request to path respond with status and body.
func (b *Backend) Fail(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures[path] = failure{status: status, body: body}
}

// Hits returns how many requests path has served.
func (b *Backend) Hits(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.hits[path]
}

// AddUser inserts a user directly and returns its id.
func (b *Backend) AddUser(first, last string, email *string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.addUser(first, last, email)
}

func (b *Backend) addUser(first, last string, email *string) int {
	b.nextID++

	b.users = append(b.users, user{
		id:        b.nextID,
		firstName: first,
		lastName:  last,
		email:     email,
		created:   b.clock.Now(),
	})

	return b.nextID
}

// AddDrill inserts a drill directly and returns its id.
func (b *Backend) AddDrill(title string, price float64) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.addDrill(title, price)
}

func (b *Backend) addDrill(title string, price float64) int {
	b.nextID++

	b.drills = append(b.drills, drill{
		id:      b.nextID,
		title:   title,
		price:   price,
		created: b.clock.Now(),
	})

	return b.nextID
}

// AddSession inserts a session directly and returns its id. A nil stopped
// leaves the session active.
func (b *Backend) AddSession(userID, drillID int, started time.Time, stopped *time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++

	b.sessions = append(b.sessions, session{
		id:      b.nextID,
		userID:  userID,
		drillID: drillID,
		started: started,
		stopped: stopped,
	})

	return b.nextID
}

// Seed fills the backend with sample data.
func (b *Backend) Seed() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock.Now()

	olena := b.addUser("Olena", "Kovalenko", nil)
	email := "taras@example.com"
	taras := b.addUser("Taras", "Shevchuk", &email)
	b.addUser("Iryna", "Bondar", nil)

	sprint := b.addDrill("Sprint intervals", 12)
	plank := b.addDrill("Plank hold", 4.5)
	b.addDrill("Rope climb", 20)

	stopped := now.Add(-50 * time.Minute)

	for _, s := range []session{
		{userID: olena, drillID: sprint, started: now.Add(-2 * time.Hour), stopped: &stopped},
		{userID: taras, drillID: plank, started: now.Add(-15 * time.Minute)},
		{userID: olena, drillID: plank, started: now.Add(-3 * time.Minute)},
	} {
		b.nextID++
		s.id = b.nextID
		b.sessions = append(b.sessions, s)
	}
}

func (b *Backend) stamp(t time.Time) any {
	switch b.format {
	case TimeEpoch:
		return float64(t.UnixMilli()) / 1000
	case TimeEpochString:
		return fmt.Sprintf("%d", t.Unix())
	default:
		return t.UTC().Format(time.RFC3339Nano)
	}
}

func (b *Backend) findUser(id int) int {
	return slices.IndexFunc(b.users, func(u user) bool { return u.id == id })
}

func (b *Backend) findDrill(id int) int {
	return slices.IndexFunc(b.drills, func(d drill) bool { return d.id == id })
}

func (b *Backend) activeSession(userID, drillID int) int {
	return slices.IndexFunc(b.sessions, func(s session) bool {
		return s.userID == userID && s.drillID == drillID && s.stopped == nil
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	return true
}

// Handler returns the HTTP handler serving every endpoint.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()

	routes := map[string]http.HandlerFunc{
		"GET " + api.Paths.ListUsers:         b.listUsers,
		"POST " + api.Paths.CreateUser:       b.createUser,
		"PATCH " + api.Paths.UpdateUser:      b.updateUser,
		"DELETE " + api.Paths.DeleteUser:     b.deleteUser,
		"GET " + api.Paths.ListDrills:        b.listDrills,
		"POST " + api.Paths.CreateDrill:      b.createDrill,
		"PATCH " + api.Paths.UpdateDrill:     b.updateDrill,
		"DELETE " + api.Paths.DeleteDrill:    b.deleteDrill,
		"POST " + api.Paths.Start:            b.startDrill,
		"POST " + api.Paths.Stop:             b.stopDrill,
		"GET " + api.Paths.ListSessions:      b.listSessions,
		"GET " + api.Paths.ActiveSessions:    b.listSessions,
		"GET " + api.Paths.CompletedSessions: b.listSessions,
		"DELETE " + api.Paths.DeleteSession:  b.deleteSession,
	}

	for pattern, h := range routes {
		mux.Handle(pattern, b.intercept(h))
	}

	return mux
}

func (b *Backend) intercept(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()

		b.hits[r.URL.Path]++

		f, ok := b.failures[r.URL.Path]
		if ok {
			delete(b.failures, r.URL.Path)
		}

		b.mu.Unlock()

		if ok {
			writeError(w, f.status, f.body)
			return
		}

		next(w, r)
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
