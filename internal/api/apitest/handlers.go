package apitest

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/ayoisaiah/drills/internal/api"
	"github.com/ayoisaiah/drills/internal/models"
)

type wireUser struct {
	Email     *string `json:"email"`
	CreatedAt any     `json:"createdAt"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	ID        int     `json:"id"`
}

type wireDrill struct {
	CreatedAt      any         `json:"createdAt"`
	Title          string      `json:"title"`
	Users          []wireEntry `json:"users"`
	PricePerMinute float64     `json:"pricePerMinute"`
	ID             int         `json:"id"`
}

type wireEntry struct {
	StartedAt any        `json:"startedAt"`
	StoppedAt any        `json:"stoppedAt"`
	User      *wireUser  `json:"user,omitempty"`
	Drill     *wireDrill `json:"drill,omitempty"`
	ID        int        `json:"id"`
	UserID    int        `json:"userId"`
	DrillID   int        `json:"drillId"`
}

func (b *Backend) wireUser(u user) wireUser {
	return wireUser{
		ID:        u.id,
		FirstName: u.firstName,
		LastName:  u.lastName,
		Email:     u.email,
		CreatedAt: b.stamp(u.created),
	}
}

func (b *Backend) wireDrill(d drill, withSessions bool) wireDrill {
	w := wireDrill{
		ID:             d.id,
		Title:          d.title,
		PricePerMinute: d.price,
		CreatedAt:      b.stamp(d.created),
		Users:          []wireEntry{},
	}

	if withSessions {
		for _, s := range b.sessions {
			if s.drillID == d.id {
				w.Users = append(w.Users, b.wireEntry(s))
			}
		}
	}

	return w
}

func (b *Backend) wireEntry(s session) wireEntry {
	e := wireEntry{
		ID:        s.id,
		UserID:    s.userID,
		DrillID:   s.drillID,
		StartedAt: b.stamp(s.started),
	}

	if s.stopped != nil {
		e.StoppedAt = b.stamp(*s.stopped)
	}

	if i := b.findUser(s.userID); i >= 0 {
		u := b.wireUser(b.users[i])
		e.User = &u
	}

	if i := b.findDrill(s.drillID); i >= 0 {
		d := b.wireDrill(b.drills[i], false)
		e.Drill = &d
	}

	return e
}

func (b *Backend) listUsers(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]wireUser, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, b.wireUser(u))
	}

	writeJSON(w, out)
}

func (b *Backend) createUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUser
	if !decode(w, r, &req) {
		return
	}

	if isBlank(req.FirstName) || isBlank(req.LastName) {
		writeError(w, http.StatusBadRequest, "First name and last name are required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.addUser(req.FirstName, req.LastName, req.Email)

	writeJSON(w, b.wireUser(b.users[b.findUser(id)]))
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUser
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.findUser(req.UserID)
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("User %d not found", req.UserID))
		return
	}

	b.users[i].firstName = req.FirstName
	b.users[i].lastName = req.LastName
	b.users[i].email = req.Email

	writeJSON(w, map[string]any{"user": b.wireUser(b.users[i])})
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteUser
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.findUser(req.UserID)
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("User %d not found", req.UserID))
		return
	}

	b.users = slices.Delete(b.users, i, i+1)
	b.sessions = slices.DeleteFunc(b.sessions, func(s session) bool {
		return s.userID == req.UserID
	})

	w.WriteHeader(http.StatusOK)
}

func (b *Backend) listDrills(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]wireDrill, 0, len(b.drills))
	for _, d := range b.drills {
		out = append(out, b.wireDrill(d, true))
	}

	writeJSON(w, out)
}

func (b *Backend) createDrill(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDrill
	if !decode(w, r, &req) {
		return
	}

	if isBlank(req.Title) || req.PricePerMinute < 0 {
		writeError(w, http.StatusBadRequest, "Title is required and price must not be negative")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.addDrill(req.Title, req.PricePerMinute)

	writeJSON(w, b.wireDrill(b.drills[b.findDrill(id)], true))
}

func (b *Backend) updateDrill(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateDrill
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.findDrill(req.DrillID)
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Drill %d not found", req.DrillID))
		return
	}

	b.drills[i].title = req.Title
	b.drills[i].price = req.PricePerMinute

	writeJSON(w, map[string]any{"drill": b.wireDrill(b.drills[i], true)})
}

func (b *Backend) deleteDrill(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteDrill
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.findDrill(req.DrillID)
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Drill %d not found", req.DrillID))
		return
	}

	b.drills = slices.Delete(b.drills, i, i+1)
	b.sessions = slices.DeleteFunc(b.sessions, func(s session) bool {
		return s.drillID == req.DrillID
	})

	w.WriteHeader(http.StatusOK)
}

func (b *Backend) startDrill(w http.ResponseWriter, r *http.Request) {
	var req models.StartStop
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.findDrill(req.DrillID)
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Drill %d not found", req.DrillID))
		return
	}

	for _, id := range req.UserIDs {
		if b.findUser(id) < 0 {
			writeError(w, http.StatusNotFound, fmt.Sprintf("User %d not found", id))
			return
		}

		if b.activeSession(id, req.DrillID) >= 0 {
			writeError(
				w,
				http.StatusConflict,
				fmt.Sprintf("User %d already has an active session on this drill", id),
			)

			return
		}
	}

	now := b.clock.Now()

	for _, id := range req.UserIDs {
		b.nextID++
		b.sessions = append(b.sessions, session{
			id:      b.nextID,
			userID:  id,
			drillID: req.DrillID,
			started: now,
		})
	}

	writeJSON(w, map[string]any{"drill": b.wireDrill(b.drills[i], true)})
}

func (b *Backend) stopDrill(w http.ResponseWriter, r *http.Request) {
	var req models.StartStop
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.findDrill(req.DrillID)
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Drill %d not found", req.DrillID))
		return
	}

	now := b.clock.Now()

	for _, id := range req.UserIDs {
		if j := b.activeSession(id, req.DrillID); j >= 0 {
			stopped := now
			b.sessions[j].stopped = &stopped
		}
	}

	writeJSON(w, map[string]any{"drill": b.wireDrill(b.drills[i], true)})
}

func (b *Backend) listSessions(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]wireEntry, 0, len(b.sessions))

	for _, s := range b.sessions {
		switch r.URL.Path {
		case api.Paths.ActiveSessions:
			if s.stopped != nil {
				continue
			}
		case api.Paths.CompletedSessions:
			if s.stopped == nil {
				continue
			}
		}

		out = append(out, b.wireEntry(s))
	}

	writeJSON(w, out)
}

func (b *Backend) deleteSession(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteUserDrill
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.sessions)

	b.sessions = slices.DeleteFunc(b.sessions, func(s session) bool {
		return s.userID == req.UserID && s.drillID == req.DrillID
	})

	if len(b.sessions) == n {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	w.WriteHeader(http.StatusOK)
}
