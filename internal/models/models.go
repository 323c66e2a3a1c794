// Package models defines the records exchanged with the drills backend.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/ayoisaiah/drills/internal/timeutil"
)

type User struct {
	Email     *string            `json:"email"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	CreatedAt timeutil.Timestamp `json:"createdAt"`
	ID        int                `json:"id"`
}

// FullName joins the first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// EmailOrEmpty returns the email address or "" when none is set.
func (u *User) EmailOrEmpty() string {
	if u.Email == nil {
		return ""
	}

	return *u.Email
}

// Drill is a priced activity that sessions are billed against.
type Drill struct {
	Title          string             `json:"title"`
	CreatedAt      timeutil.Timestamp `json:"createdAt"`
	Users          []UserDrill        `json:"users,omitempty"`
	PricePerMinute float64            `json:"pricePerMinute"`
	ID             int                `json:"id"`
}

// DisplayTitle falls back to the drill id when the title is empty.
func (d *Drill) DisplayTitle() string {
	if d.Title == "" {
		return fmt.Sprintf("Drill #%d", d.ID)
	}

	return d.Title
}

// UserDrill is one user's timed session on a drill. User and Drill are
// snapshots embedded by the backend at query time and may be missing.
type UserDrill struct {
	StoppedAt *timeutil.Timestamp `json:"stoppedAt"`
	User      *User               `json:"user,omitempty"`
	Drill     *Drill              `json:"drill,omitempty"`
	StartedAt timeutil.Timestamp  `json:"startedAt"`
	ID        int                 `json:"id"`
	UserID    int                 `json:"userId"`
	DrillID   int                 `json:"drillId"`
}

// Active reports whether the session has no stop time.
func (ud *UserDrill) Active() bool {
	return ud.StoppedAt == nil || ud.StoppedAt.Empty()
}

// UserName returns the embedded user's name, or a placeholder with the id.
func (ud *UserDrill) UserName() string {
	if ud.User == nil {
		return fmt.Sprintf("User #%d", ud.UserID)
	}

	return ud.User.FullName()
}

// DrillTitle returns the embedded drill's title, or a placeholder with the id.
func (ud *UserDrill) DrillTitle() string {
	if ud.Drill == nil || ud.Drill.Title == "" {
		return fmt.Sprintf("Drill #%d", ud.DrillID)
	}

	return ud.Drill.Title
}

// PricePerMinute returns the embedded drill's price, or 0 when missing.
func (ud *UserDrill) PricePerMinute() float64 {
	if ud.Drill == nil {
		return 0
	}

	return ud.Drill.PricePerMinute
}

// Metrics are the values derived from a session's timestamps and price.
type Metrics struct {
	Duration time.Duration
	Cost     float64
	Valid    bool
}

// Metrics computes duration and cost against the reference instant now.
// Sessions without an embedded drill get a zero cost.
func (ud *UserDrill) Metrics(now time.Time) Metrics {
	d, ok := timeutil.Duration(ud.StartedAt, ud.StoppedAt, now)
	if !ok {
		return Metrics{}
	}

	return Metrics{
		Duration: d,
		Cost:     timeutil.Cost(d, ud.PricePerMinute()),
		Valid:    true,
	}
}

type CreateUser struct {
	Email     *string `json:"email,omitempty"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
}

type UpdateUser struct {
	Email     *string `json:"email,omitempty"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	UserID    int     `json:"userId"`
}

type CreateDrill struct {
	Title          string  `json:"title"`
	PricePerMinute float64 `json:"pricePerMinute"`
}

type UpdateDrill struct {
	Title          string  `json:"title"`
	PricePerMinute float64 `json:"pricePerMinute"`
	DrillID        int     `json:"drillId"`
}

// StartStop starts or stops a drill for a group of users.
type StartStop struct {
	UserIDs []int `json:"userIds"`
	DrillID int   `json:"drillId"`
}

type DeleteUser struct {
	UserID int `json:"userId"`
}

type DeleteDrill struct {
	DrillID int `json:"drillId"`
}

type DeleteUserDrill struct {
	UserID  int `json:"userId"`
	DrillID int `json:"drillId"`
}

type UpdateUserResponse struct {
	User User `json:"user"`
}

type DrillResponse struct {
	Drill Drill `json:"drill"`
}
