package tui

import (
	"time"

	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/notify"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDrills viewState = iota
	viewReports
	viewUsers
)

var viewNames = []string{"Drills", "Reports", "Users"}

func (v viewState) String() string {
	if int(v) < 0 || int(v) >= len(viewNames) {
		return viewNames[0]
	}

	return viewNames[v]
}

func parseViewState(s string) viewState {
	for i, name := range viewNames {
		if name == s {
			return viewState(i)
		}
	}

	return viewDrills
}

// --- Messages ---

type tickMsg time.Time

// refreshedMsg arrives after the cache poller refetched every collection.
type refreshedMsg struct{}

type toastMsg notify.Toast

type statusMsg struct {
	text    string
	isError bool
}

// loadedMsg carries a fetch result back to the view that requested it. seq
// identifies the request; views drop results whose seq is not their latest.
type loadedMsg struct {
	err      error
	users    []models.User
	drills   []models.Drill
	sessions []models.UserDrill
	view     viewState
	seq      int
}

// mutatedMsg reports the end of a mutation started from view. key is the
// pending key that was held while it ran.
type mutatedMsg struct {
	err  error
	key  string
	view viewState
}

type exportDoneMsg struct {
	path string
}
