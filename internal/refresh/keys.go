package refresh

import "github.com/ayoisaiah/drills/internal/view"

// Key identifies one cached collection.
type Key string

const (
	KeyUsers  Key = "users"
	KeyDrills Key = "drills"
)

// SessionsKey returns the key of the sessions collection selected by f.
func SessionsKey(f view.Filter) Key {
	if f == "" {
		f = view.FilterAll
	}

	return Key("sessions/" + string(f))
}

// AllKeys lists every collection the cache knows about.
func AllKeys() []Key {
	keys := []Key{KeyUsers, KeyDrills}
	for _, f := range view.Filters {
		keys = append(keys, SessionsKey(f))
	}

	return keys
}

func sessionKeys() []Key {
	keys := make([]Key, 0, len(view.Filters))
	for _, f := range view.Filters {
		keys = append(keys, SessionsKey(f))
	}

	return keys
}

// Mutation names an operation that changes server state.
type Mutation string

const (
	CreateUser    Mutation = "create-user"
	UpdateUser    Mutation = "update-user"
	DeleteUser    Mutation = "delete-user"
	CreateDrill   Mutation = "create-drill"
	UpdateDrill   Mutation = "update-drill"
	DeleteDrill   Mutation = "delete-drill"
	StartDrill    Mutation = "start-drill"
	StopDrill     Mutation = "stop-drill"
	DeleteSession Mutation = "delete-session"
)

// Invalidates returns the collections a successful mutation makes stale.
// Sessions embed a copy of their user and drill, so editing or deleting
// either also invalidates every sessions collection.
func (m Mutation) Invalidates() []Key {
	switch m {
	case CreateUser:
		return []Key{KeyUsers}
	case UpdateUser, DeleteUser:
		return append([]Key{KeyUsers}, sessionKeys()...)
	case CreateDrill:
		return []Key{KeyDrills}
	case UpdateDrill, DeleteDrill, StartDrill, StopDrill, DeleteSession:
		return append([]Key{KeyDrills}, sessionKeys()...)
	default:
		return nil
	}
}

type messages struct {
	success string
	failure string
}

var mutationMessages = map[Mutation]messages{
	CreateUser:    {"User created", "Failed to create user: %s"},
	UpdateUser:    {"User updated", "Failed to update user: %s"},
	DeleteUser:    {"User deleted", "Failed to delete user: %s"},
	CreateDrill:   {"Drill created", "Failed to create drill: %s"},
	UpdateDrill:   {"Drill updated", "Failed to update drill: %s"},
	DeleteDrill:   {"Drill deleted", "Failed to delete drill: %s"},
	StartDrill:    {"Drill started", "Failed to start drill: %s"},
	StopDrill:     {"Drill stopped", "Failed to stop drill: %s"},
	DeleteSession: {"Session deleted", "Failed to delete session: %s"},
}
