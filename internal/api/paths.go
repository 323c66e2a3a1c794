package api

const (
	pathListUsers  = "/api/User/ListAllUsers/list"
	pathCreateUser = "/api/User/CreateUser"
	pathUpdateUser = "/api/User/UpdateUser"
	pathDeleteUser = "/api/User/DeleteUser"

	pathListDrills  = "/api/Drill/ListAllDrills/list"
	pathCreateDrill = "/api/Drill/CreateDrill"
	pathUpdateDrill = "/api/Drill/UpdateDrill"
	pathDeleteDrill = "/api/Drill/DeleteDrill"
	pathStartDrill  = "/api/Drill/StartDrill/start"
	pathStopDrill   = "/api/Drill/StopDrill/stop"

	pathListSessions      = "/api/UserDrill/ListAll/list"
	pathActiveSessions    = "/api/UserDrill/GetActive/active"
	pathCompletedSessions = "/api/UserDrill/GetCompleted/completed"
	pathDeleteSession     = "/api/UserDrill/DeleteUserDrill"
)

// Paths exposes the endpoint paths to backends that need to serve them.
var Paths = struct {
	ListUsers, CreateUser, UpdateUser, DeleteUser                  string
	ListDrills, CreateDrill, UpdateDrill, DeleteDrill, Start, Stop string
	ListSessions, ActiveSessions, CompletedSessions, DeleteSession string
}{
	ListUsers:         pathListUsers,
	CreateUser:        pathCreateUser,
	UpdateUser:        pathUpdateUser,
	DeleteUser:        pathDeleteUser,
	ListDrills:        pathListDrills,
	CreateDrill:       pathCreateDrill,
	UpdateDrill:       pathUpdateDrill,
	DeleteDrill:       pathDeleteDrill,
	Start:             pathStartDrill,
	Stop:              pathStopDrill,
	ListSessions:      pathListSessions,
	ActiveSessions:    pathActiveSessions,
	CompletedSessions: pathCompletedSessions,
	DeleteSession:     pathDeleteSession,
}
