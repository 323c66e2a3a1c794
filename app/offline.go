package app

import (
	"context"
	"errors"

	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/refresh"
	"github.com/ayoisaiah/drills/internal/store"
	"github.com/ayoisaiah/drills/internal/view"
)

type snapshotReader interface {
	LoadSnapshot(key string) (store.Snapshot, error)
}

// offlineBackend serves the collections saved by the last online run.
// Mutations always fail.
type offlineBackend struct {
	src snapshotReader
}

func (o offlineBackend) load(key refresh.Key, v any) error {
	snap, err := o.src.LoadSnapshot(string(key))
	if err != nil {
		return err
	}

	return snap.Decode(v)
}

func (o offlineBackend) ListUsers(_ context.Context) ([]models.User, error) {
	var users []models.User

	return users, o.load(refresh.KeyUsers, &users)
}

func (o offlineBackend) ListDrills(_ context.Context) ([]models.Drill, error) {
	var drills []models.Drill

	return drills, o.load(refresh.KeyDrills, &drills)
}

// ListSessions falls back to filtering the saved "all" collection when the
// requested filter was never fetched online.
func (o offlineBackend) ListSessions(
	_ context.Context,
	f view.Filter,
) ([]models.UserDrill, error) {
	var sessions []models.UserDrill

	err := o.load(refresh.SessionsKey(f), &sessions)
	if err == nil || f == view.FilterAll || !errors.Is(err, store.ErrNoSnapshot) {
		return sessions, err
	}

	if err := o.load(refresh.SessionsKey(view.FilterAll), &sessions); err != nil {
		return nil, err
	}

	return view.FilterSessions(sessions, f), nil
}

func (o offlineBackend) CreateUser(context.Context, models.CreateUser) (models.User, error) {
	return models.User{}, errOffline.Fmt("creating a user")
}

func (o offlineBackend) UpdateUser(context.Context, models.UpdateUser) (models.User, error) {
	return models.User{}, errOffline.Fmt("updating a user")
}

func (o offlineBackend) DeleteUser(context.Context, int) error {
	return errOffline.Fmt("deleting a user")
}

func (o offlineBackend) CreateDrill(context.Context, models.CreateDrill) (models.Drill, error) {
	return models.Drill{}, errOffline.Fmt("creating a drill")
}

func (o offlineBackend) UpdateDrill(context.Context, models.UpdateDrill) (models.Drill, error) {
	return models.Drill{}, errOffline.Fmt("updating a drill")
}

func (o offlineBackend) DeleteDrill(context.Context, int) error {
	return errOffline.Fmt("deleting a drill")
}

func (o offlineBackend) StartDrill(context.Context, models.StartStop) (models.Drill, error) {
	return models.Drill{}, errOffline.Fmt("starting a drill")
}

func (o offlineBackend) StopDrill(context.Context, models.StartStop) (models.Drill, error) {
	return models.Drill{}, errOffline.Fmt("stopping a drill")
}

func (o offlineBackend) DeleteSession(context.Context, int, int) error {
	return errOffline.Fmt("deleting a session")
}
