// Package storage is the canonical store for objects, visits, photos and
// users. Every write checks for an existing row first and then inserts or
// updates it.
package storage

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

type Store interface {
	// FetchAll returns the whole graph, archived records included.
	// common.ErrorNotFound means the store has not been initialized yet.
	FetchAll(ctx context.Context) (*models.Snapshot, error)
	UpsertObject(ctx context.Context, o *models.Object) error
	// UpsertVisit inserts a new visit or updates an existing one under
	// models.ApplyVisitUpdate. Photos on v are ignored.
	UpsertVisit(ctx context.Context, v *models.Visit) error
	InsertPhotoIfAbsent(ctx context.Context, visitID, url string) error
	// UpsertUser updates the stored user with u's username, or failing that
	// with u's id, and inserts u otherwise. u.ID is set to the stored id.
	UpsertUser(ctx context.Context, u *models.User) error
	// Atomic runs fn against a store whose writes commit together.
	Atomic(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

// assemble attaches visits and photos to their objects.
func assemble(objects []models.Object, visits []models.Visit, photos map[string][]string, users []models.User) *models.Snapshot {
	byObject := make(map[string][]models.Visit, len(objects))
	for _, v := range visits {
		v.Photos = append([]string{}, photos[v.ID]...)
		byObject[v.ObjectID] = append(byObject[v.ObjectID], v)
	}

	snap := &models.Snapshot{
		Objects: make([]models.Object, 0, len(objects)),
		Users:   make([]models.User, 0, len(users)),
	}
	for _, o := range objects {
		vs := byObject[o.ID]
		if vs == nil {
			vs = []models.Visit{}
		}
		sort.SliceStable(vs, func(i, j int) bool { return vs[i].CreatedAt < vs[j].CreatedAt })
		o.Visits = vs
		snap.Objects = append(snap.Objects, o)
	}
	snap.Users = append(snap.Users, users...)
	return snap
}
