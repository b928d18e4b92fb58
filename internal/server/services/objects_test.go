package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/logging"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
	"github.com/dmitrijs2005/visittracker/internal/server/storage"
)

func newObjectService(t *testing.T) (*ObjectService, *storage.MemoryStore, *fakeBlobs) {
	t.Helper()
	store := storage.NewMemoryStore()
	blobs := newFakeBlobs()
	svc := NewObjectService(store, blobs, logging.Nop{})
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) }
	return svc, store, blobs
}

func TestCreateObject(t *testing.T) {
	svc, store, _ := newObjectService(t)
	ctx := context.Background()

	o, err := svc.CreateObject(ctx, models.Object{Name: "Склад", Address: "ул. Мира, 1", ObjectPhoto: models.StringPtr(jpeg)})
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "http://localhost:9000/mchs-tracker/objects/obj_"+o.ID+".jpg", *o.ObjectPhoto)

	snap, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Objects, 1)

	_, err = svc.CreateObject(ctx, models.Object{ID: o.ID, Name: "dup", Address: "x"})
	assert.True(t, errors.Is(err, common.ErrConflict))
}

func TestCreateObject_Validation(t *testing.T) {
	svc, _, _ := newObjectService(t)

	_, err := svc.CreateObject(context.Background(), models.Object{Name: "only name"})
	assert.True(t, errors.Is(err, common.ErrInvalidPayload))
}

func TestUpdateObject(t *testing.T) {
	svc, store, _ := newObjectService(t)
	ctx := context.Background()
	require.NoError(t, store.UpsertObject(ctx, &models.Object{
		ID: "o1", Name: "Old", Address: "A", ContactName: models.StringPtr("Ivan"),
	}))

	got, err := svc.UpdateObject(ctx, models.Object{ID: "o1", Name: "New", Address: "B", ContactPhone: models.StringPtr("+7")})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "Ivan", *got.ContactName)
	assert.Equal(t, "+7", *got.ContactPhone)

	_, err = svc.UpdateObject(ctx, models.Object{ID: "ghost", Name: "x", Address: "y"})
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestCreateVisit(t *testing.T) {
	svc, store, _ := newObjectService(t)
	ctx := context.Background()
	require.NoError(t, store.UpsertObject(ctx, &models.Object{ID: "o1"}))

	v, err := svc.CreateVisit(ctx, models.Visit{
		ObjectID: "o1", VisitType: models.VisitUnplanned, Comment: "leak fixed",
		Photos: []string{jpeg, "http://already/there.jpg"},
	})
	require.NoError(t, err)
	assert.True(t, v.IsLocked)
	assert.Equal(t, "2024-06-01", v.VisitDate)
	assert.Equal(t, "2024-06-01T09:30:00Z", v.CreatedAt)
	assert.Equal(t, models.DefaultCreatedBy, v.CreatedBy)
	require.Len(t, v.Photos, 2)
	assert.Equal(t, "http://localhost:9000/mchs-tracker/photos/visit_"+v.ID+"_0.jpg", v.Photos[0])

	snap, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Objects[0].Visits, 1)
	assert.Len(t, snap.Objects[0].Visits[0].Photos, 2)
}

func TestCreateVisit_Errors(t *testing.T) {
	svc, store, _ := newObjectService(t)
	ctx := context.Background()

	_, err := svc.CreateVisit(ctx, models.Visit{ObjectID: "o1", VisitType: models.VisitPlanned})
	assert.True(t, errors.Is(err, common.ErrInvalidPayload), "comment is required")

	_, err = svc.CreateVisit(ctx, models.Visit{ObjectID: "o1", VisitType: "other", Comment: "c"})
	assert.True(t, errors.Is(err, common.ErrInvalidPayload))

	_, err = svc.CreateVisit(ctx, models.Visit{ObjectID: "missing", VisitType: models.VisitPlanned, Comment: "c"})
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	require.NoError(t, store.UpsertObject(ctx, &models.Object{ID: "archived", Deleted: true}))
	_, err = svc.CreateVisit(ctx, models.Visit{ObjectID: "archived", VisitType: models.VisitPlanned, Comment: "c"})
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestObjectVisitsAndStats(t *testing.T) {
	svc, store, _ := newObjectService(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertObject(ctx, &models.Object{ID: "b", Name: "Beta"}))
	require.NoError(t, store.UpsertObject(ctx, &models.Object{ID: "a", Name: "Alpha"}))
	require.NoError(t, store.UpsertObject(ctx, &models.Object{ID: "z", Name: "Archived", Deleted: true}))
	require.NoError(t, store.UpsertVisit(ctx, &models.Visit{ID: "v1", ObjectID: "a", VisitType: models.VisitPlanned, CreatedAt: "1"}))
	require.NoError(t, store.UpsertVisit(ctx, &models.Visit{ID: "v2", ObjectID: "a", VisitType: models.VisitUnplanned, CreatedAt: "2"}))
	require.NoError(t, store.UpsertVisit(ctx, &models.Visit{ID: "v3", ObjectID: "a", VisitType: models.VisitPlanned, CreatedAt: "3", Deleted: true}))
	require.NoError(t, store.UpsertVisit(ctx, &models.Visit{ID: "v4", ObjectID: "z", VisitType: models.VisitPlanned}))
	require.NoError(t, store.InsertPhotoIfAbsent(ctx, "v1", "p1"))
	require.NoError(t, store.InsertPhotoIfAbsent(ctx, "v2", "p2"))
	require.NoError(t, store.InsertPhotoIfAbsent(ctx, "v3", "p3"))

	visits, err := svc.ObjectVisits(ctx, "a")
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, "v2", visits[0].ID, "newest first")

	_, err = svc.ObjectVisits(ctx, "z")
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	list, err := svc.ListObjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, 2, list[0].VisitsCount)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.Stats{Objects: 2, Visits: 2, Planned: 1, Unplanned: 1, Photos: 2}, st)
}

func TestStats_EmptyStore(t *testing.T) {
	svc, _, _ := newObjectService(t)

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.Stats{}, st)
}
