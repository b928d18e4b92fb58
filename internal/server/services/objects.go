package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/logging"
	"github.com/dmitrijs2005/visittracker/internal/media"
	"github.com/dmitrijs2005/visittracker/internal/server/blobstore"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
	"github.com/dmitrijs2005/visittracker/internal/server/storage"
)

// ObjectSummary is a directory row for the object list.
type ObjectSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	VisitsCount int    `json:"visits_count"`
}

// ObjectService covers the single-record operations used by the director's
// dashboard, outside of the sync round.
type ObjectService struct {
	store storage.Store
	blobs blobstore.BlobStore
	log   logging.Logger
	now   func() time.Time
}

func NewObjectService(store storage.Store, blobs blobstore.BlobStore, log logging.Logger) *ObjectService {
	return &ObjectService{
		store: store,
		blobs: blobs,
		log:   log.With("module", "objects"),
		now:   time.Now,
	}
}

func (s *ObjectService) snapshot(ctx context.Context) (*models.Snapshot, error) {
	snap, err := s.store.FetchAll(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return &models.Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func findObject(snap *models.Snapshot, id string) (*models.Object, bool) {
	for i := range snap.Objects {
		if snap.Objects[i].ID == id {
			return &snap.Objects[i], true
		}
	}
	return nil, false
}

// ListObjects returns live objects ordered by name with their visit counts.
func (s *ObjectService) ListObjects(ctx context.Context) ([]ObjectSummary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	live := snap.Live()

	out := make([]ObjectSummary, 0, len(live.Objects))
	for _, o := range live.Objects {
		out = append(out, ObjectSummary{ID: o.ID, Name: o.Name, Address: o.Address, VisitsCount: len(o.Visits)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateObject stores a new object. A missing id is generated.
func (s *ObjectService) CreateObject(ctx context.Context, o models.Object) (*models.Object, error) {
	if strings.TrimSpace(o.Name) == "" || strings.TrimSpace(o.Address) == "" {
		return nil, fmt.Errorf("%w: name and address are required", common.ErrInvalidPayload)
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.Visits = nil
	o.Deleted = false

	err := s.store.Atomic(ctx, func(ctx context.Context, tx storage.Store) error {
		snap, err := tx.FetchAll(ctx)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		if snap != nil {
			if _, ok := findObject(snap, o.ID); ok {
				return fmt.Errorf("%w: object %s", common.ErrConflict, o.ID)
			}
		}
		s.resolvePhoto(ctx, &o, nil)
		return tx.UpsertObject(ctx, &o)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "object created", "id", o.ID)
	return &o, nil
}

// UpdateObject replaces the descriptive fields of an existing object. Nil
// optional fields keep their stored values.
func (s *ObjectService) UpdateObject(ctx context.Context, o models.Object) (*models.Object, error) {
	if o.ID == "" || strings.TrimSpace(o.Name) == "" || strings.TrimSpace(o.Address) == "" {
		return nil, fmt.Errorf("%w: id, name and address are required", common.ErrInvalidPayload)
	}

	var updated models.Object
	err := s.store.Atomic(ctx, func(ctx context.Context, tx storage.Store) error {
		snap, err := tx.FetchAll(ctx)
		if err != nil {
			return err
		}
		existing, ok := findObject(snap, o.ID)
		if !ok || existing.Deleted {
			return common.ErrorNotFound
		}

		updated = existing.Clone()
		updated.Visits = nil
		updated.Name = o.Name
		updated.Address = o.Address
		models.OverrideIfSet(&updated.Description, o.Description)
		models.OverrideIfSet(&updated.ContactName, o.ContactName)
		models.OverrideIfSet(&updated.ContactPhone, o.ContactPhone)
		models.OverrideIfSet(&updated.ObjectType, o.ObjectType)
		if o.ObjectPhoto != nil && *o.ObjectPhoto != "" {
			updated.ObjectPhoto = o.ObjectPhoto
			s.resolvePhoto(ctx, &updated, existing.ObjectPhoto)
		}
		return tx.UpsertObject(ctx, &updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// resolvePhoto uploads an inline object photo. On failure the previous
// value is kept.
func (s *ObjectService) resolvePhoto(ctx context.Context, o *models.Object, previous *string) {
	if o.ObjectPhoto == nil || !media.IsInline(*o.ObjectPhoto) {
		return
	}
	_, url, err := s.blobs.Upload(ctx, *o.ObjectPhoto, media.ObjectPhotoID(o.ID), blobstore.ObjectPrefix)
	if err != nil {
		s.log.Warn(ctx, "object photo upload failed", "id", o.ID, "error", err)
		o.ObjectPhoto = previous
		return
	}
	o.ObjectPhoto = &url
}

// CreateVisit records a new visit. Visits created here are always locked.
func (s *ObjectService) CreateVisit(ctx context.Context, v models.Visit) (*models.Visit, error) {
	if v.ObjectID == "" || v.VisitType == "" || !v.VisitType.Valid() || strings.TrimSpace(v.Comment) == "" {
		return nil, fmt.Errorf("%w: object, type and comment are required", common.ErrInvalidPayload)
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := s.now().UTC()
	if v.VisitDate == "" {
		v.VisitDate = now.Format(time.DateOnly)
	}
	if v.CreatedAt == "" {
		v.CreatedAt = now.Format(time.RFC3339)
	}
	v.CreatedBy = v.Author()
	v.IsLocked = true
	v.Deleted = false

	photos := make([]string, 0, len(v.Photos))
	for i, ref := range v.Photos {
		if !media.IsInline(ref) {
			photos = append(photos, ref)
			continue
		}
		_, url, err := s.blobs.Upload(ctx, ref, media.VisitPhotoID(v.ID, i), blobstore.PhotoPrefix)
		if err != nil {
			return nil, fmt.Errorf("upload photo %d: %w", i, err)
		}
		photos = append(photos, url)
	}
	v.Photos = photos

	err := s.store.Atomic(ctx, func(ctx context.Context, tx storage.Store) error {
		snap, err := tx.FetchAll(ctx)
		if err != nil {
			return err
		}
		o, ok := findObject(snap, v.ObjectID)
		if !ok || o.Deleted {
			return common.ErrorNotFound
		}
		for _, existing := range o.Visits {
			if existing.ID == v.ID {
				return fmt.Errorf("%w: visit %s", common.ErrConflict, v.ID)
			}
		}
		if err := tx.UpsertVisit(ctx, &v); err != nil {
			return err
		}
		for _, url := range v.Photos {
			if err := tx.InsertPhotoIfAbsent(ctx, v.ID, url); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "visit created", "id", v.ID, "object", v.ObjectID)
	return &v, nil
}

// ObjectVisits returns the live visits of an object, newest first.
func (s *ObjectService) ObjectVisits(ctx context.Context, objectID string) ([]models.Visit, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	o, ok := findObject(snap.Live(), objectID)
	if !ok {
		return nil, common.ErrorNotFound
	}

	visits := o.Visits
	sort.SliceStable(visits, func(i, j int) bool { return visits[i].CreatedAt > visits[j].CreatedAt })
	return visits, nil
}

// Stats counts live objects, visits and photos.
func (s *ObjectService) Stats(ctx context.Context) (*models.Stats, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	st := &models.Stats{}
	for _, o := range snap.Live().Objects {
		st.Objects++
		for _, v := range o.Visits {
			st.Visits++
			switch v.VisitType {
			case models.VisitPlanned:
				st.Planned++
			case models.VisitUnplanned:
				st.Unplanned++
			}
			st.Photos += len(v.Photos)
		}
	}
	return st, nil
}
