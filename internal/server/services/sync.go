// Package services contains server-side business logic: the sync round,
// directory operations on objects and visits, login and SMS notices.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/logging"
	"github.com/dmitrijs2005/visittracker/internal/media"
	"github.com/dmitrijs2005/visittracker/internal/server/blobstore"
	"github.com/dmitrijs2005/visittracker/internal/server/merge"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
	"github.com/dmitrijs2005/visittracker/internal/server/storage"
)

// SyncService runs reconciliation rounds between a client's local state and
// the canonical store.
type SyncService struct {
	store storage.Store
	blobs blobstore.BlobStore
	log   logging.Logger
}

func NewSyncService(store storage.Store, blobs blobstore.BlobStore, log logging.Logger) *SyncService {
	return &SyncService{store: store, blobs: blobs, log: log.With("module", "sync")}
}

// fetch returns the canonical snapshot, treating an uninitialized store as
// empty. Any other failure is returned as is.
func (s *SyncService) fetch(ctx context.Context) (*models.Snapshot, error) {
	snap, err := s.store.FetchAll(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		s.log.Info(ctx, "store is empty, starting from scratch")
		return &models.Snapshot{Objects: []models.Object{}, Users: []models.User{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch server state: %w", err)
	}
	return snap, nil
}

// Reconcile merges the client payload into the canonical state, moves inline
// media to blob storage and persists the result. A failed round leaves
// whatever was committed before the failure in place and can be retried with
// the same payload.
func (s *SyncService) Reconcile(ctx context.Context, objects []models.Object, users []models.User) (*models.SyncSummary, error) {
	if err := models.ValidatePayload(objects, users); err != nil {
		return nil, err
	}

	current, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	merged, err := merge.Merge(current.Objects, objects)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	summary := &models.SyncSummary{MergedObjects: len(merged)}
	s.migrateMedia(ctx, merged, summary)

	previousPhoto := make(map[string]*string, len(current.Objects))
	for _, o := range current.Objects {
		previousPhoto[o.ID] = o.ObjectPhoto
	}

	for i := range merged {
		o := &merged[i]
		err := s.store.Atomic(ctx, func(ctx context.Context, tx storage.Store) error {
			return persistObject(ctx, tx, o, previousPhoto[o.ID])
		})
		if err != nil {
			return nil, fmt.Errorf("persist object %s: %w", o.ID, err)
		}
	}

	if len(users) > 0 {
		err := s.store.Atomic(ctx, func(ctx context.Context, tx storage.Store) error {
			for i := range users {
				if err := tx.UpsertUser(ctx, &users[i]); err != nil {
					return fmt.Errorf("user %s: %w", users[i].Username, err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("persist users: %w", err)
		}
		summary.Users = users
	} else {
		summary.Users = current.Users
	}

	s.log.Info(ctx, "sync round finished",
		"objects", summary.MergedObjects,
		"users", len(summary.Users),
		"uploaded", summary.UploadedMedia,
		"failed", summary.FailedMedia,
	)

	return summary, nil
}

// migrateMedia replaces inline data URIs in the merged graph with blob URLs.
// A failed upload is logged and leaves the item inline.
func (s *SyncService) migrateMedia(ctx context.Context, objects []models.Object, summary *models.SyncSummary) {
	for i := range objects {
		o := &objects[i]
		if o.ObjectPhoto != nil && media.IsInline(*o.ObjectPhoto) {
			if url, ok := s.upload(ctx, *o.ObjectPhoto, media.ObjectPhotoID(o.ID), blobstore.ObjectPrefix, summary); ok {
				o.ObjectPhoto = &url
			}
		}

		for j := range o.Visits {
			v := &o.Visits[j]
			for k, ref := range v.Photos {
				if !media.IsInline(ref) {
					continue
				}
				if url, ok := s.upload(ctx, ref, media.VisitPhotoID(v.ID, k), blobstore.PhotoPrefix, summary); ok {
					v.Photos[k] = url
				}
			}
		}
	}
}

func (s *SyncService) upload(ctx context.Context, ref, logicalID, prefix string, summary *models.SyncSummary) (string, bool) {
	_, url, err := s.blobs.Upload(ctx, ref, logicalID, prefix)
	if err != nil {
		summary.FailedMedia++
		s.log.Warn(ctx, "media upload failed", "id", logicalID, "error", err)
		return "", false
	}
	summary.UploadedMedia++
	return url, true
}

// persistObject writes one merged object with its visits and photos. Visits
// are stored under o whatever objectId they carry. Inline
// media that could not be migrated never reaches the store: the object photo
// falls back to the previously stored value and inline visit photos are
// skipped.
func persistObject(ctx context.Context, tx storage.Store, o *models.Object, previousPhoto *string) error {
	row := o.Clone()
	row.Visits = nil
	if row.ObjectPhoto != nil && media.IsInline(*row.ObjectPhoto) {
		row.ObjectPhoto = previousPhoto
	}
	if err := tx.UpsertObject(ctx, &row); err != nil {
		return err
	}

	for i := range o.Visits {
		v := o.Visits[i]
		v.ObjectID = o.ID
		if err := tx.UpsertVisit(ctx, &v); err != nil {
			return fmt.Errorf("visit %s: %w", v.ID, err)
		}
		for _, url := range v.Photos {
			if url == "" || media.IsInline(url) {
				continue
			}
			if err := tx.InsertPhotoIfAbsent(ctx, v.ID, url); err != nil {
				return fmt.Errorf("photo of visit %s: %w", v.ID, err)
			}
		}
	}
	return nil
}

// Pull returns the live graph: archived objects and visits are left out.
func (s *SyncService) Pull(ctx context.Context) (*models.Snapshot, error) {
	snap, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Live(), nil
}
