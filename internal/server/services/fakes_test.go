package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/visittracker/internal/media"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
	"github.com/dmitrijs2005/visittracker/internal/server/storage"
)

// fakeBlobs records uploads and fails for logical ids listed in failFor.
type fakeBlobs struct {
	mu      sync.Mutex
	uploads map[string]int
	failFor map[string]bool
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{uploads: map[string]int{}, failFor: map[string]bool{}}
}

func (f *fakeBlobs) Upload(_ context.Context, dataURI, logicalID, prefix string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[logicalID] {
		return "", "", errors.New("blob backend down")
	}
	d, err := media.Parse(dataURI)
	if err != nil {
		return "", "", err
	}
	key := media.StorageKey(prefix, logicalID, d.MIMEType)
	f.uploads[key]++
	return key, "http://localhost:9000/mchs-tracker/" + key, nil
}

// failingStore wraps a Store and fails selected operations.
type failingStore struct {
	storage.Store
	fetchErr  error
	upsertErr error
}

func (f *failingStore) FetchAll(ctx context.Context) (*models.Snapshot, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.Store.FetchAll(ctx)
}

func (f *failingStore) UpsertObject(ctx context.Context, o *models.Object) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.Store.UpsertObject(ctx, o)
}

func (f *failingStore) Atomic(ctx context.Context, fn func(ctx context.Context, s storage.Store) error) error {
	return f.Store.Atomic(ctx, func(ctx context.Context, tx storage.Store) error {
		return fn(ctx, &failingStore{Store: tx, fetchErr: f.fetchErr, upsertErr: f.upsertErr})
	})
}

// hasInline reports the first inline reference left in a snapshot.
func hasInline(s *models.Snapshot) error {
	for _, o := range s.Objects {
		if o.ObjectPhoto != nil && strings.HasPrefix(*o.ObjectPhoto, "data:") {
			return fmt.Errorf("object %s photo is inline", o.ID)
		}
		for _, v := range o.Visits {
			for _, p := range v.Photos {
				if strings.HasPrefix(p, "data:") {
					return fmt.Errorf("visit %s photo is inline", v.ID)
				}
			}
		}
	}
	return nil
}
