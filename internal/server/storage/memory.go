package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

type memState struct {
	initialized bool

	objectOrder []string
	objects     map[string]models.Object

	visitOrder []string
	visits     map[string]models.Visit

	photos map[string][]string

	userOrder []string
	users     map[string]models.User
}

func newMemState() *memState {
	return &memState{
		objects: make(map[string]models.Object),
		visits:  make(map[string]models.Visit),
		photos:  make(map[string][]string),
		users:   make(map[string]models.User),
	}
}

func (st *memState) clone() *memState {
	c := newMemState()
	c.initialized = st.initialized
	c.objectOrder = append([]string(nil), st.objectOrder...)
	for k, v := range st.objects {
		c.objects[k] = v.Clone()
	}
	c.visitOrder = append([]string(nil), st.visitOrder...)
	for k, v := range st.visits {
		c.visits[k] = v.Clone()
	}
	for k, v := range st.photos {
		c.photos[k] = append([]string(nil), v...)
	}
	c.userOrder = append([]string(nil), st.userOrder...)
	for k, v := range st.users {
		c.users[k] = v.Clone()
	}
	return c
}

// MemoryStore is an in-process Store. Atomic works on a copy of the state
// and swaps it in only when fn succeeds.
type MemoryStore struct {
	mu   *sync.Mutex
	st   *memState
	inTx bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mu: &sync.Mutex{}, st: newMemState()}
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) FetchAll(ctx context.Context) (*models.Snapshot, error) {
	defer s.lock()()

	if !s.st.initialized {
		return nil, common.ErrorNotFound
	}

	objects := make([]models.Object, 0, len(s.st.objectOrder))
	for _, id := range s.st.objectOrder {
		o := s.st.objects[id].Clone()
		o.Visits = nil
		objects = append(objects, o)
	}
	visits := make([]models.Visit, 0, len(s.st.visitOrder))
	for _, id := range s.st.visitOrder {
		visits = append(visits, s.st.visits[id].Clone())
	}
	users := make([]models.User, 0, len(s.st.userOrder))
	for _, name := range s.st.userOrder {
		users = append(users, s.st.users[name].Clone())
	}
	return assemble(objects, visits, s.st.photos, users), nil
}

func (s *MemoryStore) UpsertObject(ctx context.Context, o *models.Object) error {
	defer s.lock()()

	if _, ok := s.st.objects[o.ID]; !ok {
		s.st.objectOrder = append(s.st.objectOrder, o.ID)
	}
	c := o.Clone()
	c.Visits = nil
	s.st.objects[o.ID] = c
	s.st.initialized = true
	return nil
}

func (s *MemoryStore) UpsertVisit(ctx context.Context, v *models.Visit) error {
	defer s.lock()()

	existing, ok := s.st.visits[v.ID]
	if !ok {
		c := v.Clone()
		c.Photos = nil
		c.CreatedBy = c.Author()
		s.st.visits[v.ID] = c
		s.st.visitOrder = append(s.st.visitOrder, v.ID)
	} else {
		updated := models.ApplyVisitUpdate(existing, *v)
		updated.CreatedBy = updated.Author()
		s.st.visits[v.ID] = updated
	}
	s.st.initialized = true
	return nil
}

func (s *MemoryStore) InsertPhotoIfAbsent(ctx context.Context, visitID, url string) error {
	defer s.lock()()

	for _, existing := range s.st.photos[visitID] {
		if existing == url {
			return nil
		}
	}
	s.st.photos[visitID] = append(s.st.photos[visitID], url)
	return nil
}

func (s *MemoryStore) UpsertUser(ctx context.Context, u *models.User) error {
	defer s.lock()()

	c := u.Clone()
	if prev, ok := s.findUser(u); ok {
		c.ID = s.st.users[prev].ID
		if prev != c.Username {
			delete(s.st.users, prev)
			for i, name := range s.st.userOrder {
				if name == prev {
					s.st.userOrder[i] = c.Username
				}
			}
		}
	} else {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		s.st.userOrder = append(s.st.userOrder, c.Username)
	}
	s.st.users[c.Username] = c
	s.st.initialized = true
	u.ID = c.ID
	return nil
}

// findUser returns the username key of the stored user matching u by
// username, or by id when the username is unknown.
func (s *MemoryStore) findUser(u *models.User) (string, bool) {
	if _, ok := s.st.users[u.Username]; ok {
		return u.Username, true
	}
	if u.ID == "" {
		return "", false
	}
	for name, existing := range s.st.users {
		if existing.ID == u.ID {
			return name, true
		}
	}
	return "", false
}

func (s *MemoryStore) Atomic(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(ctx, &MemoryStore{mu: s.mu, st: work, inTx: true}); err != nil {
		return err
	}
	s.st = work
	return nil
}
