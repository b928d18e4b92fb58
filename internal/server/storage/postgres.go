package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/dbx"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
	"github.com/dmitrijs2005/visittracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/visittracker/internal/server/repositories/users"
)

// undefinedTable is the PostgreSQL error code for a missing relation.
const undefinedTable = "42P01"

// PostgresStore implements Store with repositories from a RepositoryManager.
type PostgresStore struct {
	db   *sql.DB
	conn dbx.DBTX
	rm   repomanager.RepositoryManager
	inTx bool
}

func NewPostgresStore(db *sql.DB, rm repomanager.RepositoryManager) *PostgresStore {
	return &PostgresStore{db: db, conn: db, rm: rm}
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTable
}

func (s *PostgresStore) FetchAll(ctx context.Context) (*models.Snapshot, error) {
	objects, err := s.rm.Objects(s.conn).List(ctx)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("fetch objects: %w", err)
	}
	visits, err := s.rm.Visits(s.conn).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch visits: %w", err)
	}
	photos, err := s.rm.Photos(s.conn).ListByVisit(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch photos: %w", err)
	}
	accounts, err := s.rm.Users(s.conn).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	return assemble(objects, visits, photos, accounts), nil
}

func (s *PostgresStore) UpsertObject(ctx context.Context, o *models.Object) error {
	repo := s.rm.Objects(s.conn)
	exists, err := repo.Exists(ctx, o.ID)
	if err != nil {
		return err
	}
	if exists {
		return repo.Update(ctx, o)
	}
	return repo.Insert(ctx, o)
}

func (s *PostgresStore) UpsertVisit(ctx context.Context, v *models.Visit) error {
	repo := s.rm.Visits(s.conn)
	existing, err := repo.Get(ctx, v.ID)
	if errors.Is(err, common.ErrorNotFound) {
		return repo.Insert(ctx, v)
	}
	if err != nil {
		return err
	}
	updated := models.ApplyVisitUpdate(*existing, *v)
	return repo.Update(ctx, &updated)
}

func (s *PostgresStore) InsertPhotoIfAbsent(ctx context.Context, visitID, url string) error {
	repo := s.rm.Photos(s.conn)
	exists, err := repo.Exists(ctx, visitID, url)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return repo.Insert(ctx, visitID, url)
}

func (s *PostgresStore) UpsertUser(ctx context.Context, u *models.User) error {
	repo := s.rm.Users(s.conn)
	existing, err := findUser(ctx, repo, u)
	if err != nil {
		return err
	}
	if existing == nil {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		return repo.Insert(ctx, u)
	}
	u.ID = existing.ID
	return repo.UpdateByID(ctx, u)
}

// findUser looks u up by username, then by id. A nil user with a nil error
// means neither matched.
func findUser(ctx context.Context, repo users.Repository, u *models.User) (*models.User, error) {
	existing, err := repo.GetByUsername(ctx, u.Username)
	if !errors.Is(err, common.ErrorNotFound) {
		return existing, err
	}
	if u.ID == "" {
		return nil, nil
	}
	existing, err = repo.GetByID(ctx, u.ID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return existing, err
}

// Atomic runs fn inside one transaction. Nested calls join the outer one.
func (s *PostgresStore) Atomic(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &PostgresStore{db: s.db, conn: tx, rm: s.rm, inTx: true})
	})
}
