package objects

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var columns = []string{
	"id", "name", "address", "description", "contact_name",
	"contact_phone", "object_type", "object_photo", "is_archived",
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+objects\s+WHERE\s+id\s*=\s*\$1\)$`
	mock.ExpectQuery(q).WithArgs("o1").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "o1")
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !ok {
		t.Fatalf("want true")
	}
}

func TestExists_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("o1").WillReturnError(errors.New("db down"))

	_, err := repo.Exists(context.Background(), "o1")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestInsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO objects \(id, name, address, .*is_archived\)`).
		WithArgs("o1", "Depot", "Main st", "desc", nil, nil, nil, "http://s/obj_o1.jpg", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), &models.Object{
		ID:          "o1",
		Name:        "Depot",
		Address:     "Main st",
		Description: models.StringPtr("desc"),
		ObjectPhoto: models.StringPtr("http://s/obj_o1.jpg"),
	})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE objects SET.*is_archived = \$9\s+WHERE id = \$1`).
		WithArgs("o1", "Depot", "", nil, "Ivan", nil, nil, nil, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Object{
		ID:          "o1",
		Name:        "Depot",
		ContactName: models.StringPtr("Ivan"),
		Deleted:     true,
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE objects`).WillReturnError(errors.New("boom"))

	err := repo.Update(context.Background(), &models.Object{ID: "o1"})
	if err == nil || !regexp.MustCompile(`db error: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow("o1", "Depot", "Main st", "desc", nil, nil, "warehouse", nil, false).
		AddRow("o2", "Old", "", nil, nil, nil, nil, nil, true)
	mock.ExpectQuery(`(?s)SELECT id, name, .* FROM objects ORDER BY created_at, id`).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 objects, got %d", len(got))
	}
	if got[0].Description == nil || *got[0].Description != "desc" {
		t.Fatalf("unexpected description: %v", got[0].Description)
	}
	if got[0].ContactName != nil {
		t.Fatalf("want nil contact name, got %v", *got[0].ContactName)
	}
	if got[0].ObjectType == nil || *got[0].ObjectType != "warehouse" {
		t.Fatalf("unexpected object type: %v", got[0].ObjectType)
	}
	if !got[1].Deleted {
		t.Fatalf("want o2 archived")
	}
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM objects`).WillReturnError(errors.New("nope"))

	_, err := repo.List(context.Background())
	if err == nil || !regexp.MustCompile(`failed to select objects: .*nope`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
