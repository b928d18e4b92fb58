package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/visittracker/internal/dbx"
	"github.com/dmitrijs2005/visittracker/internal/server/repositories/objects"
	"github.com/dmitrijs2005/visittracker/internal/server/repositories/photos"
	"github.com/dmitrijs2005/visittracker/internal/server/repositories/users"
	"github.com/dmitrijs2005/visittracker/internal/server/repositories/visits"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Objects(db dbx.DBTX) objects.Repository
	Visits(db dbx.DBTX) visits.Repository
	Photos(db dbx.DBTX) photos.Repository
	Users(db dbx.DBTX) users.Repository
}
