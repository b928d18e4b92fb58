package objects

import (
	"context"

	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

type Repository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, o *models.Object) error
	Update(ctx context.Context, o *models.Object) error
	List(ctx context.Context) ([]models.Object, error)
}
