package visits

import (
	"context"

	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, id string) (*models.Visit, error)
	Insert(ctx context.Context, v *models.Visit) error
	Update(ctx context.Context, v *models.Visit) error
	List(ctx context.Context) ([]models.Visit, error)
}
