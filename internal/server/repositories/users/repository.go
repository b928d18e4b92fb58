package users

import (
	"context"

	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	UpdateByID(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
}
