package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/dbx"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT id, username, password, full_name, role, phone FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	var role string
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Password, &user.FullName, &role, &user.Phone)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.Role = models.Role(role)

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, username, password, full_name, role, phone FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	var role string
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.Password, &user.FullName, &role, &user.Phone)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.Role = models.Role(role)

	return user, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (id, username, password, full_name, role, phone)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Password, user.FullName, string(user.Role), user.Phone)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// UpdateByID rewrites every field of the user with the given id, username
// included.
func (r *PostgresRepository) UpdateByID(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET username = $2, password = $3, full_name = $4, role = $5, phone = $6
		 WHERE id = $1
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Password, user.FullName, string(user.Role), user.Phone)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, username, password, full_name, role, phone FROM users ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		var u models.User
		var role string
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.FullName, &role, &u.Phone); err != nil {
			return nil, err
		}
		u.Role = models.Role(role)
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
