// Package photos stores resolved media URLs attached to visits.
package photos

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/visittracker/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Exists(ctx context.Context, visitID, url string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM photos WHERE visit_id = $1 AND url = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, visitID, url).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, visitID, url string) error {
	query := `INSERT INTO photos (visit_id, url) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, visitID, url); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByVisit(ctx context.Context) (map[string][]string, error) {
	query := `SELECT visit_id, url FROM photos ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]string)
	for rows.Next() {
		var visitID, url string
		if err := rows.Scan(&visitID, &url); err != nil {
			return nil, err
		}
		result[visitID] = append(result[visitID], url)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
