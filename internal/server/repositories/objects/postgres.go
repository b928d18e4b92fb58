// Package objects provides PostgreSQL-backed storage for object rows.
// Visits are stored separately; List returns objects without them.
package objects

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/visittracker/internal/dbx"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

// PostgresRepository implements object storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM objects WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, o *models.Object) error {
	query := `
		INSERT INTO objects (id, name, address, description, contact_name, contact_phone, object_type, object_photo, is_archived)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.Name, o.Address, o.Description, o.ContactName, o.ContactPhone, o.ObjectType, o.ObjectPhoto, o.Deleted)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update rewrites every column of an existing object.
func (r *PostgresRepository) Update(ctx context.Context, o *models.Object) error {
	query := `
		UPDATE objects SET
			name = $2, address = $3, description = $4, contact_name = $5,
			contact_phone = $6, object_type = $7, object_photo = $8, is_archived = $9
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.Name, o.Address, o.Description, o.ContactName, o.ContactPhone, o.ObjectType, o.ObjectPhoto, o.Deleted)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns all objects, archived ones included, in creation order.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Object, error) {
	query := `
		SELECT id, name, address, description, contact_name, contact_phone, object_type, object_photo, is_archived
		FROM objects ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select objects: %w", err)
	}
	defer rows.Close()

	var result []models.Object
	for rows.Next() {
		var o models.Object
		if err := rows.Scan(
			&o.ID, &o.Name, &o.Address, &o.Description, &o.ContactName,
			&o.ContactPhone, &o.ObjectType, &o.ObjectPhoto, &o.Deleted,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
