// Package visits provides PostgreSQL-backed storage for visit rows.
// Photos live in their own table and are not loaded here.
package visits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/dbx"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

const selectColumns = `id, object_id, visit_date, visit_type, comment, created_by, created_by_role, created_at,
	is_locked, task_description, task_completed, task_completed_by, task_completed_at, task_recipient, is_archived`

// PostgresRepository implements visit storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVisit(s scanner) (*models.Visit, error) {
	var v models.Visit
	var visitType string
	err := s.Scan(
		&v.ID, &v.ObjectID, &v.VisitDate, &visitType, &v.Comment, &v.CreatedBy, &v.CreatedByRole, &v.CreatedAt,
		&v.IsLocked, &v.TaskDescription, &v.TaskCompleted, &v.TaskCompletedBy, &v.TaskCompletedAt, &v.TaskRecipient,
		&v.Deleted,
	)
	if err != nil {
		return nil, err
	}
	v.VisitType = models.VisitType(visitType)
	return &v, nil
}

// Get returns the visit with the given id or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Visit, error) {
	query := `SELECT ` + selectColumns + ` FROM visits WHERE id = $1`

	v, err := scanVisit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, v *models.Visit) error {
	query := `
		INSERT INTO visits (id, object_id, visit_date, visit_type, comment, created_by, created_by_role, created_at,
			is_locked, task_description, task_completed, task_completed_by, task_completed_at, task_recipient, is_archived)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.ObjectID, v.VisitDate, string(v.VisitType), v.Comment, v.Author(), v.CreatedByRole, v.CreatedAt,
		v.IsLocked, v.TaskDescription, v.TaskCompleted, v.TaskCompletedBy, v.TaskCompletedAt, v.TaskRecipient, v.Deleted)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update writes v as is. Callers apply the lock rule before calling it.
func (r *PostgresRepository) Update(ctx context.Context, v *models.Visit) error {
	query := `
		UPDATE visits SET
			visit_date = $2, visit_type = $3, comment = $4, created_by = $5, created_by_role = $6,
			created_at = $7, is_locked = $8, task_description = $9, task_completed = $10,
			task_completed_by = $11, task_completed_at = $12, task_recipient = $13, is_archived = $14
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.VisitDate, string(v.VisitType), v.Comment, v.Author(), v.CreatedByRole,
		v.CreatedAt, v.IsLocked, v.TaskDescription, v.TaskCompleted,
		v.TaskCompletedBy, v.TaskCompletedAt, v.TaskRecipient, v.Deleted)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns every visit ordered by created_at.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Visit, error) {
	query := `SELECT ` + selectColumns + ` FROM visits ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select visits: %w", err)
	}
	defer rows.Close()

	var result []models.Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
