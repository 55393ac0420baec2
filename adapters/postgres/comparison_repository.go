package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"godiag/domain/core"
	"godiag/models"
	"godiag/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// comparisonRepository implements the ComparisonRepository interface
type comparisonRepository struct {
	db *sqlx.DB
}

// NewComparisonRepository creates a new comparison study repository
func NewComparisonRepository(db *sqlx.DB) ports.ComparisonRepository {
	return &comparisonRepository{db: db}
}

const comparisonColumns = `
	id, name, COALESCE(description, '') as description,
	experiment_ids, kappa_results, created_at`

// Save inserts a comparison study record
func (r *comparisonRepository) Save(ctx context.Context, study *models.ComparisonStudyRecord) error {
	query := `INSERT INTO comparison_studies (
		id, name, description, experiment_ids, kappa_results, created_at
	) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		study.ID, study.Name, study.Description,
		study.ExperimentIDsJSON, study.KappaResultsJSON, study.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save comparison study: %w", err)
	}

	return nil
}

// Get retrieves a comparison study by its ID
func (r *comparisonRepository) Get(ctx context.Context, id uuid.UUID) (*models.ComparisonStudyRecord, error) {
	query := `SELECT` + comparisonColumns + ` FROM comparison_studies WHERE id = $1`

	var record models.ComparisonStudyRecord
	err := r.db.GetContext(ctx, &record, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("comparison study", id.String())
		}
		return nil, fmt.Errorf("failed to get comparison study: %w", err)
	}

	return &record, nil
}

// List retrieves the most recent comparison studies, newest first
func (r *comparisonRepository) List(ctx context.Context, limit int) ([]*models.ComparisonStudyRecord, error) {
	query := `SELECT` + comparisonColumns + ` FROM comparison_studies ORDER BY created_at DESC LIMIT $1`

	var records []*models.ComparisonStudyRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list comparison studies: %w", err)
	}

	return records, nil
}
