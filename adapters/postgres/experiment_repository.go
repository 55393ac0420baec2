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

// experimentRepository implements the ExperimentRepository interface
type experimentRepository struct {
	db *sqlx.DB
}

// NewExperimentRepository creates a new experiment repository
func NewExperimentRepository(db *sqlx.DB) ports.ExperimentRepository {
	return &experimentRepository{db: db}
}

const experimentColumns = `
	id, name, COALESCE(description, '') as description, technique,
	true_positive, false_positive, true_negative, false_negative,
	confidence_level, COALESCE(reagent_cost, 0) as reagent_cost,
	COALESCE(equipment_cost, 0) as equipment_cost, COALESCE(total_cost, 0) as total_cost,
	statistics, created_at`

// Save inserts or replaces an experiment record
func (r *experimentRepository) Save(ctx context.Context, experiment *models.ExperimentRecord) error {
	query := `INSERT INTO experiments (
		id, name, description, technique,
		true_positive, false_positive, true_negative, false_negative,
		confidence_level, reagent_cost, equipment_cost, total_cost,
		statistics, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
	)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		technique = EXCLUDED.technique,
		true_positive = EXCLUDED.true_positive,
		false_positive = EXCLUDED.false_positive,
		true_negative = EXCLUDED.true_negative,
		false_negative = EXCLUDED.false_negative,
		confidence_level = EXCLUDED.confidence_level,
		reagent_cost = EXCLUDED.reagent_cost,
		equipment_cost = EXCLUDED.equipment_cost,
		total_cost = EXCLUDED.total_cost,
		statistics = EXCLUDED.statistics`

	_, err := r.db.ExecContext(ctx, query,
		experiment.ID, experiment.Name, experiment.Description, experiment.Technique,
		experiment.TruePositive, experiment.FalsePositive, experiment.TrueNegative, experiment.FalseNegative,
		experiment.ConfidenceLevel, experiment.ReagentCost, experiment.EquipmentCost, experiment.TotalCost,
		experiment.StatisticsJSON, experiment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save experiment: %w", err)
	}

	return nil
}

// Get retrieves an experiment by its ID
func (r *experimentRepository) Get(ctx context.Context, id uuid.UUID) (*models.ExperimentRecord, error) {
	query := `SELECT` + experimentColumns + ` FROM experiments WHERE id = $1`

	var record models.ExperimentRecord
	err := r.db.GetContext(ctx, &record, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("experiment", id.String())
		}
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	return &record, nil
}

// List retrieves the most recent experiments, newest first
func (r *experimentRepository) List(ctx context.Context, limit int) ([]*models.ExperimentRecord, error) {
	query := `SELECT` + experimentColumns + ` FROM experiments ORDER BY created_at DESC LIMIT $1`

	var records []*models.ExperimentRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}

	return records, nil
}

// ListByTechnique retrieves experiments for a technique, newest first
func (r *experimentRepository) ListByTechnique(ctx context.Context, technique string) ([]*models.ExperimentRecord, error) {
	query := `SELECT` + experimentColumns + ` FROM experiments WHERE technique = $1 ORDER BY created_at DESC`

	var records []*models.ExperimentRecord
	if err := r.db.SelectContext(ctx, &records, query, technique); err != nil {
		return nil, fmt.Errorf("failed to list experiments by technique: %w", err)
	}

	return records, nil
}

// Delete removes an experiment
func (r *experimentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM experiments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete experiment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return core.NewNotFoundError("experiment", id.String())
	}

	return nil
}
