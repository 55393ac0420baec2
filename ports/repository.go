package ports

import (
	"context"

	"godiag/models"

	"github.com/google/uuid"
)

// ExperimentRepository persists summarized experiments
type ExperimentRepository interface {
	Save(ctx context.Context, experiment *models.ExperimentRecord) error
	Get(ctx context.Context, id uuid.UUID) (*models.ExperimentRecord, error)
	List(ctx context.Context, limit int) ([]*models.ExperimentRecord, error)
	ListByTechnique(ctx context.Context, technique string) ([]*models.ExperimentRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ComparisonRepository persists multi-technique comparison studies
type ComparisonRepository interface {
	Save(ctx context.Context, study *models.ComparisonStudyRecord) error
	Get(ctx context.Context, id uuid.UUID) (*models.ComparisonStudyRecord, error)
	List(ctx context.Context, limit int) ([]*models.ComparisonStudyRecord, error)
}
