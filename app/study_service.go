package app

import (
	"context"

	"godiag/domain/core"
	"godiag/domain/diagnostics"
	"godiag/models"
	"godiag/ports"

	"github.com/google/uuid"
)

// StudyService persists named comparison studies over stored experiments.
// It composes the experiment service (to rebuild domain experiments from
// records) with the comparison engine and a study repository.
type StudyService struct {
	experiments *ExperimentService
	comparisons *ComparisonService
	studies     ports.ComparisonRepository
}

// NewStudyService creates a study service
func NewStudyService(
	experiments *ExperimentService,
	comparisons *ComparisonService,
	studies ports.ComparisonRepository,
) *StudyService {
	return &StudyService{
		experiments: experiments,
		comparisons: comparisons,
		studies:     studies,
	}
}

// Study couples a persisted study record with its computed comparison
type Study struct {
	Record     *models.ComparisonStudyRecord `json:"record"`
	Comparison *ComparisonResult             `json:"comparison,omitempty"`
}

// CreateStudy loads the member experiments, runs the comparison, and stores
// the study with its pairwise kappa table.
func (s *StudyService) CreateStudy(ctx context.Context, name, description string, experimentIDs []uuid.UUID) (*Study, error) {
	if name == "" {
		return nil, core.NewValidationError("name", "cannot be empty")
	}

	experiments := make([]diagnostics.Experiment, 0, len(experimentIDs))
	for _, id := range experimentIDs {
		experiment, err := s.experiments.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, *experiment)
	}

	result, err := s.comparisons.Compare(ctx, experiments)
	if err != nil {
		return nil, err
	}

	record := &models.ComparisonStudyRecord{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   result.CreatedAt.Time(),
	}
	if err := record.SetExperimentIDs(experimentIDs); err != nil {
		return nil, err
	}
	if err := record.SetKappaResults(result.KappaResults); err != nil {
		return nil, err
	}

	if err := s.studies.Save(ctx, record); err != nil {
		return nil, err
	}

	return &Study{Record: record, Comparison: result}, nil
}

// GetStudy loads a stored study
func (s *StudyService) GetStudy(ctx context.Context, id uuid.UUID) (*Study, error) {
	record, err := s.studies.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Study{Record: record}, nil
}

// ListStudies loads the most recent studies
func (s *StudyService) ListStudies(ctx context.Context, limit int) ([]*models.ComparisonStudyRecord, error) {
	return s.studies.List(ctx, limit)
}
