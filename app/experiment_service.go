package app

import (
	"context"

	"godiag/domain/core"
	"godiag/domain/diagnostics"
	"godiag/models"
	"godiag/ports"

	"github.com/google/uuid"
)

// ExperimentService owns the experiment lifecycle: validate, compute
// statistics, and persist when a repository is configured. The service works
// without persistence, so the engine stays usable as a pure calculator.
type ExperimentService struct {
	calculator        ports.DiagnosticsCalculator
	analyzer          ports.CostAnalyzer
	repository        ports.ExperimentRepository // nil when persistence is disabled
	defaultConfidence float64
}

// NewExperimentService creates an experiment service. Pass a nil repository
// to run without persistence. defaultConfidence applies when a submission
// omits a confidence level; 0 falls back to 0.95.
func NewExperimentService(
	calculator ports.DiagnosticsCalculator,
	analyzer ports.CostAnalyzer,
	repository ports.ExperimentRepository,
	defaultConfidence float64,
) *ExperimentService {
	if defaultConfidence == 0 {
		defaultConfidence = 0.95
	}
	return &ExperimentService{
		calculator:        calculator,
		analyzer:          analyzer,
		repository:        repository,
		defaultConfidence: defaultConfidence,
	}
}

// SubmitRequest carries one experiment submission
type SubmitRequest struct {
	Name            string  `json:"name" form:"name"`
	Description     string  `json:"description" form:"description"`
	Technique       string  `json:"technique" form:"technique"`
	TruePositive    int     `json:"tp" form:"tp"`
	FalsePositive   int     `json:"fp" form:"fp"`
	TrueNegative    int     `json:"tn" form:"tn"`
	FalseNegative   int     `json:"fn" form:"fn"`
	ConfidenceLevel float64 `json:"confidence_level" form:"confidence_level"`
}

// Submit validates a submission, computes its statistics, and persists the
// result when a repository is configured.
func (s *ExperimentService) Submit(ctx context.Context, req SubmitRequest) (*diagnostics.Experiment, error) {
	technique, err := core.ParseTechniqueKey(req.Technique)
	if err != nil {
		return nil, core.NewValidationError("technique", err.Error())
	}

	counts, err := diagnostics.NewConfusionCounts(req.TruePositive, req.FalsePositive, req.TrueNegative, req.FalseNegative)
	if err != nil {
		return nil, err
	}

	confidence := req.ConfidenceLevel
	if confidence == 0 {
		confidence = s.defaultConfidence
	}

	experiment, err := diagnostics.NewExperiment(req.Name, technique, counts, confidence)
	if err != nil {
		return nil, err
	}
	experiment.Description = req.Description

	stats, err := s.calculator.Compute(counts, confidence)
	if err != nil {
		return nil, err
	}
	experiment.Statistics = stats

	if s.repository != nil {
		record, err := s.toRecord(experiment)
		if err != nil {
			return nil, err
		}
		if err := s.repository.Save(ctx, record); err != nil {
			return nil, err
		}
	}

	return experiment, nil
}

// SubmitBatch submits pre-validated experiments, computing statistics for
// each. Used by the batch upload path where rows were already parsed.
func (s *ExperimentService) SubmitBatch(ctx context.Context, experiments []diagnostics.Experiment) ([]*diagnostics.Experiment, error) {
	submitted := make([]*diagnostics.Experiment, 0, len(experiments))
	for i := range experiments {
		exp := experiments[i]

		stats, err := s.calculator.Compute(exp.Counts, exp.ConfidenceLevel)
		if err != nil {
			return nil, err
		}
		exp.Statistics = stats

		if s.repository != nil {
			record, err := s.toRecord(&exp)
			if err != nil {
				return nil, err
			}
			if err := s.repository.Save(ctx, record); err != nil {
				return nil, err
			}
		}
		submitted = append(submitted, &exp)
	}
	return submitted, nil
}

// Get loads a persisted experiment
func (s *ExperimentService) Get(ctx context.Context, id uuid.UUID) (*diagnostics.Experiment, error) {
	if s.repository == nil {
		return nil, core.ErrExperimentNotFound
	}
	record, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fromRecord(record)
}

// List loads the most recent persisted experiments
func (s *ExperimentService) List(ctx context.Context, limit int) ([]*diagnostics.Experiment, error) {
	if s.repository == nil {
		return nil, nil
	}
	records, err := s.repository.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	experiments := make([]*diagnostics.Experiment, 0, len(records))
	for _, record := range records {
		exp, err := s.fromRecord(record)
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, exp)
	}
	return experiments, nil
}

// Delete removes a persisted experiment
func (s *ExperimentService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.repository == nil {
		return core.ErrExperimentNotFound
	}
	return s.repository.Delete(ctx, id)
}

// toRecord maps a domain experiment onto its persistence model, folding in
// catalog cost figures when the technique is known.
func (s *ExperimentService) toRecord(exp *diagnostics.Experiment) (*models.ExperimentRecord, error) {
	id, err := uuid.Parse(exp.ID.String())
	if err != nil {
		return nil, core.NewValidationError("id", "not a valid UUID")
	}

	record := &models.ExperimentRecord{
		ID:              id,
		Name:            exp.Name,
		Description:     exp.Description,
		Technique:       exp.Technique.String(),
		TruePositive:    exp.Counts.TP,
		FalsePositive:   exp.Counts.FP,
		TrueNegative:    exp.Counts.TN,
		FalseNegative:   exp.Counts.FN,
		ConfidenceLevel: exp.ConfidenceLevel,
		CreatedAt:       exp.CreatedAt.Time(),
	}

	if err := record.SetStatistics(exp.Statistics); err != nil {
		return nil, err
	}

	if s.analyzer != nil {
		if breakdown, err := s.analyzer.Breakdown(exp.Technique, exp.Counts.Total(), 1.0); err == nil {
			record.ReagentCost = breakdown.Reagents
			record.EquipmentCost = breakdown.Equipment
			record.TotalCost = breakdown.Total()
		}
	}

	return record, nil
}

// fromRecord rebuilds a domain experiment from its persistence model
func (s *ExperimentService) fromRecord(record *models.ExperimentRecord) (*diagnostics.Experiment, error) {
	counts, err := record.Counts()
	if err != nil {
		return nil, err
	}
	stats, err := record.Statistics()
	if err != nil {
		return nil, err
	}

	return &diagnostics.Experiment{
		ID:              core.ExperimentID(record.ID.String()),
		Name:            record.Name,
		Description:     record.Description,
		Technique:       core.TechniqueKey(record.Technique),
		Counts:          counts,
		ConfidenceLevel: record.ConfidenceLevel,
		Statistics:      stats,
		CreatedAt:       core.NewTimestamp(record.CreatedAt),
	}, nil
}
