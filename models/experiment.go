package models

import (
	"encoding/json"
	"time"

	"godiag/domain/diagnostics"

	"github.com/google/uuid"
)

// ExperimentRecord is the persistence model for a summarized experiment.
// Statistics are stored as a JSONB payload so the schema does not chase the
// engine's output record.
type ExperimentRecord struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description,omitempty"`
	Technique       string    `db:"technique" json:"technique"`
	TruePositive    int       `db:"true_positive" json:"true_positive"`
	FalsePositive   int       `db:"false_positive" json:"false_positive"`
	TrueNegative    int       `db:"true_negative" json:"true_negative"`
	FalseNegative   int       `db:"false_negative" json:"false_negative"`
	ConfidenceLevel float64   `db:"confidence_level" json:"confidence_level"`
	ReagentCost     float64   `db:"reagent_cost" json:"reagent_cost"`
	EquipmentCost   float64   `db:"equipment_cost" json:"equipment_cost"`
	TotalCost       float64   `db:"total_cost" json:"total_cost"`
	StatisticsJSON  []byte    `db:"statistics" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// SetStatistics serializes the engine output into the record
func (r *ExperimentRecord) SetStatistics(stats *diagnostics.DiagnosticStatistics) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	r.StatisticsJSON = payload
	return nil
}

// Statistics deserializes the stored engine output, nil when absent
func (r *ExperimentRecord) Statistics() (*diagnostics.DiagnosticStatistics, error) {
	if len(r.StatisticsJSON) == 0 {
		return nil, nil
	}
	var stats diagnostics.DiagnosticStatistics
	if err := json.Unmarshal(r.StatisticsJSON, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Counts rebuilds the domain confusion counts from the record
func (r *ExperimentRecord) Counts() (diagnostics.ConfusionCounts, error) {
	return diagnostics.NewConfusionCounts(r.TruePositive, r.FalsePositive, r.TrueNegative, r.FalseNegative)
}

// ComparisonStudyRecord is the persistence model for a multi-technique
// comparison: the member experiment IDs plus the pairwise kappa table.
type ComparisonStudyRecord struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Description       string    `db:"description" json:"description,omitempty"`
	ExperimentIDsJSON []byte    `db:"experiment_ids" json:"-"`
	KappaResultsJSON  []byte    `db:"kappa_results" json:"-"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// SetExperimentIDs serializes the member experiment IDs
func (r *ComparisonStudyRecord) SetExperimentIDs(ids []uuid.UUID) error {
	payload, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	r.ExperimentIDsJSON = payload
	return nil
}

// ExperimentIDs deserializes the member experiment IDs
func (r *ComparisonStudyRecord) ExperimentIDs() ([]uuid.UUID, error) {
	if len(r.ExperimentIDsJSON) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(r.ExperimentIDsJSON, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SetKappaResults serializes the pairwise kappa table
func (r *ComparisonStudyRecord) SetKappaResults(results map[string]*diagnostics.KappaResult) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return err
	}
	r.KappaResultsJSON = payload
	return nil
}

// KappaResults deserializes the pairwise kappa table
func (r *ComparisonStudyRecord) KappaResults() (map[string]*diagnostics.KappaResult, error) {
	if len(r.KappaResultsJSON) == 0 {
		return nil, nil
	}
	var results map[string]*diagnostics.KappaResult
	if err := json.Unmarshal(r.KappaResultsJSON, &results); err != nil {
		return nil, err
	}
	return results, nil
}
