package app

import (
	"context"
	"errors"
	"testing"

	costsadapter "godiag/adapters/costs"
	"godiag/adapters/stats/agreement"
	"godiag/adapters/stats/correction"
	"godiag/adapters/stats/engine"
	"godiag/domain/core"
	"godiag/models"

	"github.com/google/uuid"
)

type memoryExperimentRepo struct {
	records map[uuid.UUID]*models.ExperimentRecord
}

func newMemoryExperimentRepo() *memoryExperimentRepo {
	return &memoryExperimentRepo{records: make(map[uuid.UUID]*models.ExperimentRecord)}
}

func (r *memoryExperimentRepo) Save(_ context.Context, record *models.ExperimentRecord) error {
	r.records[record.ID] = record
	return nil
}

func (r *memoryExperimentRepo) Get(_ context.Context, id uuid.UUID) (*models.ExperimentRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, core.ErrExperimentNotFound
	}
	return record, nil
}

func (r *memoryExperimentRepo) List(_ context.Context, limit int) ([]*models.ExperimentRecord, error) {
	out := make([]*models.ExperimentRecord, 0, len(r.records))
	for _, record := range r.records {
		if len(out) == limit {
			break
		}
		out = append(out, record)
	}
	return out, nil
}

func (r *memoryExperimentRepo) ListByTechnique(_ context.Context, technique string) ([]*models.ExperimentRecord, error) {
	var out []*models.ExperimentRecord
	for _, record := range r.records {
		if record.Technique == technique {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *memoryExperimentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.records, id)
	return nil
}

type memoryComparisonRepo struct {
	records map[uuid.UUID]*models.ComparisonStudyRecord
}

func newMemoryComparisonRepo() *memoryComparisonRepo {
	return &memoryComparisonRepo{records: make(map[uuid.UUID]*models.ComparisonStudyRecord)}
}

func (r *memoryComparisonRepo) Save(_ context.Context, study *models.ComparisonStudyRecord) error {
	r.records[study.ID] = study
	return nil
}

func (r *memoryComparisonRepo) Get(_ context.Context, id uuid.UUID) (*models.ComparisonStudyRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, core.ErrComparisonNotFound
	}
	return record, nil
}

func (r *memoryComparisonRepo) List(_ context.Context, limit int) ([]*models.ComparisonStudyRecord, error) {
	out := make([]*models.ComparisonStudyRecord, 0, len(r.records))
	for _, record := range r.records {
		if len(out) == limit {
			break
		}
		out = append(out, record)
	}
	return out, nil
}

func newTestStudyService(t *testing.T) (*StudyService, *ExperimentService) {
	t.Helper()

	catalog := costsadapter.NewDefaultCatalog()
	calculator := engine.NewCalculator()
	analyzer := costsadapter.NewAnalyzer(catalog)

	experiments := NewExperimentService(calculator, analyzer, newMemoryExperimentRepo(), 0.95)
	comparisons := NewComparisonService(calculator, agreement.NewEstimator(), correction.NewCorrector(), analyzer)
	return NewStudyService(experiments, comparisons, newMemoryComparisonRepo()), experiments
}

func TestCreateStudy_PersistsKappaTable(t *testing.T) {
	service, experiments := newTestStudyService(t)
	ctx := context.Background()

	ids := make([]uuid.UUID, 0, 2)
	for _, req := range []SubmitRequest{
		{Name: "A", Technique: "PCR", TruePositive: 85, FalsePositive: 3, TrueNegative: 92, FalseNegative: 5},
		{Name: "B", Technique: "LAMP", TruePositive: 80, FalsePositive: 8, TrueNegative: 87, FalseNegative: 10},
	} {
		exp, err := experiments.Submit(ctx, req)
		if err != nil {
			t.Fatalf("submit %s: %v", req.Name, err)
		}
		id, err := uuid.Parse(exp.ID.String())
		if err != nil {
			t.Fatalf("parse id: %v", err)
		}
		ids = append(ids, id)
	}

	study, err := service.CreateStudy(ctx, "Pilot", "first pass", ids)
	if err != nil {
		t.Fatalf("create study: %v", err)
	}
	if study.Comparison == nil {
		t.Fatal("expected comparison result on created study")
	}
	if _, ok := study.Comparison.KappaResults["A vs B"]; !ok {
		t.Errorf("missing pair key, got %v", study.Comparison.KappaResults)
	}

	loaded, err := service.GetStudy(ctx, study.Record.ID)
	if err != nil {
		t.Fatalf("get study: %v", err)
	}
	kappas, err := loaded.Record.KappaResults()
	if err != nil {
		t.Fatalf("decode kappas: %v", err)
	}
	if _, ok := kappas["A vs B"]; !ok {
		t.Errorf("stored study missing pair key, got %v", kappas)
	}

	memberIDs, err := loaded.Record.ExperimentIDs()
	if err != nil {
		t.Fatalf("decode member ids: %v", err)
	}
	if len(memberIDs) != 2 {
		t.Errorf("member ids = %d, want 2", len(memberIDs))
	}
}

func TestCreateStudy_RequiresName(t *testing.T) {
	service, _ := newTestStudyService(t)

	_, err := service.CreateStudy(context.Background(), "", "", nil)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}
}

func TestCreateStudy_UnknownExperiment(t *testing.T) {
	service, _ := newTestStudyService(t)

	_, err := service.CreateStudy(context.Background(), "Pilot", "", []uuid.UUID{uuid.New(), uuid.New()})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGetStudy_NotFound(t *testing.T) {
	service, _ := newTestStudyService(t)

	_, err := service.GetStudy(context.Background(), uuid.New())
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
