package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	costsadapter "godiag/adapters/costs"
	"godiag/adapters/stats/agreement"
	"godiag/adapters/stats/correction"
	"godiag/adapters/stats/engine"
	"godiag/app"
	"godiag/domain/core"
	"godiag/domain/diagnostics"
	"godiag/internal"
	"godiag/internal/config"
	apperrors "godiag/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// server wires the compute adapters behind a chi router
type server struct {
	calculator  *engine.Calculator
	estimator   *agreement.Estimator
	corrector   *correction.Corrector
	analyzer    *costsadapter.Analyzer
	catalog     *costsadapter.Catalog
	comparisons *app.ComparisonService
	logger      *internal.Logger
}

func newServer(cfg *config.Config, logger *internal.Logger) (*server, error) {
	catalog := costsadapter.NewDefaultCatalog()
	if cfg.CostTableFile != "" {
		loaded, err := costsadapter.LoadCatalogFile(cfg.CostTableFile)
		if err != nil {
			return nil, err
		}
		catalog = loaded
	}

	calculator := engine.NewCalculator()
	estimator := agreement.NewEstimator()
	corrector := correction.NewCorrector()
	analyzer := costsadapter.NewAnalyzer(catalog)

	return &server{
		calculator:  calculator,
		estimator:   estimator,
		corrector:   corrector,
		analyzer:    analyzer,
		catalog:     catalog,
		comparisons: app.NewComparisonService(calculator, estimator, corrector, analyzer),
		logger:      logger,
	}, nil
}

// Routes builds the router with standard middleware
func (s *server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/statistics", s.handleStatistics)
		r.Post("/kappa", s.handleKappa)
		r.Post("/compare", s.handleCompare)
		r.Post("/correct", s.handleCorrect)
		r.Get("/costs", s.handleCosts)
		r.Get("/techniques", s.handleTechniques)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statisticsRequest is one confusion matrix with an optional confidence level
type statisticsRequest struct {
	TruePositive    int     `json:"tp"`
	FalsePositive   int     `json:"fp"`
	TrueNegative    int     `json:"tn"`
	FalseNegative   int     `json:"fn"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

func (s *server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	var req statisticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.InvalidInput("malformed request body"))
		return
	}

	counts, err := diagnostics.NewConfusionCounts(req.TruePositive, req.FalsePositive, req.TrueNegative, req.FalseNegative)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	stats, err := s.calculator.Compute(counts, req.ConfidenceLevel)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// kappaRequest carries two paired rating sequences
type kappaRequest struct {
	RaterA          []int   `json:"rater_a"`
	RaterB          []int   `json:"rater_b"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

func (s *server) handleKappa(w http.ResponseWriter, r *http.Request) {
	var req kappaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.InvalidInput("malformed request body"))
		return
	}

	confidence := req.ConfidenceLevel
	if confidence == 0 {
		confidence = 0.95
	}

	result, err := s.estimator.Kappa(req.RaterA, req.RaterB, confidence)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// compareRequest carries inline experiments for a multi-technique comparison
type compareRequest struct {
	Experiments []struct {
		Name            string  `json:"name"`
		Technique       string  `json:"technique"`
		TruePositive    int     `json:"tp"`
		FalsePositive   int     `json:"fp"`
		TrueNegative    int     `json:"tn"`
		FalseNegative   int     `json:"fn"`
		ConfidenceLevel float64 `json:"confidence_level"`
	} `json:"experiments"`
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.InvalidInput("malformed request body"))
		return
	}

	experiments := make([]diagnostics.Experiment, 0, len(req.Experiments))
	for _, item := range req.Experiments {
		technique, err := core.ParseTechniqueKey(item.Technique)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, apperrors.InvalidInput(err.Error()))
			return
		}
		counts, err := diagnostics.NewConfusionCounts(item.TruePositive, item.FalsePositive, item.TrueNegative, item.FalseNegative)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		confidence := item.ConfidenceLevel
		if confidence == 0 {
			confidence = 0.95
		}
		experiment, err := diagnostics.NewExperiment(item.Name, technique, counts, confidence)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		experiments = append(experiments, *experiment)
	}

	result, err := s.comparisons.Compare(r.Context(), experiments)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// correctRequest carries a p-value set and correction method tag
type correctRequest struct {
	PValues []float64 `json:"p_values"`
	Method  string    `json:"method"`
}

func (s *server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req correctRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.InvalidInput("malformed request body"))
		return
	}

	method, err := diagnostics.ParseCorrectionMethod(req.Method)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	result, err := s.corrector.Correct(req.PValues, method)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleCosts(w http.ResponseWriter, r *http.Request) {
	sampleCount := 1000
	if raw := r.URL.Query().Get("samples"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, apperrors.InvalidInput("samples must be a positive integer"))
			return
		}
		sampleCount = parsed
	}

	studyYears := 1.0
	if raw := r.URL.Query().Get("years"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, apperrors.InvalidInput("years must be positive"))
			return
		}
		studyYears = parsed
	}

	comparisons := s.analyzer.Compare(s.catalog.Techniques(), sampleCount, studyYears)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sample_count": sampleCount,
		"study_years":  studyYears,
		"techniques":   comparisons,
	})
}

func (s *server) handleTechniques(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"techniques": s.catalog.Techniques()})
}

func (s *server) writeDomainError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)

	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeInvalidInput, apperrors.CodeEmptyInput, apperrors.CodeUnknownMethod:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound, apperrors.CodeUnknownTechnique:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{"code": code, "message": err.Error()},
	})
}

func (s *server) writeError(w http.ResponseWriter, status int, err *apperrors.AppError) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{"code": err.Code, "message": err.Message},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
