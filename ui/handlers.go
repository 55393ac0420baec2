package ui

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"godiag/adapters/excel"
	"godiag/app"
	"godiag/domain/core"
	"godiag/domain/costs"
	"godiag/domain/diagnostics"
	apperrors "godiag/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// handleIndex renders the submission form with recent experiments
func (s *Server) handleIndex(c *gin.Context) {
	experiments, err := s.experiments.List(c.Request.Context(), 20)
	if err != nil {
		s.logger.Error("failed to list experiments: %v", err)
		experiments = nil
	}

	c.HTML(http.StatusOK, "index", gin.H{
		"Experiments": experiments,
		"Techniques":  s.catalog.Techniques(),
	})
}

// handleSubmitExperiment accepts a JSON or form submission and returns the
// computed statistics
func (s *Server) handleSubmitExperiment(c *gin.Context) {
	var req app.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, err.Error()))
		return
	}

	experiment, err := s.experiments.Submit(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, experiment)
}

func (s *Server) handleListExperiments(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	experiments, err := s.experiments.List(c.Request.Context(), limit)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"experiments": experiments})
}

func (s *Server) handleGetExperiment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, "invalid experiment id"))
		return
	}

	experiment, err := s.experiments.Get(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, experiment)
}

func (s *Server) handleDeleteExperiment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, "invalid experiment id"))
		return
	}

	if err := s.experiments.Delete(c.Request.Context(), id); err != nil {
		s.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleExportExperiment streams an Excel workbook for one experiment
func (s *Server) handleExportExperiment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, "invalid experiment id"))
		return
	}

	experiment, err := s.experiments.Get(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}

	// The costs sheet is best-effort: experiments for techniques outside the
	// catalog still export their statistics
	var breakdown *costs.CostBreakdown
	if b, err := s.analyzer.Breakdown(experiment.Technique, experiment.Counts.Total(), 1.0); err == nil {
		breakdown = &b
	}

	workbook, err := s.reports.ExperimentReport(experiment, breakdown)
	if err != nil {
		s.renderError(c, err)
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("experiment_%s.xlsx", experiment.Name)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		s.logger.Error("failed to stream workbook: %v", err)
	}
}

// handleBatchUpload ingests an uploaded Excel or CSV file of experiments.
// Bad rows are reported back without failing the good ones.
func (s *Server) handleBatchUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, "missing file upload"))
		return
	}

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("batch_%s%s", uuid.NewString(), filepath.Ext(file.Filename)))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		s.renderError(c, apperrors.FileProcessing("failed to store upload", err))
		return
	}
	defer os.Remove(tempPath)

	result, err := excel.NewBatchReader(tempPath).Read()
	if err != nil {
		s.renderError(c, apperrors.FileProcessing("failed to parse upload", err))
		return
	}

	submitted, err := s.experiments.SubmitBatch(c.Request.Context(), result.Experiments)
	if err != nil {
		s.renderError(c, err)
		return
	}

	rowErrors := make([]string, 0, len(result.RowErrors))
	for _, rowErr := range result.RowErrors {
		rowErrors = append(rowErrors, rowErr.Error())
	}

	c.JSON(http.StatusCreated, gin.H{
		"submitted":  submitted,
		"row_errors": rowErrors,
	})
}

// compareRequest carries inline experiments for an ad-hoc comparison
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

func (s *Server) handleCompare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, err.Error()))
		return
	}

	experiments := make([]diagnostics.Experiment, 0, len(req.Experiments))
	for _, item := range req.Experiments {
		technique, err := core.ParseTechniqueKey(item.Technique)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, err.Error()))
			return
		}
		counts, err := diagnostics.NewConfusionCounts(item.TruePositive, item.FalsePositive, item.TrueNegative, item.FalseNegative)
		if err != nil {
			s.renderError(c, err)
			return
		}
		confidence := item.ConfidenceLevel
		if confidence == 0 {
			confidence = 0.95
		}
		experiment, err := diagnostics.NewExperiment(item.Name, technique, counts, confidence)
		if err != nil {
			s.renderError(c, err)
			return
		}
		experiments = append(experiments, *experiment)
	}

	result, err := s.comparisons.Compare(c.Request.Context(), experiments)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// correctRequest carries a p-value set and correction method tag
type correctRequest struct {
	PValues []float64 `json:"p_values"`
	Method  string    `json:"method"`
}

func (s *Server) handleCorrect(c *gin.Context) {
	var req correctRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, err.Error()))
		return
	}

	method, err := diagnostics.ParseCorrectionMethod(req.Method)
	if err != nil {
		s.renderError(c, err)
		return
	}

	result, err := s.comparisons.CorrectPValues(req.PValues, method)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleCostComparison compares cost of ownership across techniques for a
// shared sample count and study duration
func (s *Server) handleCostComparison(c *gin.Context) {
	sampleCount := 1000
	if raw := c.Query("samples"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, "samples must be a positive integer"))
			return
		}
		sampleCount = parsed
	}

	studyYears := 1.0
	if raw := c.Query("years"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, "years must be positive"))
			return
		}
		studyYears = parsed
	}

	techniques := s.catalog.Techniques()
	comparisons := s.analyzer.Compare(techniques, sampleCount, studyYears)

	c.JSON(http.StatusOK, gin.H{
		"sample_count": sampleCount,
		"study_years":  studyYears,
		"techniques":   comparisons,
	})
}

func (s *Server) handleListTechniques(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"techniques": s.catalog.Techniques()})
}

func (s *Server) handleTechniqueProfile(c *gin.Context) {
	technique, err := core.ParseTechniqueKey(c.Param("technique"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, err.Error()))
		return
	}

	profile, err := s.catalog.Lookup(technique)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":     profile,
		"strengths":   s.catalog.Strengths(technique),
		"limitations": s.catalog.Limitations(technique),
	})
}

// renderError maps domain and application errors onto HTTP statuses
func (s *Server) renderError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)

	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeInvalidInput, apperrors.CodeEmptyInput,
		apperrors.CodeUnknownMethod, apperrors.CodeFileProcessing:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound, apperrors.CodeUnknownTechnique:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	c.JSON(status, errorBody(code, err.Error()))
}

func errorBody(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}
