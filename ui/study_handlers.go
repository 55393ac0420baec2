package ui

import (
	"fmt"
	"net/http"
	"strconv"

	"godiag/domain/core"
	apperrors "godiag/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// createStudyRequest names a comparison over persisted experiments
type createStudyRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ExperimentIDs []string `json:"experiment_ids"`
}

func (s *Server) handleCreateStudy(c *gin.Context) {
	if s.studies == nil {
		c.JSON(http.StatusNotFound, errorBody(apperrors.CodeNotFound, "persistence not configured"))
		return
	}

	var req createStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, err.Error()))
		return
	}

	ids := make([]uuid.UUID, 0, len(req.ExperimentIDs))
	for _, raw := range req.ExperimentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, fmt.Sprintf("invalid experiment id %q", raw)))
			return
		}
		ids = append(ids, id)
	}

	study, err := s.studies.CreateStudy(c.Request.Context(), req.Name, req.Description, ids)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, study)
}

func (s *Server) handleListStudies(c *gin.Context) {
	if s.studies == nil {
		c.JSON(http.StatusOK, gin.H{"studies": nil})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	studies, err := s.studies.ListStudies(c.Request.Context(), limit)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"studies": studies})
}

func (s *Server) handleGetStudy(c *gin.Context) {
	if s.studies == nil {
		s.renderError(c, core.ErrComparisonNotFound)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, "invalid study id"))
		return
	}

	study, err := s.studies.GetStudy(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, study)
}

// handleExportStudy streams the comparison workbook for a stored study
func (s *Server) handleExportStudy(c *gin.Context) {
	if s.studies == nil {
		s.renderError(c, core.ErrComparisonNotFound)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(apperrors.CodeInvalidInput, "invalid study id"))
		return
	}

	study, err := s.studies.GetStudy(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}

	kappas, err := study.Record.KappaResults()
	if err != nil {
		s.renderError(c, err)
		return
	}

	workbook, err := s.reports.ComparisonReport(kappas, nil)
	if err != nil {
		s.renderError(c, err)
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("comparison_%s.xlsx", study.Record.Name)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		s.logger.Error("failed to stream workbook: %v", err)
	}
}
