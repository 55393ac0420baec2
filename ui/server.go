package ui

import (
	"html/template"
	"time"

	"godiag/adapters/excel"
	"godiag/app"
	"godiag/internal"
	"godiag/ports"

	costsadapter "godiag/adapters/costs"

	"github.com/gin-gonic/gin"
)

// Server is the web UI for the diagnostic statistics engine. It serves both
// HTML pages and the JSON endpoints the pages call.
type Server struct {
	router      *gin.Engine
	experiments *app.ExperimentService
	comparisons *app.ComparisonService
	studies     *app.StudyService // nil when persistence is disabled
	analyzer    ports.CostAnalyzer
	catalog     *costsadapter.Catalog
	reports     *excel.ReportWriter
	logger      *internal.Logger
	templates   *template.Template

	maxUploadBytes int64
}

// NewServer creates the web server and registers all routes. studies may be
// nil when persistence is disabled; the saved-study routes then answer 404.
func NewServer(
	experiments *app.ExperimentService,
	comparisons *app.ComparisonService,
	studies *app.StudyService,
	analyzer ports.CostAnalyzer,
	catalog *costsadapter.Catalog,
	logger *internal.Logger,
	maxUploadMB int,
) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:         gin.New(),
		experiments:    experiments,
		comparisons:    comparisons,
		studies:        studies,
		analyzer:       analyzer,
		catalog:        catalog,
		reports:        excel.NewReportWriter(),
		logger:         logger,
		templates:      templates,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}

	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.SetHTMLTemplate(templates)
	s.registerRoutes()
	return s, nil
}

// Router exposes the gin engine for tests and embedding
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	s.logger.Info("web UI listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/methodology", s.handleMethodology)

	s.router.POST("/experiments", s.handleSubmitExperiment)
	s.router.GET("/experiments", s.handleListExperiments)
	s.router.GET("/experiments/:id", s.handleGetExperiment)
	s.router.DELETE("/experiments/:id", s.handleDeleteExperiment)
	s.router.GET("/experiments/:id/export", s.handleExportExperiment)
	s.router.POST("/experiments/batch", s.handleBatchUpload)

	s.router.POST("/compare", s.handleCompare)
	s.router.POST("/correct", s.handleCorrect)

	s.router.POST("/comparisons", s.handleCreateStudy)
	s.router.GET("/comparisons", s.handleListStudies)
	s.router.GET("/comparisons/:id", s.handleGetStudy)
	s.router.GET("/comparisons/:id/export", s.handleExportStudy)

	s.router.GET("/costs", s.handleCostComparison)
	s.router.GET("/costs/techniques", s.handleListTechniques)
	s.router.GET("/costs/techniques/:technique", s.handleTechniqueProfile)
}

// requestLogger logs method, path, status and latency per request
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("%s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
