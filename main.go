package main

import (
	"context"
	"log"

	costsadapter "godiag/adapters/costs"
	"godiag/adapters/postgres"
	"godiag/adapters/postgres/migrations"
	"godiag/adapters/stats/agreement"
	"godiag/adapters/stats/correction"
	"godiag/adapters/stats/engine"
	"godiag/app"
	"godiag/internal"
	"godiag/internal/config"
	apperrors "godiag/internal/errors"
	"godiag/ports"
	"godiag/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	gin.SetMode(cfg.GinMode)

	catalog, err := loadCatalog(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to load cost catalog: %v", err)
	}

	var (
		experimentRepo ports.ExperimentRepository
		comparisonRepo ports.ComparisonRepository
	)
	if cfg.HasDatabase() {
		db, err := initDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		experimentRepo = postgres.NewExperimentRepository(db)
		comparisonRepo = postgres.NewComparisonRepository(db)
		logger.Info("persistence enabled")
	} else {
		logger.Warn("DATABASE_URL not set, running without persistence")
	}

	calculator := engine.NewCalculator()
	estimator := agreement.NewEstimator()
	corrector := correction.NewCorrector()
	analyzer := costsadapter.NewAnalyzer(catalog)

	experimentService := app.NewExperimentService(calculator, analyzer, experimentRepo, cfg.DefaultConfidenceLevel)
	comparisonService := app.NewComparisonService(calculator, estimator, corrector, analyzer)

	var studyService *app.StudyService
	if comparisonRepo != nil {
		studyService = app.NewStudyService(experimentService, comparisonService, comparisonRepo)
	}

	server, err := ui.NewServer(experimentService, comparisonService, studyService, analyzer, catalog, logger, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadCatalog uses the operator override file when configured, the built-in
// market-research table otherwise
func loadCatalog(cfg *config.Config, logger *internal.Logger) (*costsadapter.Catalog, error) {
	if cfg.CostTableFile == "" {
		return costsadapter.NewDefaultCatalog(), nil
	}
	logger.Info("loading cost table from %s", cfg.CostTableFile)
	return costsadapter.LoadCatalogFile(cfg.CostTableFile)
}

// initDatabase connects to PostgreSQL and applies pending migrations
func initDatabase(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, apperrors.Wrap(err, "failed to ping database")
	}

	migrator := migrations.NewMigrator(db.DB)
	if err := migrator.Up(context.Background()); err != nil {
		return nil, apperrors.Wrap(err, "database migration failed")
	}

	return db, nil
}
