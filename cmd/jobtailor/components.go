package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jobtailor/jobtailor/internal/adapter"
	"github.com/jobtailor/jobtailor/internal/analytics"
	"github.com/jobtailor/jobtailor/internal/config"
	"github.com/jobtailor/jobtailor/internal/ledger"
	"github.com/jobtailor/jobtailor/internal/models"
	"github.com/jobtailor/jobtailor/internal/storage"
	"github.com/jobtailor/jobtailor/internal/tailor"
	"github.com/jobtailor/jobtailor/pkg/utils"

	"github.com/google/uuid"
)

// Components bundles the initialized pipeline pieces shared by the CLI
// commands.
type Components struct {
	Storage      storage.Storage
	Extractor    adapter.Extractor
	Ledger       *ledger.Ledger
	Orchestrator *tailor.Orchestrator
	Insights     *analytics.InsightGenerator
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var extractor adapter.Extractor
	gemini, err := adapter.NewGemini(ctx, adapter.Config{
		Endpoint:       cfg.Adapter.Endpoint,
		APIKey:         cfg.Adapter.APIKey(),
		Model:          cfg.Adapter.Model,
		Timeout:        cfg.Adapter.Timeout,
		MaxInputBytes:  cfg.Adapter.MaxInputBytes,
		ExtractionTemp: cfg.Adapter.ExtractionTemp,
		GenerationTemp: cfg.Adapter.GenerationTemp,
	}, logger)
	if err != nil {
		// Keep local workflows usable without credentials.
		logger.Warn("adapter unavailable, using deterministic stub", zap.Error(err))
		extractor = adapter.NewMock()
	} else {
		extractor = gemini
	}

	ldg := ledger.New(store)
	return &Components{
		Storage:      store,
		Extractor:    extractor,
		Ledger:       ldg,
		Orchestrator: tailor.New(store, extractor, ldg, cfg.Adapter, logger),
		Insights:     analytics.NewInsightGenerator(extractor, logger),
	}, nil
}

// mustComponents loads config, builds a logger and initializes components,
// exiting on any failure. Shared by the one-shot CLI commands.
func mustComponents(ctx context.Context, configPath string) (*Components, *config.Config, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	return components, cfg, logger
}

// resolveResume returns the given resume id, or creates a resume from the
// file when an id is not supplied.
func resolveResume(ctx context.Context, store storage.Storage, id, file, userID string) (string, error) {
	if id != "" {
		return id, nil
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	resume := &models.Resume{
		ID:      uuid.NewString(),
		UserID:  userID,
		Title:   utils.Truncate(file, 64),
		Content: string(content),
	}
	if err := store.CreateResume(ctx, resume); err != nil {
		return "", err
	}
	return resume.ID, nil
}

// resolveJob mirrors resolveResume for job descriptions.
func resolveJob(ctx context.Context, store storage.Storage, id, file, userID string) (string, error) {
	if id != "" {
		return id, nil
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	job := &models.JobDescription{
		ID:      uuid.NewString(),
		UserID:  userID,
		Title:   utils.Truncate(file, 64),
		Content: string(content),
	}
	if err := store.CreateJobDescription(ctx, job); err != nil {
		return "", err
	}
	return job.ID, nil
}
