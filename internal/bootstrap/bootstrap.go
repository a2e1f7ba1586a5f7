package bootstrap

import (
	"context"
	"fmt"

	"github.com/quotelens/quotelens/internal/config"
	"github.com/quotelens/quotelens/internal/core/compare"
	"github.com/quotelens/quotelens/internal/core/extract"
	"github.com/quotelens/quotelens/internal/core/ports"
	"github.com/quotelens/quotelens/internal/core/usecase"
	"github.com/quotelens/quotelens/internal/infrastructure/pdftext"
	"github.com/quotelens/quotelens/internal/infrastructure/queue/nats"
	"github.com/quotelens/quotelens/internal/infrastructure/repository/postgres"
	"github.com/quotelens/quotelens/internal/infrastructure/resilience"
	"github.com/quotelens/quotelens/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue      ports.MessageQueue
	IngestUC   ports.DocumentIngestor
	DocsUC     ports.DocumentReader
	ExtractUC  ports.DocumentProcessor
	ValidateUC ports.RecordValidator
	AnalyzeUC  ports.AnalysisRunner
	AnalysesUC ports.AnalysisReader

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	documents := postgres.NewDocumentRepository(db)
	if err := documents.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure documents schema: %w", err)
	}
	analyses := postgres.NewAnalysisRepository(db)
	if err := analyses.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure analyses schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	rules := extract.DefaultRules()
	if cfg.ExtractionRulesPath != "" {
		rules, err = extract.LoadRules(cfg.ExtractionRulesPath)
		if err != nil {
			return nil, fmt.Errorf("load extraction rules: %w", err)
		}
	}
	extractor := extract.NewExtractor(rules)
	comparator := compare.NewComparator()
	text := pdftext.NewReader()

	ingestUC := usecase.NewIngestDocumentUseCase(documents, storage, queue)
	extractUC := usecase.NewExtractDocumentUseCase(documents, storage, text, extractor)
	validateUC := usecase.NewValidateRecordUseCase(documents, extractor)
	analyzeUC := usecase.NewAnalyzeUseCase(documents, analyses, comparator)

	return &App{
		Config: cfg,
		Queue:  queue,

		IngestUC:   ingestUC,
		DocsUC:     ingestUC,
		ExtractUC:  extractUC,
		ValidateUC: validateUC,
		AnalyzeUC:  analyzeUC,
		AnalysesUC: analyzeUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
