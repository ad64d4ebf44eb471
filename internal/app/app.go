package app

import (
	"context"
	"log/slog"

	"github.com/shavaan/team2-Hack/internal/async"
	"github.com/shavaan/team2-Hack/internal/common"
	"github.com/shavaan/team2-Hack/internal/document"
	"github.com/shavaan/team2-Hack/internal/export"
	"github.com/shavaan/team2-Hack/internal/extract"
	"github.com/shavaan/team2-Hack/internal/lawchanges"
	"github.com/shavaan/team2-Hack/internal/llm/openai"
	"github.com/shavaan/team2-Hack/internal/pipeline"
	"github.com/shavaan/team2-Hack/internal/repository"
	"github.com/shavaan/team2-Hack/internal/validate"
)

// App holds the wired components shared by the binaries.
type App struct {
	Config    *common.Config
	Logger    *slog.Logger
	DB        *repository.DB
	Store     repository.ChangeStore
	Loader    *document.Loader
	Extractor extract.Extractor
	Processor *pipeline.Processor
	Service   *lawchanges.Service
}

// New opens and migrates the store and wires the pipeline around it.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	extractor, err := NewExtractor(cfg, logger)
	if err != nil {
		return nil, err
	}

	db, err := repository.Open(ctx, repository.ConfigFrom(cfg.Database), logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	store := repository.NewLawChangeRepository(db, logger)

	loader := document.NewLoader(document.Config{
		DocsDir:   cfg.Documents.DocsDir,
		Pdftotext: cfg.Documents.Pdftotext,
		MaxPages:  cfg.Documents.MaxPages,
	}, logger)

	processor := pipeline.NewProcessor(logger, loader, extractor, validate.NewValidator(logger), store,
		pipeline.WithTimeout(cfg.Extraction.ProcessTimeout),
	)
	service := lawchanges.NewService(processor, store, export.NewService(store, logger), logger)

	logger.Debug("app.ready", "extractor", extractor.Name(), "store", db.Location(), "docs_dir", cfg.Documents.DocsDir)
	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Store:     store,
		Loader:    loader,
		Extractor: extractor,
		Processor: processor,
		Service:   service,
	}, nil
}

// NewExtractor selects the extraction strategy named by EXTRACTOR.
func NewExtractor(cfg *common.Config, logger *slog.Logger) (extract.Extractor, error) {
	switch cfg.Extraction.Mode {
	case common.ExtractorRules, "":
		return extract.NewRuleExtractor(logger), nil
	case common.ExtractorOpenAI:
		client, err := openai.NewClient(openai.Config{
			APIKey:            cfg.LLM.APIKey,
			BaseURL:           cfg.LLM.BaseURL,
			Model:             cfg.LLM.Model,
			Temperature:       cfg.LLM.Temperature,
			Timeout:           cfg.LLM.Timeout,
			RequestsPerSecond: cfg.LLM.RequestsPerSecond,
			Burst:             cfg.LLM.Burst,
			CacheTTL:          cfg.LLM.CacheTTL,
		}, logger)
		if err != nil {
			return nil, common.NewAppError(common.CodeConfig, "configure openai extractor", err)
		}
		return extract.NewLLMExtractor(client, cfg.LLM.Concurrency, logger), nil
	default:
		return nil, common.NewAppError(common.CodeConfig, "unknown extractor "+cfg.Extraction.Mode, common.ErrInvalidInput)
	}
}

// NewQueue starts a worker pool over the app's processor. Cancelling ctx
// cancels queued and running jobs.
func (a *App) NewQueue(ctx context.Context) *async.ProcessorQueue {
	return async.NewProcessorQueue(a.Processor, a.Logger,
		async.WithBaseContext(ctx),
		async.WithWorkers(a.Config.Batch.Workers),
		async.WithQueueSize(a.Config.Batch.QueueSize),
		async.WithProcessTimeout(a.Config.Extraction.ProcessTimeout),
	)
}

func (a *App) Close() {
	if a != nil {
		a.DB.Close()
	}
}
