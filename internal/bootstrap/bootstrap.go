// Package bootstrap wires infrastructure into the use cases for each binary.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	httpadapter "github.com/dkoval/hotelreg-assistant/internal/adapters/http"
	"github.com/dkoval/hotelreg-assistant/internal/config"
	"github.com/dkoval/hotelreg-assistant/internal/core/ports"
	"github.com/dkoval/hotelreg-assistant/internal/core/usecase"
	"github.com/dkoval/hotelreg-assistant/internal/infrastructure/auth"
	"github.com/dkoval/hotelreg-assistant/internal/infrastructure/chunking"
	"github.com/dkoval/hotelreg-assistant/internal/infrastructure/docsource"
	"github.com/dkoval/hotelreg-assistant/internal/infrastructure/llm/openai"
	"github.com/dkoval/hotelreg-assistant/internal/infrastructure/queue/nats"
	"github.com/dkoval/hotelreg-assistant/internal/infrastructure/repository/postgres"
	"github.com/dkoval/hotelreg-assistant/internal/infrastructure/resilience"
	"github.com/dkoval/hotelreg-assistant/internal/infrastructure/vector/flatindex"
	"github.com/dkoval/hotelreg-assistant/internal/observability/logging"
	"github.com/dkoval/hotelreg-assistant/internal/observability/metrics"
)

// App holds the wired API process: HTTP handler plus the ports the binary
// needs for lifecycle management.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Handler http.Handler

	Queue    ports.ReindexQueue
	Pipeline ports.QueryPipeline

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger("api", cfg.LogLevel)
	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init reindex queue: %w", err)
	}

	pipeline, _ := buildPipeline(cfg, logger, executor)

	chatUC := usecase.NewChatUsecase(
		postgres.NewSessionRepository(db),
		postgres.NewMessageRepository(db),
		pipeline,
		logger,
	)
	authUC := usecase.NewAuthUsecase(
		postgres.NewUserRepository(db),
		auth.NewBcryptHasher(),
		auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
	)

	router := httpadapter.NewRouter(authUC, chatUC, pipeline, queue, httpadapter.Config{
		TokenTTL:       cfg.TokenTTL,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Metrics:        metrics.NewHTTPServerMetrics("api"),
	})

	return &App{
		Config:   cfg,
		Logger:   logger,
		Handler:  router.Handler(),
		Queue:    queue,
		Pipeline: pipeline,
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

// IndexerApp holds the wired indexer process: it consumes rebuild events and
// rebuilds the vector index from the source document.
type IndexerApp struct {
	Config    config.Config
	Logger    *slog.Logger
	Queue     ports.ReindexQueue
	Rebuilder ports.IndexRebuilder
	Metrics   *metrics.IndexerMetrics

	closeFn func()
}

func NewIndexer(cfg config.Config) (*IndexerApp, error) {
	logger := logging.NewJSONLogger("indexer", cfg.LogLevel)
	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init reindex queue: %w", err)
	}

	_, initializer := buildPipeline(cfg, logger, executor)

	return &IndexerApp{
		Config:    cfg,
		Logger:    logger,
		Queue:     queue,
		Rebuilder: initializer,
		Metrics:   metrics.NewIndexerMetrics("indexer"),
		closeFn:   queue.Close,
	}, nil
}

func (a *IndexerApp) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// buildPipeline assembles the RAG query path shared by both binaries.
func buildPipeline(cfg config.Config, logger *slog.Logger, executor *resilience.Executor) (*usecase.Pipeline, *usecase.IndexInitializer) {
	client := openai.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIEmbedModel, cfg.LLMTimeout, executor)
	embedder := openai.NewEmbedder(client)
	primaryGen := openai.NewGenerator(client, cfg.OpenAIGenModel)
	fastGen := openai.NewGenerator(client, cfg.OpenAIFastModel)

	// Escalation is single-shot: a failure there falls back to the primary
	// answer, so its calls get no retries and stay off the shared breakers.
	directClient := openai.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIEmbedModel, cfg.LLMTimeout, nil)
	escalationGen := openai.NewGenerator(directClient, cfg.OpenAIFastModel)

	source := docsource.New(cfg.SourceDocPath)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap, cfg.SectionPrefix)
	store := flatindex.New(cfg.IndexPath)

	builder := usecase.NewIndexBuilder(source, chunker, embedder, store, logger)
	initializer := usecase.NewIndexInitializer(store, builder, logger)

	pipeline := usecase.NewPipeline(
		initializer,
		usecase.NewQueryRefiner(fastGen),
		usecase.NewRetriever(embedder, store, cfg.RetrievalTopK),
		usecase.NewPrimaryAnswerer(primaryGen),
		usecase.NewEscalationAnswerer(source, escalationGen),
		cfg.ConfidenceThreshold,
		logger,
	)
	return pipeline, initializer
}
