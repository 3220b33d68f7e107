package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
	"github.com/dkoval/hotelreg-assistant/internal/core/ports"
)

// IndexInitializer lazily brings the vector index up: load the persisted
// copy, else build from the source document. Concurrent callers serialize on
// the mutex and only the first does the work.
type IndexInitializer struct {
	store   ports.VectorStore
	builder *IndexBuilder
	logger  *slog.Logger

	mu sync.Mutex
}

func NewIndexInitializer(store ports.VectorStore, builder *IndexBuilder, logger *slog.Logger) *IndexInitializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexInitializer{
		store:   store,
		builder: builder,
		logger:  logger,
	}
}

func (i *IndexInitializer) Ensure(ctx context.Context) error {
	if i.store.Ready() {
		return nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.store.Ready() {
		return nil
	}

	ok, err := i.store.Load(ctx)
	if err != nil {
		return domain.WrapError(domain.ErrIndexUnavailable, "load index", err)
	}
	if ok {
		i.logger.Info("index_loaded")
		return nil
	}

	i.logger.Info("index_missing_building")
	if err := i.builder.Build(ctx); err != nil {
		if domain.IsKind(err, domain.ErrEmptyDocument) {
			return err
		}
		return domain.WrapError(domain.ErrIndexUnavailable, "build index", err)
	}
	return nil
}

// Rebuild forces a fresh build regardless of current index state. Used by the
// admin reindex path and the indexer worker.
func (i *IndexInitializer) Rebuild(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.builder.Build(ctx)
}
