package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
	"github.com/dkoval/hotelreg-assistant/internal/core/ports"
)

// embedBatchSize keeps embedding requests under the API's input limits.
const embedBatchSize = 100

// IndexBuilder turns the source document into an embedded, persisted vector
// index.
type IndexBuilder struct {
	source   ports.DocumentSource
	chunker  ports.Chunker
	embedder ports.Embedder
	store    ports.VectorStore
	logger   *slog.Logger
}

func NewIndexBuilder(
	source ports.DocumentSource,
	chunker ports.Chunker,
	embedder ports.Embedder,
	store ports.VectorStore,
	logger *slog.Logger,
) *IndexBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexBuilder{
		source:   source,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

func (b *IndexBuilder) Build(ctx context.Context) error {
	text, err := b.source.FullText(ctx)
	if err != nil {
		return fmt.Errorf("load source document: %w", err)
	}

	chunks := b.chunker.Split(text, "doc_0")
	if len(chunks) == 0 {
		return domain.WrapError(domain.ErrEmptyDocument, "build index", fmt.Errorf("no chunks produced"))
	}

	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Content)
		}
		batch, err := b.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks [%d:%d]: %w", start, end, err)
		}
		vectors = append(vectors, batch...)
	}

	if err := b.store.Rebuild(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	b.logger.Info("index_built", "chunks", len(chunks))
	return nil
}
