package usecase

import (
	"context"
	"fmt"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
	"github.com/dkoval/hotelreg-assistant/internal/core/ports"
)

// Retriever embeds the refined query and pulls the top-k chunks from the
// index. An empty result set is valid.
type Retriever struct {
	embedder ports.Embedder
	store    ports.VectorStore
	topK     int
}

func NewRetriever(embedder ports.Embedder, store ports.VectorStore, topK int) *Retriever {
	if topK <= 0 {
		topK = 15
	}
	return &Retriever{
		embedder: embedder,
		store:    store,
		topK:     topK,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.RetrievalResult, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := r.store.Search(ctx, vector, r.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return results, nil
}
