package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
	"github.com/dkoval/hotelreg-assistant/internal/core/ports"
)

// QueryRefiner rewrites a user question into a standalone query suited for
// similarity search, folding in conversation history when the question refers
// back to it.
type QueryRefiner struct {
	generator ports.TextGenerator
}

func NewQueryRefiner(generator ports.TextGenerator) *QueryRefiner {
	return &QueryRefiner{generator: generator}
}

func (r *QueryRefiner) Refine(ctx context.Context, query string, history []domain.ConversationTurn) (string, error) {
	refined, err := r.generator.Generate(ctx, buildRefinerPrompt(query, history))
	if err != nil {
		return "", fmt.Errorf("refine query: %w", err)
	}
	refined = strings.TrimSpace(refined)
	if refined == "" {
		return query, nil
	}
	return refined, nil
}
