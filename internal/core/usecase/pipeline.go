package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
)

// Pipeline chains refinement, retrieval, structured answering and the
// confidence-based escalation route into one query operation.
type Pipeline struct {
	init       *IndexInitializer
	refiner    *QueryRefiner
	retriever  *Retriever
	primary    *PrimaryAnswerer
	escalation *EscalationAnswerer
	threshold  float64
	logger     *slog.Logger
}

func NewPipeline(
	init *IndexInitializer,
	refiner *QueryRefiner,
	retriever *Retriever,
	primary *PrimaryAnswerer,
	escalation *EscalationAnswerer,
	threshold float64,
	logger *slog.Logger,
) *Pipeline {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.7
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		init:       init,
		refiner:    refiner,
		retriever:  retriever,
		primary:    primary,
		escalation: escalation,
		threshold:  threshold,
		logger:     logger,
	}
}

// shouldEscalate is the routing decision between the retrieval answer and the
// full-document pass.
func shouldEscalate(confidence float64, needsRerouting bool, threshold float64) bool {
	return needsRerouting || confidence < threshold
}

func (p *Pipeline) ProcessQuery(
	ctx context.Context,
	query, region string,
	history []domain.ConversationTurn,
) (*domain.PipelineResult, error) {
	started := time.Now()

	if err := p.init.Ensure(ctx); err != nil {
		return nil, fmt.Errorf("ensure index: %w", err)
	}

	refined, err := p.refiner.Refine(ctx, query, history)
	if err != nil {
		return nil, err
	}

	docs, err := p.retriever.Retrieve(ctx, refined)
	if err != nil {
		return nil, err
	}

	// The refined query drives retrieval; the answerer sees the user's
	// original wording.
	primary, err := p.primary.Answer(ctx, query, docs, history)
	if err != nil {
		return nil, err
	}

	result := &domain.PipelineResult{
		OriginalQuery: query,
		RefinedQuery:  refined,
		Response:      primary.Answer,
		Confidence:    primary.Confidence,
		ResponseType:  domain.ResponseRAG,
		Sources:       primary.Sources,
		Region:        region,
	}

	if shouldEscalate(primary.Confidence, primary.NeedsRerouting, p.threshold) {
		p.logger.Info("escalating_to_full_document",
			"confidence", primary.Confidence,
			"needs_rerouting", primary.NeedsRerouting,
		)
		fullDocAnswer, escErr := p.escalation.Answer(ctx, query, history)
		if escErr != nil {
			p.logger.Warn("escalation_failed_using_primary_answer", "error", escErr)
			result.ResponseType = domain.ResponseRAGFallback
		} else {
			result.Response = fullDocAnswer
			result.ResponseType = domain.ResponseFullDoc
			result.Sources = []domain.Source{}
		}
	}

	p.logger.Info("query_processed",
		"response_type", string(result.ResponseType),
		"confidence", result.Confidence,
		"retrieved", len(docs),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return result, nil
}
