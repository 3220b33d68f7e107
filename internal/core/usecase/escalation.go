package usecase

import (
	"context"
	"fmt"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
	"github.com/dkoval/hotelreg-assistant/internal/core/ports"
)

// missingDocsResponse is returned verbatim when the source document is gone;
// a missing file is a configuration problem, not a pipeline failure.
const missingDocsResponse = "Documentation not found. Please contact the administrator."

// EscalationAnswerer answers against the entire source document when the
// retrieval-grounded answer was not confident enough.
type EscalationAnswerer struct {
	source    ports.DocumentSource
	generator ports.TextGenerator
}

func NewEscalationAnswerer(source ports.DocumentSource, generator ports.TextGenerator) *EscalationAnswerer {
	return &EscalationAnswerer{
		source:    source,
		generator: generator,
	}
}

func (e *EscalationAnswerer) Answer(ctx context.Context, question string, history []domain.ConversationTurn) (string, error) {
	if !e.source.Exists() {
		return missingDocsResponse, nil
	}

	fullDoc, err := e.source.FullText(ctx)
	if err != nil {
		return "", fmt.Errorf("load full document: %w", err)
	}

	answer, err := e.generator.Generate(ctx, buildEscalationPrompt(question, fullDoc, history))
	if err != nil {
		return "", fmt.Errorf("generate full document answer: %w", err)
	}
	return answer, nil
}
