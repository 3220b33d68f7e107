package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
	"github.com/dkoval/hotelreg-assistant/internal/core/ports"
)

// PrimaryAnswerer runs the retrieval-grounded answering call and parses the
// model's self-assessed JSON.
type PrimaryAnswerer struct {
	generator ports.TextGenerator
}

func NewPrimaryAnswerer(generator ports.TextGenerator) *PrimaryAnswerer {
	return &PrimaryAnswerer{generator: generator}
}

func (a *PrimaryAnswerer) Answer(
	ctx context.Context,
	question string,
	docs []domain.RetrievalResult,
	history []domain.ConversationTurn,
) (*domain.StructuredAnswer, error) {
	raw, err := a.generator.GenerateJSON(ctx, buildPrimaryPrompt(question, docs, history))
	if err != nil {
		return nil, fmt.Errorf("generate structured answer: %w", err)
	}
	return parseStructuredAnswer(raw)
}

// looseSource tolerates models quoting numeric fields.
type looseSource struct {
	PageNumber looseInt `json:"page_number"`
	Section    string   `json:"section"`
	Content    string   `json:"content"`
}

type looseAnswer struct {
	Answer         string        `json:"answer"`
	Confidence     *float64      `json:"confidence"`
	Sources        []looseSource `json:"sources"`
	NeedsRerouting bool          `json:"needs_rerouting"`
}

func parseStructuredAnswer(raw string) (*domain.StructuredAnswer, error) {
	var parsed looseAnswer
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &parsed); err != nil {
		return nil, domain.WrapError(domain.ErrMalformedAnswer, "parse answer json", err)
	}
	if strings.TrimSpace(parsed.Answer) == "" {
		return nil, domain.WrapError(domain.ErrMalformedAnswer, "parse answer json", fmt.Errorf("missing answer field"))
	}

	// Missing confidence reads as zero and forces escalation.
	confidence := 0.0
	if parsed.Confidence != nil {
		confidence = *parsed.Confidence
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	sources := make([]domain.Source, 0, len(parsed.Sources))
	for _, src := range parsed.Sources {
		sources = append(sources, domain.Source{
			PageNumber: int(src.PageNumber),
			Section:    src.Section,
			Content:    src.Content,
		})
	}

	return &domain.StructuredAnswer{
		Answer:         parsed.Answer,
		Confidence:     confidence,
		Sources:        sources,
		NeedsRerouting: parsed.NeedsRerouting,
	}, nil
}

type looseInt int

func (n *looseInt) UnmarshalJSON(data []byte) error {
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" {
		*n = 0
		return nil
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		*n = 0
		return nil
	}
	*n = looseInt(value)
	return nil
}

// extractJSONObject strips any prose the model wrapped around the object.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
