package domain

// ResponseType tells which branch of the pipeline produced the final answer.
type ResponseType string

const (
	// ResponseRAG is the confident retrieval-grounded answer.
	ResponseRAG ResponseType = "rag"
	// ResponseFullDoc is the escalation answer generated from the whole
	// source document; it carries no per-chunk citations.
	ResponseFullDoc ResponseType = "full_doc"
	// ResponseRAGFallback is the primary answer reused after a failed
	// escalation attempt.
	ResponseRAGFallback ResponseType = "rag_fallback"
)

// Source is a single citation reported by the primary answerer.
type Source struct {
	PageNumber int    `json:"page_number"`
	Section    string `json:"section"`
	Content    string `json:"content"`
}

// StructuredAnswer is the parsed self-assessed output of the primary
// answerer. Confidence lives in [0,1]; a missing confidence field parses to 0
// and guarantees escalation.
type StructuredAnswer struct {
	Answer         string   `json:"answer"`
	Confidence     float64  `json:"confidence"`
	Sources        []Source `json:"sources"`
	NeedsRerouting bool     `json:"needs_rerouting"`
}

// PipelineResult is the sole externally visible output of the query pipeline.
type PipelineResult struct {
	OriginalQuery string       `json:"original_query"`
	RefinedQuery  string       `json:"refined_query"`
	Response      string       `json:"response"`
	Confidence    float64      `json:"confidence"`
	ResponseType  ResponseType `json:"response_type"`
	Sources       []Source     `json:"sources"`
	Region        string       `json:"region"`
}
