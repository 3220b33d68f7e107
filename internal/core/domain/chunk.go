package domain

// DocumentChunk is a bounded slice of the source document with locational
// metadata. Immutable once created; owned by the vector index after ingestion.
type DocumentChunk struct {
	DocumentID string `json:"document_id"`
	Content    string `json:"content"`
	PageNumber int    `json:"page_number"`
	Section    string `json:"section,omitempty"`
}

// RetrievalResult is one ranked hit from the vector index, produced fresh per
// query and never persisted.
type RetrievalResult struct {
	DocumentID string  `json:"document_id"`
	Content    string  `json:"content"`
	PageNumber int     `json:"page_number"`
	Section    string  `json:"section,omitempty"`
	Score      float64 `json:"score"`
}
