// Package flatindex is a flat cosine-similarity vector index persisted as a
// single JSON file. Brute-force scan is fine at the scale of one regulation
// document; swap for a real ANN service behind the same port if the corpus
// grows.
package flatindex

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
)

type entry struct {
	Chunk  domain.DocumentChunk `json:"chunk"`
	Vector []float32            `json:"vector"`
}

type indexFile struct {
	Version int     `json:"version"`
	Entries []entry `json:"entries"`
}

const fileVersion = 1

// Store holds the in-memory index and its on-disk location. Reads are lock-free
// after initialization apart from an RWMutex read lock; Rebuild swaps the whole
// entry slice under the write lock.
type Store struct {
	path string

	mu      sync.RWMutex
	entries []entry
	loaded  bool
}

func New(path string) *Store {
	if path == "" {
		path = "./data/regulation_index.json"
	}
	return &Store{path: path}
}

// Load reads a previously persisted index. A missing file is reported as
// ok=false without error; any other failure is an error.
func (s *Store) Load(_ context.Context) (bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read index file: %w", err)
	}

	var file indexFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return false, fmt.Errorf("decode index file: %w", err)
	}
	if file.Version != fileVersion {
		return false, fmt.Errorf("unsupported index file version %d", file.Version)
	}

	s.mu.Lock()
	s.entries = file.Entries
	s.loaded = true
	s.mu.Unlock()
	return true, nil
}

// Rebuild replaces the index content and persists it atomically (write to a
// temp file, then rename).
func (s *Store) Rebuild(_ context.Context, chunks []domain.DocumentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch: %d/%d", len(chunks), len(vectors))
	}

	entries := make([]entry, 0, len(chunks))
	for i := range chunks {
		entries = append(entries, entry{Chunk: chunks[i], Vector: vectors[i]})
	}

	if err := s.persist(entries); err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *Store) persist(entries []entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	raw, err := json.Marshal(indexFile{Version: fileVersion, Entries: entries})
	if err != nil {
		return fmt.Errorf("encode index file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write index file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace index file: %w", err)
	}
	return nil
}

func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Search returns the k nearest chunks by cosine similarity, highest first.
// Ties break on insertion order so a fixed index and query always produce the
// same ranking.
func (s *Store) Search(_ context.Context, queryVector []float32, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "search", fmt.Errorf("index not initialized"))
	}

	type scored struct {
		pos   int
		score float64
	}
	results := make([]scored, 0, len(s.entries))
	for i := range s.entries {
		results = append(results, scored{pos: i, score: cosineSimilarity(queryVector, s.entries[i].Vector)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > k {
		results = results[:k]
	}

	out := make([]domain.RetrievalResult, 0, len(results))
	for _, r := range results {
		chunk := s.entries[r.pos].Chunk
		out = append(out, domain.RetrievalResult{
			DocumentID: chunk.DocumentID,
			Content:    chunk.Content,
			PageNumber: chunk.PageNumber,
			Section:    chunk.Section,
			Score:      r.score,
		})
	}
	return out, nil
}

// Len reports the number of indexed chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
