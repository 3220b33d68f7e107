package chunking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
)

// Splitter cuts source text into overlapping chunks and resolves a page
// number for each one. Page markers look like "2500-12" followed by a "---"
// separator line; chunks without a marker inherit last_known_page + 1 so page
// numbers stay strictly increasing between explicit markers.
type Splitter struct {
	ChunkSize     int
	Overlap       int
	SectionPrefix string

	markerRe *regexp.Regexp
}

const (
	defaultChunkSize     = 2000
	defaultSectionPrefix = "2500"
)

func NewSplitter(chunkSize, overlap int, sectionPrefix string) *Splitter {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	if sectionPrefix == "" {
		sectionPrefix = defaultSectionPrefix
	}
	return &Splitter{
		ChunkSize:     chunkSize,
		Overlap:       overlap,
		SectionPrefix: sectionPrefix,
		markerRe:      regexp.MustCompile(regexp.QuoteMeta(sectionPrefix) + `-(\d+)\s*\n\s*---`),
	}
}

func (s *Splitter) Split(text, documentID string) []domain.DocumentChunk {
	pieces := s.splitText(text)
	if len(pieces) == 0 {
		return nil
	}

	out := make([]domain.DocumentChunk, 0, len(pieces))
	lastSeenPage := 0
	for _, piece := range pieces {
		page, section, found := s.detectPageMarker(piece)
		if found {
			lastSeenPage = page
		} else {
			// Monotonic fallback: guess page continuity when the marker
			// heuristic finds nothing. Known to mis-attribute citations on
			// irregular documents.
			if lastSeenPage > 0 {
				page = lastSeenPage + 1
			} else {
				page = 1
			}
			lastSeenPage = page
		}
		out = append(out, domain.DocumentChunk{
			DocumentID: documentID,
			Content:    piece,
			PageNumber: page,
			Section:    section,
		})
	}
	return out
}

// splitText produces chunks of at most ChunkSize runes with Overlap runes of
// trailing context carried into the next chunk, preferring paragraph then
// sentence boundaries over hard cuts.
func (s *Splitter) splitText(text string) []string {
	// A zero-value Splitter still splits; NewSplitter only pre-validates.
	chunkSize := s.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	overlap := s.Overlap
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	runes := []rune(text)
	out := make([]string, 0, len(runes)/chunkSize+1)

	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = start + breakPoint(runes[start:end])
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return out
}

// breakPoint finds the best cut position inside a full-size window: the last
// paragraph break past the midpoint, else the last sentence end, else the
// window length.
func breakPoint(window []rune) int {
	text := string(window)
	min := len(text) / 2

	if idx := strings.LastIndex(text, "\n\n"); idx > min {
		return len([]rune(text[:idx+2]))
	}
	for _, sep := range []string{". ", ".\n", "\n"} {
		if idx := strings.LastIndex(text, sep); idx > min {
			return len([]rune(text[:idx+len(sep)]))
		}
	}
	return len(window)
}

func (s *Splitter) detectPageMarker(chunk string) (page int, section string, found bool) {
	if s.markerRe == nil {
		return 0, "", false
	}
	m := s.markerRe.FindStringSubmatch(chunk)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, "", false
	}
	return n, fmt.Sprintf("%s-%d", s.SectionPrefix, n), true
}
