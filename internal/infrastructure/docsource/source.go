// Package docsource reads the regulation source document that feeds both
// index builds and full-document escalation.
package docsource

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

type FileSource struct {
	path string
}

func New(path string) *FileSource {
	if path == "" {
		path = "./docs/hotel_guidelines.md"
	}
	return &FileSource{path: path}
}

func (s *FileSource) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// FullText returns the complete document text. PDF sources are flattened to
// plain text; anything else is read as-is.
func (s *FileSource) FullText(_ context.Context) (string, error) {
	if strings.EqualFold(filepath.Ext(s.path), ".pdf") {
		return s.pdfText()
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}
	return string(raw), nil
}

func (s *FileSource) pdfText() (string, error) {
	f, reader, err := pdf.Open(s.path)
	if err != nil {
		return "", fmt.Errorf("open pdf source: %w", err)
	}
	defer f.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}
