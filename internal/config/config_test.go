package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesPipelineDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("CHUNK_OVERLAP", "")
	t.Setenv("RETRIEVAL_TOP_K", "")
	t.Setenv("CONFIDENCE_THRESHOLD", "")
	t.Setenv("OPENAI_GEN_MODEL", "")
	t.Setenv("OPENAI_FAST_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkSize != 2000 {
		t.Fatalf("expected default chunk size 2000, got %d", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 200 {
		t.Fatalf("expected default chunk overlap 200, got %d", cfg.ChunkOverlap)
	}
	if cfg.RetrievalTopK != 15 {
		t.Fatalf("expected default top k 15, got %d", cfg.RetrievalTopK)
	}
	if cfg.ConfidenceThreshold != 0.7 {
		t.Fatalf("expected default confidence threshold 0.7, got %f", cfg.ConfidenceThreshold)
	}
	if cfg.OpenAIGenModel != "gpt-4o" {
		t.Fatalf("expected default gen model gpt-4o, got %q", cfg.OpenAIGenModel)
	}
	if cfg.OpenAIFastModel != "gpt-4o-mini" {
		t.Fatalf("expected default fast model gpt-4o-mini, got %q", cfg.OpenAIFastModel)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default token ttl 24h, got %s", cfg.TokenTTL)
	}
}

func TestLoadParsesEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RETRIEVAL_TOP_K", "8")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.55")
	t.Setenv("OPENAI_GEN_MODEL", "gpt-4.1")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RetrievalTopK != 8 {
		t.Fatalf("expected top k 8, got %d", cfg.RetrievalTopK)
	}
	if cfg.ConfidenceThreshold != 0.55 {
		t.Fatalf("expected confidence threshold 0.55, got %f", cfg.ConfidenceThreshold)
	}
	if cfg.OpenAIGenModel != "gpt-4.1" {
		t.Fatalf("expected gen model override, got %q", cfg.OpenAIGenModel)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5, got %f", cfg.RateLimitRPS)
	}
}

func TestLoadFileValuesYieldToEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "retrieval_top_k: 20\nopenai_fast_model: gpt-4o-mini-2024\nindex_path: /var/lib/hotelreg/index.json\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RETRIEVAL_TOP_K", "3")
	t.Setenv("OPENAI_FAST_MODEL", "")
	t.Setenv("INDEX_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RetrievalTopK != 3 {
		t.Fatalf("env should beat file: top k = %d, want 3", cfg.RetrievalTopK)
	}
	if cfg.OpenAIFastModel != "gpt-4o-mini-2024" {
		t.Fatalf("file value lost: fast model = %q", cfg.OpenAIFastModel)
	}
	if cfg.IndexPath != "/var/lib/hotelreg/index.json" {
		t.Fatalf("file value lost: index path = %q", cfg.IndexPath)
	}
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
