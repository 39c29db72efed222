package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Resource budgets
	MaxProcessingTime time.Duration
	MaxMemoryMB       int

	// Ingestion limits
	MaxPagesPerDocument  int
	PDFFallbackPdftotext bool

	// Pipeline caps
	MaxSectionsPerDocument int
	MaxSelectedSections    int
	MaxRefineSections      int
	MaxSubsections         int

	// Embedding backend (optional; keyword scoring is used when unset)
	EmbedBaseURL string
	EmbedAPIKey  string
	EmbedModel   string
	EmbedTimeout time.Duration

	// Scoring profile override file (YAML); defaults are used when empty
	ProfilePath string
}

func Load() Config {
	cfg := Config{
		MaxProcessingTime: envDuration("MAX_PROCESSING_TIME", 60*time.Second),
		MaxMemoryMB:       envInt("MAX_MEMORY_MB", 1024),

		MaxPagesPerDocument:  envInt("MAX_PAGES_PER_DOCUMENT", 50),
		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		MaxSectionsPerDocument: envInt("MAX_SECTIONS_PER_DOCUMENT", 10),
		MaxSelectedSections:    envInt("MAX_SELECTED_SECTIONS", 15),
		MaxRefineSections:      envInt("MAX_REFINE_SECTIONS", 8),
		MaxSubsections:         envInt("MAX_SUBSECTIONS", 15),

		EmbedBaseURL: envOr("EMBED_BASE_URL", "https://api.openai.com/v1"),
		EmbedAPIKey:  os.Getenv("EMBED_API_KEY"),
		EmbedModel:   envOr("EMBED_MODEL", "text-embedding-3-small"),
		EmbedTimeout: envDuration("EMBED_TIMEOUT", 30*time.Second),

		ProfilePath: os.Getenv("SCORING_PROFILE"),
	}

	if cfg.MaxProcessingTime <= 0 {
		cfg.MaxProcessingTime = 60 * time.Second
	}
	if cfg.MaxMemoryMB <= 0 {
		cfg.MaxMemoryMB = 1024
	}
	if cfg.MaxPagesPerDocument <= 0 {
		cfg.MaxPagesPerDocument = 50
	}
	if cfg.MaxSectionsPerDocument <= 0 {
		cfg.MaxSectionsPerDocument = 10
	}
	if cfg.MaxSelectedSections <= 0 {
		cfg.MaxSelectedSections = 15
	}
	if cfg.MaxRefineSections <= 0 {
		cfg.MaxRefineSections = 8
	}
	if cfg.MaxSubsections <= 0 {
		cfg.MaxSubsections = 15
	}

	return cfg
}

func (c Config) Validate() error {
	if c.MaxRefineSections > c.MaxSelectedSections {
		return fmt.Errorf("MAX_REFINE_SECTIONS (%d) exceeds MAX_SELECTED_SECTIONS (%d)",
			c.MaxRefineSections, c.MaxSelectedSections)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
