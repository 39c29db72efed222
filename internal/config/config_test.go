package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.MaxProcessingTime != 60*time.Second {
		t.Errorf("MaxProcessingTime = %v", cfg.MaxProcessingTime)
	}
	if cfg.MaxMemoryMB != 1024 {
		t.Errorf("MaxMemoryMB = %d", cfg.MaxMemoryMB)
	}
	if cfg.MaxPagesPerDocument != 50 {
		t.Errorf("MaxPagesPerDocument = %d", cfg.MaxPagesPerDocument)
	}
	if cfg.MaxSectionsPerDocument != 10 || cfg.MaxSelectedSections != 15 ||
		cfg.MaxRefineSections != 8 || cfg.MaxSubsections != 15 {
		t.Errorf("pipeline caps: %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MAX_PROCESSING_TIME", "90s")
	t.Setenv("MAX_SELECTED_SECTIONS", "5")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load()

	if cfg.MaxProcessingTime != 90*time.Second {
		t.Errorf("MaxProcessingTime = %v", cfg.MaxProcessingTime)
	}
	if cfg.MaxSelectedSections != 5 {
		t.Errorf("MaxSelectedSections = %d", cfg.MaxSelectedSections)
	}
	if cfg.PDFFallbackPdftotext {
		t.Errorf("PDFFallbackPdftotext not overridden")
	}
}

func TestLoad_InvalidEnvFallsBackToDefaults(t *testing.T) {
	t.Setenv("MAX_PROCESSING_TIME", "not-a-duration")
	t.Setenv("MAX_MEMORY_MB", "-5")

	cfg := Load()

	if cfg.MaxProcessingTime != 60*time.Second {
		t.Errorf("MaxProcessingTime = %v", cfg.MaxProcessingTime)
	}
	if cfg.MaxMemoryMB != 1024 {
		t.Errorf("negative memory bound accepted: %d", cfg.MaxMemoryMB)
	}
}

func TestValidate_RefineCapBoundedBySelection(t *testing.T) {
	cfg := Load()
	cfg.MaxRefineSections = cfg.MaxSelectedSections + 1

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error when refine cap exceeds selection cap")
	}
	cfg.MaxRefineSections = cfg.MaxSelectedSections
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	if p.Weights.Relevance != 0.5 || p.Weights.Uniqueness != 0.2 ||
		p.Weights.Completeness != 0.2 || p.Weights.Length != 0.1 {
		t.Errorf("ranker weights: %+v", p.Weights)
	}
	if p.Weights.Persona != 0.6 || p.Weights.Job != 0.4 {
		t.Errorf("blend weights: %+v", p.Weights)
	}

	for _, domain := range []string{"travel", "hr", "culinary"} {
		tier, ok := p.Domains[domain]
		if !ok {
			t.Errorf("missing domain %q", domain)
			continue
		}
		if len(tier.High) == 0 || len(tier.Medium) == 0 || len(tier.Low) == 0 {
			t.Errorf("domain %q has an empty tier", domain)
		}
	}

	if len(p.DomainCues) != 3 || p.DomainCues[0].Name != "travel" {
		t.Errorf("domain cues: %+v", p.DomainCues)
	}
	if len(p.Topics) != 3 || len(p.ContentClasses) != 3 {
		t.Errorf("topics/classes: %d/%d", len(p.Topics), len(p.ContentClasses))
	}
	if p.ContentClasses[0].Name != "procedural" {
		t.Errorf("content class order: %+v", p.ContentClasses)
	}
}

func TestLoadProfile_EmptyPathUsesDefaults(t *testing.T) {
	p, err := LoadProfile("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Weights != DefaultProfile().Weights {
		t.Errorf("defaults not returned: %+v", p.Weights)
	}
}

func TestLoadProfile_MissingFileUsesDefaults(t *testing.T) {
	p, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(p.Domains) != 3 {
		t.Errorf("defaults not returned: %+v", p.Domains)
	}
}

func TestLoadProfile_PartialFileKeepsDefaultSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "weights:\n  relevance: 0.7\n  uniqueness: 0.1\n  completeness: 0.1\n  length: 0.1\n  persona: 0.5\n  job: 0.5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("fixture: %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if p.Weights.Relevance != 0.7 || p.Weights.Persona != 0.5 {
		t.Errorf("overridden weights not applied: %+v", p.Weights)
	}
	if len(p.Domains) != 3 || len(p.Topics) != 3 {
		t.Errorf("omitted sections should fall back to defaults")
	}
}

func TestLoadProfile_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- broken"), 0o644); err != nil {
		t.Fatalf("fixture: %v", err)
	}

	if _, err := LoadProfile(path); err == nil {
		t.Fatalf("expected error for malformed YAML")
	}
}
