package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/docsieve/docsieve/internal/config"
	"github.com/docsieve/docsieve/internal/ingest"
	"github.com/docsieve/docsieve/internal/output"
	"github.com/docsieve/docsieve/internal/pipeline"
	"github.com/docsieve/docsieve/internal/relevance"
	"github.com/docsieve/docsieve/internal/request"
)

func main() {
	_ = godotenv.Load()

	inputPath := flag.String("input", "", "path to the analysis request JSON (required)")
	documentsDir := flag.String("documents", ".", "directory containing the input documents")
	outputPath := flag.String("output", "", "path for the result JSON (stdout when empty)")
	profilePath := flag.String("profile", "", "scoring profile YAML (overrides SCORING_PROFILE)")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: docsieve -input <request.json> [-documents <dir>] [-output <result.json>] [-profile <profile.yaml>]")
		os.Exit(2)
	}

	cfg := config.Load()
	if *profilePath != "" {
		cfg.ProfilePath = *profilePath
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		log.Error("invalid scoring profile", "path", cfg.ProfilePath, "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*inputPath)
	if err != nil {
		emit(*outputPath, output.BuildError(request.Payload{}, fmt.Sprintf("input file not found: %s", *inputPath), time.Now()), log)
		os.Exit(1)
	}
	payload, err := request.Decode(f)
	f.Close()
	if err != nil {
		emit(*outputPath, output.BuildError(request.Payload{}, fmt.Sprintf("invalid JSON in input file: %v", err), time.Now()), log)
		os.Exit(1)
	}

	if errs := request.Validate(payload); len(errs) > 0 {
		msg := "input validation failed: " + errs[0]
		for _, e := range errs[1:] {
			msg += "; " + e
		}
		emit(*outputPath, output.BuildError(payload, msg, time.Now()), log)
		os.Exit(1)
	}

	persona := request.ExtractPersona(payload.Persona)
	job := request.ExtractJob(payload.JobToBeDone)
	log.Info("processing collection",
		"documents", len(payload.Documents), "persona", persona.Role)

	// The embedding backend is a capability: probe it once and fall back
	// to keyword-only scoring when it is unreachable.
	var backend relevance.Embedder
	if cfg.EmbedAPIKey != "" {
		embedder, err := relevance.NewOpenAIEmbedder(relevance.OpenAIConfig{
			BaseURL: cfg.EmbedBaseURL,
			APIKey:  cfg.EmbedAPIKey,
			Model:   cfg.EmbedModel,
			Timeout: cfg.EmbedTimeout,
		})
		if err == nil {
			if err := embedder.Ping(); err != nil {
				log.Warn("embedding backend unavailable, using keyword scoring", "error", err)
			} else {
				backend = embedder
			}
		}
	}

	scorer := relevance.NewScorer(profile, backend, log)
	analyzer := pipeline.New(cfg, profile, scorer, log)
	loader := &ingest.Dir{
		Base:              *documentsDir,
		MaxPages:          cfg.MaxPagesPerDocument,
		FallbackPdftotext: cfg.PDFFallbackPdftotext,
	}

	result := analyzer.Run(loader, payload.Documents, persona, job)

	var env output.Envelope
	if result.Failed() {
		log.Error("analysis did not produce a result", "error", result.Err)
		env = output.BuildError(payload, result.Err, time.Now())
	} else {
		env = output.Build(payload, result.Sections, result.Subsections, time.Now())
		if !output.Validate(env) {
			env = output.BuildError(payload, "generated output format validation failed", time.Now())
		}
	}

	emit(*outputPath, env, log)
	if result.Failed() {
		os.Exit(1)
	}
}

// emit writes the envelope to the output path, or stdout when none is set.
func emit(path string, env output.Envelope, log *slog.Logger) {
	if path == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			log.Error("encode output", "error", err)
		}
		return
	}
	if err := output.Write(path, env); err != nil {
		log.Error("write output", "error", err)
		os.Exit(1)
	}
	log.Info("wrote result", "path", path)
}
