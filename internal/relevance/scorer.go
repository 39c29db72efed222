// Package relevance scores text spans against a persona and a
// job-to-be-done. Two interchangeable strategies satisfy the Scorer
// contract: a deterministic keyword scorer that is always available, and a
// semantic scorer that additionally blends embedding similarity when a
// backend is reachable. The semantic scorer fails soft: a backend error
// contributes zero to that call and never aborts the pipeline.
package relevance

import (
	"log/slog"

	"github.com/docsieve/docsieve/internal/config"
	"github.com/docsieve/docsieve/internal/model"
)

// Scorer computes the persona/job relevance of a text span in [0,1].
type Scorer interface {
	Score(content string, persona model.PersonaProfile, job model.JobProfile) float64
}

// NewScorer selects a scoring strategy once at construction time. With a
// nil backend the keyword scorer is used; otherwise embedding similarity
// augments the keyword signals.
func NewScorer(profile config.Profile, backend Embedder, log *slog.Logger) Scorer {
	kw := NewKeywordScorer(profile)
	if backend == nil {
		return kw
	}
	return &SemanticScorer{keyword: kw, backend: backend, log: log}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
