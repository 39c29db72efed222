package relevance

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/docsieve/docsieve/internal/config"
	"github.com/docsieve/docsieve/internal/model"
)

// stubEmbedder returns a fixed vector per known text and errors otherwise.
type stubEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (s *stubEmbedder) Embed(text string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	return []float64{0, 1}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewScorer_SelectsStrategyByBackend(t *testing.T) {
	profile := config.DefaultProfile()

	if _, ok := NewScorer(profile, nil, discardLogger()).(*KeywordScorer); !ok {
		t.Errorf("expected keyword scorer without a backend")
	}
	if _, ok := NewScorer(profile, &stubEmbedder{}, discardLogger()).(*SemanticScorer); !ok {
		t.Errorf("expected semantic scorer with a backend")
	}
}

func TestSemanticScorer_SimilarityRaisesScore(t *testing.T) {
	profile := config.DefaultProfile()
	content := "This sentence describes the finer points of the subject matter at hand."
	role := "travel planner"
	task := "plan a trip"

	aligned := &stubEmbedder{vectors: map[string][]float64{
		"This sentence describes the finer points of the subject matter at hand": {1, 0},
		role: {1, 0},
		task: {1, 0},
	}}
	orthogonal := &stubEmbedder{vectors: map[string][]float64{
		"This sentence describes the finer points of the subject matter at hand": {1, 0},
		role: {0, 1},
		task: {0, 1},
	}}

	persona := model.PersonaProfile{Role: role}
	job := model.JobProfile{Task: task}

	high := NewScorer(profile, aligned, discardLogger()).Score(content, persona, job)
	low := NewScorer(profile, orthogonal, discardLogger()).Score(content, persona, job)

	if high <= low {
		t.Errorf("aligned embeddings scored %f, orthogonal %f; want aligned higher", high, low)
	}
}

func TestSemanticScorer_BackendErrorFallsBackToKeywordSignals(t *testing.T) {
	profile := config.DefaultProfile()
	persona := model.PersonaProfile{Role: "chef"}
	job := model.JobProfile{Task: "design a tasting menu"}
	content := "The chef prepared a seasonal menu with fresh ingredients for every dish."

	broken := &stubEmbedder{err: errors.New("connection refused")}
	got := NewScorer(profile, broken, discardLogger()).Score(content, persona, job)

	if got < 0 || got > 1 {
		t.Fatalf("score out of range on backend failure: %f", got)
	}
	// Keyword signals alone should still register the culinary terms.
	if got == 0 {
		t.Errorf("expected keyword signals to survive a backend failure")
	}
}

func TestSimilaritySentences(t *testing.T) {
	content := "Tiny. " +
		"This first sentence is long enough to count. " +
		"So is this second sentence, without question. " +
		"Third sentence also passes the length check. " +
		"Fourth sentence also passes the length check. " +
		"Fifth sentence also passes the length check. " +
		"Sixth sentence would exceed the per-span cap."

	got := similaritySentences(content)
	if len(got) != maxSimilaritySentences {
		t.Fatalf("expected %d sentences, got %d", maxSimilaritySentences, len(got))
	}
	if got[0] != "This first sentence is long enough to count" {
		t.Errorf("short fragments should be skipped, got first = %q", got[0])
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
	}
	for _, tt := range tests {
		if got := cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: cosine = %f, want %f", tt.name, got, tt.want)
		}
	}
}
