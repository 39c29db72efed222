package relevance

import (
	"log/slog"
	"math"
	"strings"

	"github.com/docsieve/docsieve/internal/model"
)

// Semantic blend weights. When embedding similarity is available it takes
// the lead and the keyword signals are down-weighted.
const (
	semPersonaWeight     = 0.4
	semDomainWeight      = 0.3
	semRoleWeight        = 0.2
	semExpertiseWeight   = 0.1
	semJobWeight         = 0.5
	semTaskWeight        = 0.3
	semRequirementWeight = 0.2
)

// maxSimilaritySentences caps how many sentences are embedded per span.
const maxSimilaritySentences = 5

// SemanticScorer augments keyword scoring with embedding similarity
// against the persona role and job task. Backend failures contribute zero
// for that call only.
type SemanticScorer struct {
	keyword *KeywordScorer
	backend Embedder
	log     *slog.Logger
}

func (s *SemanticScorer) Score(content string, persona model.PersonaProfile, job model.JobProfile) float64 {
	p := s.personaRelevance(content, persona)
	j := s.jobRelevance(content, job)
	w := s.keyword.profile.Weights
	return clamp01(p*w.Persona + j*w.Job)
}

func (s *SemanticScorer) personaRelevance(content string, persona model.PersonaProfile) float64 {
	lower := strings.ToLower(content)
	role := strings.ToLower(persona.Role)

	sem := s.similarity(content, persona.Role)
	domain := s.keyword.identifyDomain(role)

	total := sem*semPersonaWeight +
		s.keyword.domainScore(lower, domain)*semDomainWeight +
		s.keyword.roleScore(lower, role)*semRoleWeight +
		s.keyword.expertiseScore(lower, persona.ExpertiseAreas)*semExpertiseWeight

	return clamp01(total)
}

func (s *SemanticScorer) jobRelevance(content string, job model.JobProfile) float64 {
	lower := strings.ToLower(content)
	task := strings.ToLower(job.Task)

	sem := s.similarity(content, job.Task)

	total := sem*semJobWeight +
		s.keyword.taskScore(lower, task)*semTaskWeight +
		s.keyword.requirementScore(lower, job.Requirements)*semRequirementWeight

	return clamp01(total)
}

// similarity embeds up to five content sentences and the reference text,
// returning the maximum cosine similarity. Any backend error yields zero.
func (s *SemanticScorer) similarity(content, reference string) float64 {
	sentences := similaritySentences(content)
	if len(sentences) == 0 {
		return 0
	}

	ref, err := s.backend.Embed(reference)
	if err != nil {
		s.log.Warn("embedding backend error, scoring without similarity", "error", err)
		return 0
	}

	best := 0.0
	for _, sentence := range sentences {
		vec, err := s.backend.Embed(sentence)
		if err != nil {
			s.log.Warn("embedding backend error, skipping sentence", "error", err)
			continue
		}
		if sim := cosine(ref, vec); sim > best {
			best = sim
		}
	}

	return clamp01(best)
}

// similaritySentences returns up to five sentences longer than 20 chars.
func similaritySentences(content string) []string {
	var out []string
	for _, part := range strings.Split(content, ".") {
		part = strings.TrimSpace(part)
		if len(part) > 20 {
			out = append(out, part)
			if len(out) == maxSimilaritySentences {
				break
			}
		}
	}
	return out
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
