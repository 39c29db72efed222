package relevance

import (
	"strings"

	"github.com/docsieve/docsieve/internal/config"
	"github.com/docsieve/docsieve/internal/model"
)

// Tier weights for domain vocabulary hits.
const (
	tierHighWeight   = 3.0
	tierMediumWeight = 2.0
	tierLowWeight    = 1.0
)

// Keyword-only blend weights (used when no embedding backend is present).
const (
	kwDomainWeight    = 0.5
	kwRoleWeight      = 0.3
	kwExpertiseWeight = 0.2
	kwTaskWeight      = 0.7
	kwRequirementWeight = 0.3
)

// KeywordScorer is the always-available, deterministic scoring strategy
// built on term frequency against fixed vocabularies.
type KeywordScorer struct {
	profile config.Profile
}

func NewKeywordScorer(profile config.Profile) *KeywordScorer {
	return &KeywordScorer{profile: profile}
}

// Score combines persona and job relevance with the configured blend.
func (s *KeywordScorer) Score(content string, persona model.PersonaProfile, job model.JobProfile) float64 {
	p := s.personaRelevance(content, persona)
	j := s.jobRelevance(content, job)
	return clamp01(p*s.profile.Weights.Persona + j*s.profile.Weights.Job)
}

func (s *KeywordScorer) personaRelevance(content string, persona model.PersonaProfile) float64 {
	lower := strings.ToLower(content)
	role := strings.ToLower(persona.Role)

	domain := s.identifyDomain(role)
	total := s.domainScore(lower, domain)*kwDomainWeight +
		s.roleScore(lower, role)*kwRoleWeight +
		s.expertiseScore(lower, persona.ExpertiseAreas)*kwExpertiseWeight

	return clamp01(total)
}

func (s *KeywordScorer) jobRelevance(content string, job model.JobProfile) float64 {
	lower := strings.ToLower(content)
	task := strings.ToLower(job.Task)

	total := s.taskScore(lower, task)*kwTaskWeight +
		s.requirementScore(lower, job.Requirements)*kwRequirementWeight

	return clamp01(total)
}

// identifyDomain resolves the persona's primary domain by substring
// matching the role text against the cue lists, in declaration order.
func (s *KeywordScorer) identifyDomain(role string) string {
	for _, cue := range s.profile.DomainCues {
		for _, kw := range cue.Keywords {
			if strings.Contains(role, kw) {
				return cue.Name
			}
		}
	}
	return "general"
}

// domainScore sums tier-weighted keyword hit frequencies, scaled x10.
func (s *KeywordScorer) domainScore(content, domain string) float64 {
	tier, ok := s.profile.Domains[domain]
	if !ok {
		return 0
	}
	totalWords := len(strings.Fields(content))
	if totalWords == 0 {
		return 0
	}

	var score float64
	for _, set := range []struct {
		weight   float64
		keywords []string
	}{
		{tierHighWeight, tier.High},
		{tierMediumWeight, tier.Medium},
		{tierLowWeight, tier.Low},
	} {
		for _, kw := range set.keywords {
			count := strings.Count(content, kw)
			score += float64(count) / float64(totalWords) * set.weight
		}
	}

	return clamp01(score * 10)
}

// roleScore counts occurrences of role words longer than 3 characters,
// normalized by content word count and scaled x50.
func (s *KeywordScorer) roleScore(content, role string) float64 {
	contentWords := len(strings.Fields(content))
	if contentWords == 0 {
		return 0
	}

	matches := 0
	for _, w := range strings.Fields(role) {
		if len(w) > 3 {
			matches += strings.Count(content, strings.ToLower(w))
		}
	}

	return clamp01(float64(matches) / float64(contentWords) * 50)
}

// expertiseScore counts occurrences of expertise-area words, scaled x20.
func (s *KeywordScorer) expertiseScore(content string, areas []string) float64 {
	if len(areas) == 0 {
		return 0
	}
	contentWords := len(strings.Fields(content))
	if contentWords == 0 {
		return 0
	}

	matches := 0
	for _, area := range areas {
		for _, w := range strings.Fields(strings.ToLower(area)) {
			if len(w) > 3 {
				matches += strings.Count(content, w)
			}
		}
	}

	return clamp01(float64(matches) / float64(contentWords) * 20)
}

// taskScore counts occurrences of task words longer than 3 characters,
// scaled x30.
func (s *KeywordScorer) taskScore(content, task string) float64 {
	var taskWords []string
	for _, w := range strings.Fields(task) {
		if len(w) > 3 {
			taskWords = append(taskWords, strings.ToLower(w))
		}
	}
	if len(taskWords) == 0 {
		return 0
	}
	contentWords := len(strings.Fields(content))
	if contentWords == 0 {
		return 0
	}

	matches := 0
	for _, w := range taskWords {
		matches += strings.Count(content, w)
	}

	return clamp01(float64(matches) / float64(contentWords) * 30)
}

// requirementScore counts hits for each requirement tag found in the
// tag-to-keyword table, scaled x25. Tags absent from the table contribute
// nothing.
func (s *KeywordScorer) requirementScore(content string, requirements []string) float64 {
	if len(requirements) == 0 {
		return 0
	}
	contentWords := len(strings.Fields(content))
	if contentWords == 0 {
		return 0
	}

	matches := 0
	for _, req := range requirements {
		for _, kw := range s.profile.Requirements[req] {
			matches += strings.Count(content, kw)
		}
	}

	return clamp01(float64(matches) / float64(contentWords) * 25)
}
