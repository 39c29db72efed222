package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ScoreWeights are the weighting constants used by the ranker (relevance,
// uniqueness, completeness, length) and the persona/job blend applied by
// the relevance scorer.
type ScoreWeights struct {
	Relevance    float64 `yaml:"relevance"`
	Uniqueness   float64 `yaml:"uniqueness"`
	Completeness float64 `yaml:"completeness"`
	Length       float64 `yaml:"length"`
	Persona      float64 `yaml:"persona"`
	Job          float64 `yaml:"job"`
}

// Tier holds the high/medium/low keyword tiers of one domain vocabulary,
// weighted 3/2/1 during scoring.
type Tier struct {
	High   []string `yaml:"high"`
	Medium []string `yaml:"medium"`
	Low    []string `yaml:"low"`
}

// KeywordGroup is a named, ordered keyword list. Groups are always kept in
// slices rather than maps so that scoring and classification stay
// deterministic across runs.
type KeywordGroup struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Profile bundles all tunable scoring data: weights, domain vocabularies,
// requirement-tag keywords, segmentation topics and diversity classes.
type Profile struct {
	Weights        ScoreWeights        `yaml:"weights"`
	Domains        map[string]Tier     `yaml:"domains"`
	DomainCues     []KeywordGroup      `yaml:"domain_cues"`
	Requirements   map[string][]string `yaml:"requirement_keywords"`
	Topics         []KeywordGroup      `yaml:"topics"`
	ContentClasses []KeywordGroup      `yaml:"content_classes"`
}

// DefaultProfile returns the built-in scoring profile.
func DefaultProfile() Profile {
	return Profile{
		Weights: ScoreWeights{
			Relevance:    0.5,
			Uniqueness:   0.2,
			Completeness: 0.2,
			Length:       0.1,
			Persona:      0.6,
			Job:          0.4,
		},
		Domains: map[string]Tier{
			"travel": {
				High:   []string{"destination", "hotel", "restaurant", "activity", "beach", "city", "tour", "accommodation"},
				Medium: []string{"travel", "trip", "vacation", "visit", "location", "transportation", "guide"},
				Low:    []string{"place", "area", "time", "day", "experience", "local"},
			},
			"hr": {
				High:   []string{"form", "employee", "document", "workflow", "signature", "field", "fillable"},
				Medium: []string{"hr", "human resources", "policy", "procedure", "management", "corporate"},
				Low:    []string{"staff", "personnel", "organization", "company", "business"},
			},
			"culinary": {
				High:   []string{"recipe", "ingredient", "cooking", "chef", "menu", "food", "kitchen", "dietary"},
				Medium: []string{"preparation", "cuisine", "dish", "meal", "catering", "restaurant"},
				Low:    []string{"taste", "flavor", "eating", "dining", "service"},
			},
		},
		DomainCues: []KeywordGroup{
			{Name: "travel", Keywords: []string{"travel", "trip", "vacation", "tour"}},
			{Name: "hr", Keywords: []string{"hr", "human resources", "employee", "form"}},
			{Name: "culinary", Keywords: []string{"chef", "cook", "culinary", "kitchen", "food"}},
		},
		Requirements: map[string][]string{
			"planning":   {"plan", "organize", "schedule", "coordinate", "arrange"},
			"management": {"manage", "oversee", "supervise", "control", "handle"},
			"creation":   {"create", "develop", "design", "build", "generate"},
			"analysis":   {"analyze", "evaluate", "assess", "review", "examine"},
		},
		Topics: []KeywordGroup{
			{Name: "Travel", Keywords: []string{"destination", "hotel", "restaurant", "activity", "transportation", "itinerary"}},
			{Name: "Hr", Keywords: []string{"employee", "form", "policy", "procedure", "workflow", "document"}},
			{Name: "Culinary", Keywords: []string{"recipe", "ingredient", "preparation", "cooking", "menu", "dietary"}},
		},
		ContentClasses: []KeywordGroup{
			{Name: "procedural", Keywords: []string{"step", "process", "procedure", "how to", "method"}},
			{Name: "descriptive", Keywords: []string{"description", "feature", "characteristic", "overview"}},
			{Name: "informational", Keywords: []string{"information", "data", "fact", "detail", "specification"}},
		},
	}
}

// LoadProfile reads a scoring profile from path, filling any section the
// file omits from the defaults. An empty path or a missing file yields the
// defaults unchanged.
func LoadProfile(path string) (Profile, error) {
	def := DefaultProfile()
	if path == "" {
		return def, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return def, nil
		}
		return Profile{}, err
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, err
	}
	applyProfileDefaults(&p, def)
	return p, nil
}

func applyProfileDefaults(p *Profile, def Profile) {
	zero := ScoreWeights{}
	if p.Weights == zero {
		p.Weights = def.Weights
	}
	if len(p.Domains) == 0 {
		p.Domains = def.Domains
	}
	if len(p.DomainCues) == 0 {
		p.DomainCues = def.DomainCues
	}
	if len(p.Requirements) == 0 {
		p.Requirements = def.Requirements
	}
	if len(p.Topics) == 0 {
		p.Topics = def.Topics
	}
	if len(p.ContentClasses) == 0 {
		p.ContentClasses = def.ContentClasses
	}
}
