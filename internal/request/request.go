// Package request decodes and validates the analysis request payload and
// derives the persona and job profiles the core pipeline consumes.
package request

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/docsieve/docsieve/internal/model"
)

// Payload is the raw analysis request.
type Payload struct {
	ChallengeInfo ChallengeInfo `json:"challenge_info"`
	Documents     []DocumentRef `json:"documents"`
	Persona       Persona       `json:"persona"`
	JobToBeDone   Job           `json:"job_to_be_done"`
}

type ChallengeInfo struct {
	ChallengeID  string `json:"challenge_id"`
	TestCaseName string `json:"test_case_name"`
	Description  string `json:"description"`
}

// DocumentRef names one document in the collection.
type DocumentRef struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
}

type Persona struct {
	Role           string   `json:"role"`
	ExpertiseAreas []string `json:"expertise_areas,omitempty"`
}

type Job struct {
	Task            string   `json:"task"`
	SuccessCriteria []string `json:"success_criteria,omitempty"`
}

// Decode reads a Payload from JSON.
func Decode(r io.Reader) (Payload, error) {
	var p Payload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("decode request: %w", err)
	}
	return p, nil
}

// Validate checks the payload shape and required fields, returning one
// message per problem. An empty slice means the payload is valid.
func Validate(p Payload) []string {
	var errs []string

	if p.ChallengeInfo.ChallengeID == "" {
		errs = append(errs, "missing required field in challenge_info: challenge_id")
	}
	if p.ChallengeInfo.TestCaseName == "" {
		errs = append(errs, "missing required field in challenge_info: test_case_name")
	}

	if len(p.Documents) == 0 {
		errs = append(errs, "documents must be a non-empty array")
	}
	for i, doc := range p.Documents {
		if doc.Filename == "" {
			errs = append(errs, fmt.Sprintf("missing required field in document %d: filename", i))
		}
		if doc.Title == "" {
			errs = append(errs, fmt.Sprintf("missing required field in document %d: title", i))
		}
	}

	if p.Persona.Role == "" {
		errs = append(errs, "missing required field in persona: role")
	}
	if p.JobToBeDone.Task == "" {
		errs = append(errs, "missing required field in job_to_be_done: task")
	}

	return errs
}

// focusVocabulary lists the role keywords that become persona focus
// keywords when they appear in the role description.
var focusVocabulary = []string{
	// Travel
	"travel", "trip", "vacation", "tourism", "destination", "hotel", "restaurant", "activity",
	// HR
	"hr", "human resources", "form", "document", "employee", "management", "workflow",
	// Culinary
	"chef", "cooking", "recipe", "menu", "food", "catering", "kitchen", "culinary",
}

// requirementCues maps task-text cues to requirement tags, in a fixed
// order so derived tags are deterministic.
var requirementCues = []struct {
	cue string
	tag string
}{
	{"plan", "planning"},
	{"group", "group coordination"},
	{"manage", "management"},
	{"create", "creation"},
	{"organize", "organization"},
}

// ExtractPersona builds the persona profile, deriving focus keywords from
// the role description.
func ExtractPersona(p Persona) model.PersonaProfile {
	roleLower := strings.ToLower(p.Role)

	var keywords []string
	for _, kw := range focusVocabulary {
		if strings.Contains(roleLower, kw) {
			keywords = append(keywords, kw)
		}
	}

	return model.PersonaProfile{
		Role:           p.Role,
		ExpertiseAreas: p.ExpertiseAreas,
		FocusKeywords:  keywords,
	}
}

// ExtractJob builds the job profile, deriving requirement tags from the
// task description.
func ExtractJob(j Job) model.JobProfile {
	taskLower := strings.ToLower(j.Task)

	var requirements []string
	for _, rc := range requirementCues {
		if strings.Contains(taskLower, rc.cue) {
			requirements = append(requirements, rc.tag)
		}
	}

	return model.JobProfile{
		Task:            j.Task,
		Requirements:    requirements,
		SuccessCriteria: j.SuccessCriteria,
	}
}
