// Package output assembles the final result envelope: metadata, extracted
// sections, and subsection analysis, serialized as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/docsieve/docsieve/internal/model"
	"github.com/docsieve/docsieve/internal/request"
)

// timestampLayout matches ISO-8601 with microsecond precision.
const timestampLayout = "2006-01-02T15:04:05.000000"

// Envelope is the complete output document.
type Envelope struct {
	Metadata           Metadata            `json:"metadata"`
	ExtractedSections  []ExtractedSection  `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionDetail  `json:"subsection_analysis"`
}

type Metadata struct {
	InputDocuments      []request.DocumentRef `json:"input_documents"`
	Persona             request.Persona       `json:"persona"`
	JobToBeDone         request.Job           `json:"job_to_be_done"`
	ProcessingTimestamp string                `json:"processing_timestamp"`
	Error               string                `json:"error,omitempty"`
}

type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

type SubsectionDetail struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// Build assembles the success envelope from ranked sections and refined
// subsections.
func Build(payload request.Payload, sections []model.Section, subsections []model.Subsection, now time.Time) Envelope {
	env := Envelope{
		Metadata:           metadata(payload, now, ""),
		ExtractedSections:  make([]ExtractedSection, 0, len(sections)),
		SubsectionAnalysis: make([]SubsectionDetail, 0, len(subsections)),
	}

	for _, sec := range sections {
		env.ExtractedSections = append(env.ExtractedSections, ExtractedSection{
			Document:       sec.Document,
			SectionTitle:   sec.Title,
			ImportanceRank: sec.ImportanceRank,
			PageNumber:     sec.PageNumber,
		})
	}
	for _, sub := range subsections {
		env.SubsectionAnalysis = append(env.SubsectionAnalysis, SubsectionDetail{
			Document:    sub.Document,
			RefinedText: sub.RefinedText,
			PageNumber:  sub.PageNumber,
		})
	}

	return env
}

// BuildError assembles the error envelope: empty result arrays plus the
// message inside metadata.
func BuildError(payload request.Payload, message string, now time.Time) Envelope {
	return Envelope{
		Metadata:           metadata(payload, now, message),
		ExtractedSections:  []ExtractedSection{},
		SubsectionAnalysis: []SubsectionDetail{},
	}
}

func metadata(payload request.Payload, now time.Time, errMsg string) Metadata {
	docs := payload.Documents
	if docs == nil {
		docs = []request.DocumentRef{}
	}
	return Metadata{
		InputDocuments:      docs,
		Persona:             payload.Persona,
		JobToBeDone:         payload.JobToBeDone,
		ProcessingTimestamp: now.Format(timestampLayout),
		Error:               errMsg,
	}
}

// Validate checks the envelope satisfies the output contract.
func Validate(env Envelope) bool {
	if env.Metadata.ProcessingTimestamp == "" {
		return false
	}
	if env.ExtractedSections == nil || env.SubsectionAnalysis == nil {
		return false
	}
	for _, sec := range env.ExtractedSections {
		if sec.Document == "" || sec.SectionTitle == "" || sec.ImportanceRank < 1 {
			return false
		}
	}
	for _, sub := range env.SubsectionAnalysis {
		if sub.Document == "" || sub.RefinedText == "" {
			return false
		}
	}
	return true
}

// Write persists the envelope as indented JSON.
func Write(path string, env Envelope) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
