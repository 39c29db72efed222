// Package pipeline runs the four-stage analysis: segmentation, relevance
// scoring, importance ranking, and subsection refinement. Execution is
// single-threaded and strictly ordered; every stage consumes immutable
// inputs and produces new values. Failures are handled by skipping the
// offending unit and continuing, and the top-level boundary converts any
// unexpected panic into a structured error result.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/docsieve/docsieve/internal/config"
	"github.com/docsieve/docsieve/internal/model"
	"github.com/docsieve/docsieve/internal/rank"
	"github.com/docsieve/docsieve/internal/refine"
	"github.com/docsieve/docsieve/internal/relevance"
	"github.com/docsieve/docsieve/internal/request"
	"github.com/docsieve/docsieve/internal/segment"
)

// Loader ingests one named document from the collection.
type Loader interface {
	Load(filename, title string) (model.Document, error)
}

// Result is the pipeline's terminal value. Expected degradation (no
// processable documents, no extractable sections) is reported through the
// error variant, never as a Go error or a panic.
type Result struct {
	Sections    []model.Section
	Subsections []model.Subsection
	Err         string // empty on success
}

// Failed reports whether this is the error variant.
func (r Result) Failed() bool { return r.Err != "" }

// Analyzer wires the pipeline components together.
type Analyzer struct {
	cfg       config.Config
	segmenter *segment.Segmenter
	ranker    *rank.Ranker
	refiner   *refine.Refiner
	log       *slog.Logger
}

func New(cfg config.Config, profile config.Profile, scorer relevance.Scorer, log *slog.Logger) *Analyzer {
	return &Analyzer{
		cfg:       cfg,
		segmenter: segment.New(profile.Topics),
		ranker:    rank.New(scorer, profile.Weights, profile.ContentClasses),
		refiner:   refine.New(),
		log:       log,
	}
}

// Run ingests the named documents and analyzes them. Documents that fail
// to ingest or yield no text are dropped; once the time or memory budget
// trips, remaining documents are skipped but everything already ingested
// still flows through ranking and refinement.
func (a *Analyzer) Run(loader Loader, refs []request.DocumentRef, persona model.PersonaProfile, job model.JobProfile) Result {
	budget := NewBudget(a.cfg.MaxProcessingTime, a.cfg.MaxMemoryMB)

	var docs []model.Document
	for _, ref := range refs {
		if budget.TimeExceeded() {
			a.log.Warn("time budget reached, skipping remaining documents", "elapsed", budget.Elapsed())
			break
		}

		doc, err := loader.Load(ref.Filename, ref.Title)
		if err != nil {
			a.log.Warn("dropping document", "filename", ref.Filename, "error", err)
			continue
		}
		if doc.Content == "" {
			a.log.Warn("no content extracted, dropping document", "filename", ref.Filename)
			continue
		}
		docs = append(docs, doc)

		if budget.MemoryExceeded() {
			a.log.Warn("memory budget reached, skipping remaining documents")
			break
		}
	}

	return a.analyze(docs, persona, job, budget)
}

// Analyze runs the core pipeline over already-ingested documents.
func (a *Analyzer) Analyze(docs []model.Document, persona model.PersonaProfile, job model.JobProfile) Result {
	return a.analyze(docs, persona, job, NewBudget(a.cfg.MaxProcessingTime, a.cfg.MaxMemoryMB))
}

func (a *Analyzer) analyze(docs []model.Document, persona model.PersonaProfile, job model.JobProfile, budget *Budget) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Error("analysis pipeline failed", "panic", rec)
			res = Result{Err: fmt.Sprintf("analysis pipeline failed: %v", rec)}
		}
	}()

	var processable []model.Document
	for _, doc := range docs {
		if doc.Content != "" {
			processable = append(processable, doc)
		}
	}
	if len(processable) == 0 {
		return Result{Err: "no processable documents"}
	}

	// Stage 1: segmentation, per-document recovery, per-document cap.
	var sections []model.Section
	for _, doc := range processable {
		if budget.TimeExceeded() {
			a.log.Warn("time budget reached during segmentation", "document", doc.Filename)
			break
		}

		docSections := a.segmentSafe(doc)
		if len(docSections) > a.cfg.MaxSectionsPerDocument {
			docSections = docSections[:a.cfg.MaxSectionsPerDocument]
		}
		sections = append(sections, docSections...)
		a.log.Info("segmented document", "document", doc.Filename, "sections", len(docSections))

		if budget.MemoryExceeded() {
			a.log.Warn("memory budget reached during segmentation", "document", doc.Filename)
			break
		}
	}
	if len(sections) == 0 {
		return Result{Err: "no content sections could be extracted"}
	}

	// Stage 2+3: scoring and ranking, with a degraded first-N fallback.
	top := a.rankSafe(sections, persona, job)
	a.log.Info("ranked sections", "total", len(sections), "selected", len(top))

	// Stage 4: refinement over the top sections only.
	var subsections []model.Subsection
	refineLimit := a.cfg.MaxRefineSections
	if refineLimit > len(top) {
		refineLimit = len(top)
	}
	for _, sec := range top[:refineLimit] {
		subs := a.refineSafe(sec)
		subsections = append(subsections, subs...)
		if len(subsections) >= a.cfg.MaxSubsections {
			break
		}
	}
	if len(subsections) > a.cfg.MaxSubsections {
		subsections = subsections[:a.cfg.MaxSubsections]
	}
	a.log.Info("refined subsections", "count", len(subsections), "elapsed", budget.Elapsed())

	return Result{Sections: top, Subsections: subsections}
}

// segmentSafe isolates a per-document segmentation failure.
func (a *Analyzer) segmentSafe(doc model.Document) (sections []model.Section) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Warn("segmentation failed, skipping document", "document", doc.Filename, "panic", rec)
			sections = nil
		}
	}()
	return a.segmenter.Segment(doc)
}

// rankSafe ranks and diversity-reselects sections; a ranking failure
// degrades to the first unranked sections instead of aborting.
func (a *Analyzer) rankSafe(sections []model.Section, persona model.PersonaProfile, job model.JobProfile) (top []model.Section) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Warn("ranking failed, falling back to first sections", "panic", rec)
			n := a.cfg.MaxSectionsPerDocument
			if n > len(sections) {
				n = len(sections)
			}
			top = make([]model.Section, n)
			copy(top, sections[:n])
			for i := range top {
				top[i].ImportanceRank = i + 1
			}
		}
	}()

	ranked := a.ranker.Rank(sections, persona, job)
	return a.ranker.Reselect(ranked, a.cfg.MaxSelectedSections)
}

// refineSafe isolates a per-section refinement failure.
func (a *Analyzer) refineSafe(sec model.Section) (subs []model.Subsection) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Warn("refinement failed, skipping section", "section", sec.Title, "panic", rec)
			subs = nil
		}
	}()
	return a.refiner.Refine(sec)
}
