package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/docsieve/docsieve/internal/config"
	"github.com/docsieve/docsieve/internal/model"
	"github.com/docsieve/docsieve/internal/relevance"
	"github.com/docsieve/docsieve/internal/request"
)

// fakeLoader serves documents from a map and records load attempts.
type fakeLoader struct {
	docs  map[string]model.Document
	calls []string
}

func (f *fakeLoader) Load(filename, title string) (model.Document, error) {
	f.calls = append(f.calls, filename)
	doc, ok := f.docs[filename]
	if !ok {
		return model.Document{}, errors.New("open: no such file")
	}
	return doc, nil
}

func testConfig() config.Config {
	return config.Config{
		MaxProcessingTime:      time.Minute,
		MaxMemoryMB:            1024,
		MaxPagesPerDocument:    50,
		MaxSectionsPerDocument: 10,
		MaxSelectedSections:    15,
		MaxRefineSections:      8,
		MaxSubsections:         15,
	}
}

func newTestAnalyzer(cfg config.Config) *Analyzer {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	profile := config.DefaultProfile()
	return New(cfg, profile, relevance.NewScorer(profile, nil, log), log)
}

func travelDoc(filename string) model.Document {
	return model.Document{
		Filename: filename,
		Content: "ACCOMMODATION\n" +
			"The hotel sits near the beach and the old city center. Rooms overlook the " +
			"harbor and breakfast is served on the terrace from 7 to 10 every morning.\n\n" +
			"TRANSPORTATION\n" +
			"The metro connects the airport to the city in 25 minutes. Buy a 3 day pass " +
			"at the station and validate it before boarding each train or bus.",
		Pages: []model.Page{{Number: 1, Text: "x"}},
	}
}

func travelPersona() model.PersonaProfile {
	return model.PersonaProfile{Role: "travel planner", FocusKeywords: []string{"hotel"}}
}

func travelJob() model.JobProfile {
	return model.JobProfile{Task: "plan a city trip", Requirements: []string{"planning"}}
}

func TestRun_ProducesRankedSectionsAndSubsections(t *testing.T) {
	loader := &fakeLoader{docs: map[string]model.Document{
		"guide.pdf": travelDoc("guide.pdf"),
	}}
	refs := []request.DocumentRef{{Filename: "guide.pdf", Title: "Guide"}}

	result := newTestAnalyzer(testConfig()).Run(loader, refs, travelPersona(), travelJob())

	if result.Failed() {
		t.Fatalf("unexpected failure: %s", result.Err)
	}
	if len(result.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(result.Sections))
	}
	for i, sec := range result.Sections {
		if sec.ImportanceRank != i+1 {
			t.Errorf("section %d: rank %d, want %d", i, sec.ImportanceRank, i+1)
		}
		if sec.Document != "guide.pdf" {
			t.Errorf("section %d: document %q", i, sec.Document)
		}
	}
	if len(result.Subsections) == 0 {
		t.Fatalf("expected refined subsections")
	}
	for _, sub := range result.Subsections {
		if sub.RefinedText == "" {
			t.Errorf("empty refined text in %+v", sub)
		}
	}
}

func TestRun_DropsUnreadableDocumentsAndContinues(t *testing.T) {
	loader := &fakeLoader{docs: map[string]model.Document{
		"good.pdf": travelDoc("good.pdf"),
	}}
	refs := []request.DocumentRef{
		{Filename: "missing.pdf", Title: "Missing"},
		{Filename: "good.pdf", Title: "Good"},
	}

	result := newTestAnalyzer(testConfig()).Run(loader, refs, travelPersona(), travelJob())

	if result.Failed() {
		t.Fatalf("unexpected failure: %s", result.Err)
	}
	if len(loader.calls) != 2 {
		t.Errorf("expected both documents attempted, got %v", loader.calls)
	}
	for _, sec := range result.Sections {
		if sec.Document != "good.pdf" {
			t.Errorf("section from dropped document: %+v", sec)
		}
	}
}

func TestRun_AllDocumentsUnreadable(t *testing.T) {
	loader := &fakeLoader{}
	refs := []request.DocumentRef{{Filename: "a.pdf"}, {Filename: "b.pdf"}}

	result := newTestAnalyzer(testConfig()).Run(loader, refs, travelPersona(), travelJob())

	if !result.Failed() || result.Err != "no processable documents" {
		t.Fatalf("expected no-processable-documents error, got %+v", result)
	}
}

func TestRun_ExhaustedTimeBudgetSkipsIngestion(t *testing.T) {
	cfg := testConfig()
	cfg.MaxProcessingTime = time.Nanosecond

	loader := &fakeLoader{docs: map[string]model.Document{
		"guide.pdf": travelDoc("guide.pdf"),
	}}
	refs := []request.DocumentRef{{Filename: "guide.pdf"}}

	result := newTestAnalyzer(cfg).Run(loader, refs, travelPersona(), travelJob())

	if !result.Failed() {
		t.Fatalf("expected failure when the budget is exhausted before ingestion")
	}
	if len(loader.calls) != 0 {
		t.Errorf("documents loaded despite exhausted budget: %v", loader.calls)
	}
}

func TestAnalyze_BlankDocumentsYieldNoSections(t *testing.T) {
	docs := []model.Document{{Filename: "blank.txt", Content: "   \n "}}

	result := newTestAnalyzer(testConfig()).Analyze(docs, travelPersona(), travelJob())

	if !result.Failed() || result.Err != "no content sections could be extracted" {
		t.Fatalf("expected no-sections error, got %+v", result)
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	result := newTestAnalyzer(testConfig()).Analyze(nil, travelPersona(), travelJob())
	if !result.Failed() || result.Err != "no processable documents" {
		t.Fatalf("expected no-processable-documents error, got %+v", result)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	docs := []model.Document{travelDoc("a.pdf"), travelDoc("b.pdf")}
	analyzer := newTestAnalyzer(testConfig())

	first := analyzer.Analyze(docs, travelPersona(), travelJob())
	second := analyzer.Analyze(docs, travelPersona(), travelJob())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs over identical input disagree:\n%+v\n%+v", first, second)
	}
}

func TestAnalyze_HonorsSectionCaps(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSectionsPerDocument = 3
	cfg.MaxSelectedSections = 4
	cfg.MaxRefineSections = 2
	cfg.MaxSubsections = 3

	var b strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "SECTION HEADER %s\n", strings.Repeat("A", i+1))
		fmt.Fprintf(&b, "The hotel and restaurant options near this destination are described "+
			"here in enough detail to refine, including tour schedules and local transportation notes.\n\n")
	}
	docs := []model.Document{{Filename: "big.txt", Content: b.String()}}

	result := newTestAnalyzer(cfg).Analyze(docs, travelPersona(), travelJob())

	if result.Failed() {
		t.Fatalf("unexpected failure: %s", result.Err)
	}
	if len(result.Sections) > cfg.MaxSelectedSections {
		t.Errorf("selected %d sections, cap is %d", len(result.Sections), cfg.MaxSelectedSections)
	}
	if len(result.Subsections) > cfg.MaxSubsections {
		t.Errorf("emitted %d subsections, cap is %d", len(result.Subsections), cfg.MaxSubsections)
	}
	for i, sec := range result.Sections {
		if sec.ImportanceRank != i+1 {
			t.Errorf("rank not renumbered after reselection: %+v", sec)
		}
	}
}

func TestBudget_ZeroMaximaNeverTrip(t *testing.T) {
	b := NewBudget(0, 0)
	if b.TimeExceeded() {
		t.Errorf("zero duration budget should never trip")
	}
	if b.MemoryExceeded() {
		t.Errorf("zero memory budget should never trip")
	}
}
