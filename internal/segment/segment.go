// Package segment splits document text into labeled sections. Three
// strategies are tried in priority order: header detection, topic grouping,
// and fixed-size content breaks. The first strategy that yields at least
// one section wins, so any document with non-empty text produces output.
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/docsieve/docsieve/internal/config"
	"github.com/docsieve/docsieve/internal/model"
)

var headerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^#{1,6}\s+(.+)$`),        // Markdown headers
	regexp.MustCompile(`^[A-Z][A-Z\s]+$`),        // ALL CAPS headers
	regexp.MustCompile(`^\d+\.?\s+([A-Z].+)$`),   // Numbered sections
	regexp.MustCompile(`^[A-Z][a-z\s]+:$`),       // Title case with colon
	regexp.MustCompile(`^\*\*(.+)\*\*$`),         // Bold markdown
}

// Short connective words allowed lowercase inside title-case headers.
var titleStopWords = map[string]bool{
	"and": true, "or": true, "the": true, "of": true, "for": true,
	"in": true, "to": true,
}

// Segmenter produces sections from document text.
type Segmenter struct {
	topics []config.KeywordGroup
}

// New creates a Segmenter using the given topic vocabulary for the
// topic-based fallback strategy.
func New(topics []config.KeywordGroup) *Segmenter {
	return &Segmenter{topics: topics}
}

// Segment splits a document into titled sections. It never returns an
// empty list for a document with non-empty text.
func (s *Segmenter) Segment(doc model.Document) []model.Section {
	if strings.TrimSpace(doc.Content) == "" {
		return nil
	}

	sections := s.segmentByHeaders(doc)
	if len(sections) == 0 {
		sections = s.segmentByTopics(doc)
	}
	if len(sections) == 0 {
		sections = s.segmentByContentBreaks(doc)
	}
	return sections
}

// segmentByHeaders scans line by line, closing the current section on each
// detected header. Text before the first header becomes its own section
// when substantial, titled by a truncated copy of itself.
func (s *Segmenter) segmentByHeaders(doc model.Document) []model.Section {
	var sections []model.Section
	var currentTitle string
	var currentBody []string
	sawHeader := false
	sectionStart := 0 // char offset where the current section began
	offset := 0

	flush := func() {
		if currentTitle != "" && len(currentBody) > 0 {
			sections = append(sections, model.Section{
				Document:   doc.Filename,
				Title:      currentTitle,
				Content:    strings.Join(currentBody, "\n"),
				PageNumber: estimatePage(doc, sectionStart),
			})
		}
		currentBody = nil
	}

	for _, raw := range strings.Split(doc.Content, "\n") {
		line := strings.TrimSpace(raw)
		lineStart := offset
		offset += len(raw) + 1
		if line == "" {
			continue
		}

		if header := matchHeader(line); header != "" {
			flush()
			currentTitle = header
			sawHeader = true
			sectionStart = lineStart
			continue
		}

		if currentTitle == "" {
			// Preamble before any header: substantial text opens the first
			// section under a truncated self-title.
			if len(line) > 10 {
				currentTitle = truncate(line, 50)
				sectionStart = lineStart
				currentBody = append(currentBody, line)
			}
			continue
		}
		currentBody = append(currentBody, line)
	}
	flush()

	// Without a single detected header this strategy found nothing; the
	// preamble section only stands when a header follows it.
	if !sawHeader {
		return nil
	}

	return sections
}

// segmentByTopics groups blank-line-delimited paragraphs by detected
// topic, switching topics only on two or more keyword hits.
func (s *Segmenter) segmentByTopics(doc model.Document) []model.Section {
	paragraphs := strings.Split(doc.Content, "\n\n")

	var sections []model.Section
	var body []string
	currentTopic := "General Content"
	counter := 1
	sectionStart := 0
	offset := 0

	for _, para := range paragraphs {
		paraStart := offset
		offset += len(para) + 2
		if len(strings.TrimSpace(para)) <= 50 {
			continue
		}

		topic := s.detectTopic(para)
		if topic != currentTopic && len(body) > 0 {
			sections = append(sections, model.Section{
				Document:   doc.Filename,
				Title:      fmt.Sprintf("%s %d", currentTopic, counter),
				Content:    strings.Join(body, "\n\n"),
				PageNumber: estimatePage(doc, sectionStart),
			})
			body = nil
			counter++
		}
		if len(body) == 0 {
			sectionStart = paraStart
		}
		currentTopic = topic
		body = append(body, para)
	}

	if len(body) > 0 {
		sections = append(sections, model.Section{
			Document:   doc.Filename,
			Title:      fmt.Sprintf("%s %d", currentTopic, counter),
			Content:    strings.Join(body, "\n\n"),
			PageNumber: estimatePage(doc, sectionStart),
		})
	}

	return sections
}

// segmentByContentBreaks partitions paragraphs into contiguous groups of
// ceil(count/5) paragraphs (minimum 3), titling each group from the first
// sentence of its first paragraph.
func (s *Segmenter) segmentByContentBreaks(doc model.Document) []model.Section {
	var paragraphs []string
	for _, p := range strings.Split(doc.Content, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, strings.TrimSpace(p))
		}
	}
	if len(paragraphs) == 0 {
		paragraphs = []string{strings.TrimSpace(doc.Content)}
	}

	groupSize := (len(paragraphs) + 4) / 5
	if groupSize < 3 {
		groupSize = 3
	}

	var sections []model.Section
	for i := 0; i < len(paragraphs); i += groupSize {
		end := i + groupSize
		if end > len(paragraphs) {
			end = len(paragraphs)
		}
		group := paragraphs[i:end]

		sections = append(sections, model.Section{
			Document:   doc.Filename,
			Title:      titleFromParagraph(group[0]),
			Content:    strings.Join(group, "\n\n"),
			PageNumber: estimatePage(doc, i*200),
		})
	}

	return sections
}

// matchHeader reports the header text if the line looks like a header,
// otherwise the empty string.
func matchHeader(line string) string {
	for _, pat := range headerPatterns {
		m := pat.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
		return strings.TrimSpace(m[0])
	}

	if len(line) < 100 && line == strings.ToUpper(line) && strings.ContainsAny(line, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return line
	}
	if len(line) < 80 && strings.Contains(line, ":") && !strings.HasSuffix(line, ".") {
		return line
	}

	// Short title-case line: every word capitalized or a stop word,
	// no terminal period or comma.
	words := strings.Fields(line)
	if len(words) >= 1 && len(words) <= 6 && len(line) <= 80 && len(line) > 5 &&
		!strings.HasSuffix(line, ".") && !strings.HasSuffix(line, ",") {
		allTitle := true
		for _, w := range words {
			r := rune(w[0])
			if r >= 'A' && r <= 'Z' {
				continue
			}
			if titleStopWords[strings.ToLower(w)] {
				continue
			}
			allTitle = false
			break
		}
		if allTitle {
			return line
		}
	}

	return ""
}

func (s *Segmenter) detectTopic(paragraph string) string {
	lower := strings.ToLower(paragraph)
	for _, topic := range s.topics {
		hits := 0
		for _, kw := range topic.Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits >= 2 {
			return topic.Name
		}
	}
	return "General Content"
}

func titleFromParagraph(paragraph string) string {
	first, _, _ := strings.Cut(paragraph, ".")
	return truncate(strings.TrimSpace(first), 60)
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// estimatePage maps a character offset to a page number by proportional
// position within the document, clamped to [1, page count].
func estimatePage(doc model.Document, charOffset int) int {
	if len(doc.Pages) == 0 {
		return 1
	}
	total := len(doc.Content)
	if total == 0 {
		return 1
	}
	page := int(float64(charOffset)/float64(total)*float64(len(doc.Pages))) + 1
	if page < 1 {
		page = 1
	}
	if page > len(doc.Pages) {
		page = len(doc.Pages)
	}
	return page
}
