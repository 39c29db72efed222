package ingest

import (
	"bufio"
	"io"
	"strings"

	"github.com/docsieve/docsieve/internal/model"
)

// TextParser handles plain text files. Form feeds are treated as page
// separators; without them the paragraphs are grouped into virtual pages.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]model.Page, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var all strings.Builder
	for scanner.Scan() {
		all.WriteString(scanner.Text())
		all.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	text := all.String()
	if strings.Contains(text, "\f") {
		var pages []model.Page
		for _, part := range strings.Split(text, "\f") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			pages = append(pages, model.Page{Number: len(pages) + 1, Text: part})
		}
		return pages, nil
	}

	return paginate(splitParagraphs(text)), nil
}

// splitParagraphs splits text on blank lines, dropping empty parts.
func splitParagraphs(text string) []string {
	var paragraphs []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(strings.TrimRight(line, "\n"))
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	return paragraphs
}
