package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docsieve/docsieve/internal/model"
)

// Parser converts raw document bytes into an ordered sequence of pages.
type Parser interface {
	Parse(r io.Reader, filename string) ([]model.Page, error)
}

// SupportedExtensions lists file extensions the ingestion layer can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, pdfFallback bool) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: pdfFallback}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Dir loads documents from a base directory.
type Dir struct {
	Base              string
	MaxPages          int
	FallbackPdftotext bool
}

// Load reads and parses one document. The returned document's content is
// the concatenation of its page texts; a document that yields no text has
// empty Content and must be excluded by the caller before analysis.
func (d *Dir) Load(filename, title string) (model.Document, error) {
	p, err := ForFile(filename, d.FallbackPdftotext)
	if err != nil {
		return model.Document{}, err
	}

	f, err := os.Open(filepath.Join(d.Base, filename))
	if err != nil {
		return model.Document{}, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	pages, err := p.Parse(f, filename)
	if err != nil {
		return model.Document{}, fmt.Errorf("parse %s: %w", filename, err)
	}
	if d.MaxPages > 0 && len(pages) > d.MaxPages {
		pages = pages[:d.MaxPages]
	}

	return Assemble(filename, title, pages), nil
}

// Assemble builds a Document from parsed pages.
func Assemble(filename, title string, pages []model.Page) model.Document {
	texts := make([]string, 0, len(pages))
	for _, pg := range pages {
		texts = append(texts, pg.Text)
	}
	return model.Document{
		Filename: filename,
		Title:    title,
		Content:  strings.Join(texts, "\n\n"),
		Pages:    pages,
	}
}

// pageCharBudget controls pagination of formats without native pages.
const pageCharBudget = 3000

// paginate groups extracted text blocks into virtual pages of roughly
// pageCharBudget characters, numbering them from 1.
func paginate(blocks []string) []model.Page {
	var pages []model.Page
	var current strings.Builder

	flush := func() {
		text := strings.TrimSpace(current.String())
		if text != "" {
			pages = append(pages, model.Page{Number: len(pages) + 1, Text: text})
		}
		current.Reset()
	}

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(block) > pageCharBudget {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(block)
	}
	flush()

	return pages
}
