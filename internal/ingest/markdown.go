package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/docsieve/docsieve/internal/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) ([]model.Page, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(src))
			if title != "" {
				// Re-emit the hash marker so the segmenter sees the heading.
				blocks = append(blocks, fmt.Sprintf("%s %s", strings.Repeat("#", node.Level), title))
			}
		default:
			if t := extractMarkdownText(n, src); t != "" {
				blocks = append(blocks, t)
			}
		}
	}

	return paginate(blocks), nil
}

// extractMarkdownText gets the text content of a goldmark AST node. Block
// nodes with source lines are read directly; container nodes (lists,
// quotes) are assembled from their children.
func extractMarkdownText(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}

	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := extractMarkdownText(c, src); t != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}
