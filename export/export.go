// Package export transforms a review report into structured document
// forms. It is pure and stateless: the report text in, a document out.
package export

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// Section is one heading and the paragraphs under it. Level follows
// markdown heading levels; the preamble before any heading has Level 0
// and an empty Heading.
type Section struct {
	Level      int
	Heading    string
	Paragraphs []string
}

// Document is the structured form of a report, preserving heading
// levels and paragraph breaks.
type Document struct {
	Sections []Section
}

// boldHeadingLevel is assigned to short bolded lines, which report text
// uses as subheadings.
const boldHeadingLevel = 3

const boldHeadingMaxLen = 80

// HTML renders the report as a standalone HTML fragment.
func HTML(report string) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(report), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Build parses the report's light markup into a Document. Markdown
// headings and short bolded lines become section headings; everything
// else becomes paragraphs under the current section.
func Build(report string) Document {
	src := []byte(report)
	root := goldmark.New().Parser().Parse(gmtext.NewReader(src))

	var doc Document
	cur := Section{}
	flush := func() {
		if cur.Heading != "" || len(cur.Paragraphs) > 0 {
			doc.Sections = append(doc.Sections, cur)
		}
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			flush()
			cur = Section{Level: node.Level, Heading: nodeText(node, src)}
		case *ast.Paragraph:
			if title, ok := boldHeading(node, src); ok {
				flush()
				cur = Section{Level: boldHeadingLevel, Heading: title}
				continue
			}
			if txt := nodeText(node, src); txt != "" {
				cur.Paragraphs = append(cur.Paragraphs, txt)
			}
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				if txt := nodeText(item, src); txt != "" {
					cur.Paragraphs = append(cur.Paragraphs, "- "+txt)
				}
			}
		default:
			if txt := nodeText(n, src); txt != "" {
				cur.Paragraphs = append(cur.Paragraphs, txt)
			}
		}
	}
	flush()
	return doc
}

// boldHeading reports whether the paragraph is a single short bolded
// line, the report convention for a subheading.
func boldHeading(p *ast.Paragraph, src []byte) (string, bool) {
	child := p.FirstChild()
	if child == nil || child.NextSibling() != nil {
		return "", false
	}
	em, ok := child.(*ast.Emphasis)
	if !ok || em.Level != 2 {
		return "", false
	}
	title := nodeText(em, src)
	title = strings.TrimSuffix(title, ":")
	if title == "" || len(title) > boldHeadingMaxLen {
		return "", false
	}
	return title, true
}

func nodeText(n ast.Node, src []byte) string {
	return strings.TrimSpace(string(n.Text(src)))
}
