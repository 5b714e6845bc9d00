package source

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ppiankov/alegato/internal/lexicon"
	"github.com/ppiankov/alegato/internal/model"
	"golang.org/x/net/html"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// HTMLAdapter loads HTML submissions; every h1-h6 opens a section
type HTMLAdapter struct{}

// NewHTMLAdapter creates a new HTML adapter
func NewHTMLAdapter() *HTMLAdapter {
	return &HTMLAdapter{}
}

// Name returns the adapter name
func (a *HTMLAdapter) Name() string {
	return "html"
}

// CanHandle checks the content type or file extension
func (a *HTMLAdapter) CanHandle(path string, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// Load parses the HTML, extracts visible text and derives spans from headings
func (a *HTMLAdapter) Load(r io.Reader, name string) (*Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	w := &textWriter{}
	w.walk(doc)

	text := w.buf.String()
	return &Document{
		Name:   name,
		Format: a.Name(),
		Text:   text,
		Spans:  w.spans(len(text)),
	}, nil
}

type headingMark struct {
	id    string
	start int
}

// textWriter accumulates visible text and heading positions
type textWriter struct {
	buf      strings.Builder
	headings []headingMark
}

func (w *textWriter) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "iframe", "head":
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			w.block()
			title := strings.Join(strings.Fields(extractText(n)), " ")
			if title == "" {
				return
			}
			w.headings = append(w.headings, headingMark{id: headingSlug(title), start: w.buf.Len()})
			w.buf.WriteString(title)
			w.block()
			return
		case "p", "div", "li", "tr", "section", "article", "blockquote", "br":
			w.block()
			defer w.block()
		}
	}

	if n.Type == html.TextNode {
		text := strings.Join(strings.Fields(n.Data), " ")
		if text != "" {
			if w.buf.Len() > 0 && !strings.HasSuffix(w.buf.String(), "\n") {
				w.buf.WriteString(" ")
			}
			w.buf.WriteString(text)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// block ends the current paragraph with a blank line
func (w *textWriter) block() {
	s := w.buf.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	}
	if strings.HasSuffix(s, "\n") {
		w.buf.WriteString("\n")
		return
	}
	w.buf.WriteString("\n\n")
}

func (w *textWriter) spans(textLen int) []model.Span {
	if len(w.headings) == 0 {
		return nil
	}

	var spans []model.Span
	if w.headings[0].start > 0 {
		spans = append(spans, model.Span{ID: PreambleID, Start: 0, End: w.headings[0].start})
	}
	for i, h := range w.headings {
		end := textLen
		if i+1 < len(w.headings) {
			end = w.headings[i+1].start
		}
		spans = append(spans, model.Span{ID: h.id, Start: h.start, End: end})
	}
	return spans
}

// headingSlug uses the normalized section id when the heading is a known alias
func headingSlug(title string) string {
	if id, ok := HeadingID(title); ok {
		return id
	}
	return strings.Trim(slugPattern.ReplaceAllString(lexicon.Fold(title), "_"), "_")
}

// extractText extracts text content from a node
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(extractText(c))
		buf.WriteString(" ")
	}
	return strings.TrimSpace(buf.String())
}
