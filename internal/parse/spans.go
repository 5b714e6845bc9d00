package parse

import "github.com/ppiankov/alegato/internal/model"

// DocumentSpanID names the implicit span covering a whole unsectioned text
const DocumentSpanID = "document"

// ResolveSpans clamps spans to the text and drops empty or inverted ones.
// With no usable span the whole text becomes a single "document" span.
func ResolveSpans(text string, spans []model.Span) []model.Span {
	n := len(text)
	out := make([]model.Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End > n {
			s.End = n
		}
		if s.Start >= s.End {
			continue
		}
		if s.ID == "" {
			s.ID = DocumentSpanID
		}
		out = append(out, s)
	}

	if len(out) == 0 && n > 0 {
		out = append(out, model.Span{ID: DocumentSpanID, Start: 0, End: n})
	}
	return out
}
