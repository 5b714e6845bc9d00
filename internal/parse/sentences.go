// Package parse holds the pure text-to-value extractors shared by the engines:
// sentences, paragraphs, negation cues, calendar dates and currency amounts.
package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentence is a trimmed sentence with byte offsets into the original text
type Sentence struct {
	Text  string
	Start int
	End   int
}

// SplitSentences splits text on sentence-ending punctuation followed by
// whitespace. Abbreviations are not recognized. Offsets are shifted by base.
func SplitSentences(text string, base int) []Sentence {
	var sentences []Sentence

	start := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next >= len(text) {
			continue
		}
		nr, _ := utf8.DecodeRuneInString(text[next:])
		if !unicode.IsSpace(nr) {
			continue
		}
		sentences = appendSentence(sentences, text, start, next, base)
		start = next
	}
	sentences = appendSentence(sentences, text, start, len(text), base)

	return sentences
}

func appendSentence(out []Sentence, text string, start, end, base int) []Sentence {
	raw := text[start:end]
	trimmedLeft := strings.TrimLeftFunc(raw, unicode.IsSpace)
	start += len(raw) - len(trimmedLeft)
	trimmed := strings.TrimRightFunc(trimmedLeft, unicode.IsSpace)
	if trimmed == "" {
		return out
	}
	return append(out, Sentence{
		Text:  trimmed,
		Start: base + start,
		End:   base + start + len(trimmed),
	})
}

// Paragraph is a blank-line separated block of text
type Paragraph struct {
	Text  string
	Start int
	End   int
}

// SplitParagraphs splits text on blank lines
func SplitParagraphs(text string) []Paragraph {
	var paragraphs []Paragraph

	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		lineStart := offset
		offset += len(line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := len(paragraphs); n > 0 && paragraphs[n-1].End == lineStart {
			paragraphs[n-1].End = offset
			continue
		}
		paragraphs = append(paragraphs, Paragraph{Start: lineStart, End: offset})
	}

	for i := range paragraphs {
		paragraphs[i].Text = strings.TrimSpace(text[paragraphs[i].Start:paragraphs[i].End])
	}
	return paragraphs
}

// WordCount counts whitespace-separated words
func WordCount(s string) int {
	return len(strings.Fields(s))
}
