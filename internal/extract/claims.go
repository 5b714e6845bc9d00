package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/ppiankov/alegato/internal/lexicon"
	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/parse"
)

// DefaultNegationWindow is the number of words before an event phrase inspected for negation cues
const DefaultNegationWindow = 4

// ClaimExtractor turns sentences into fact and amount claims using the fixed event table
type ClaimExtractor struct {
	events         []lexicon.EventPattern
	negationWindow int
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(negationWindow int) *ClaimExtractor {
	if negationWindow <= 0 {
		negationWindow = DefaultNegationWindow
	}
	return &ClaimExtractor{
		events:         lexicon.Events,
		negationWindow: negationWindow,
	}
}

// Extract extracts claims from every span of text. Missing or unusable spans
// fall back to one span covering the whole document.
func (e *ClaimExtractor) Extract(text string, spans []model.Span) []model.Claim {
	var claims []model.Claim

	for _, span := range parse.ResolveSpans(text, spans) {
		for _, sentence := range parse.SplitSentences(text[span.Start:span.End], span.Start) {
			claims = append(claims, e.extractSentence(span.ID, sentence)...)
		}
	}

	return dedupeClaims(claims)
}

// extractSentence tests one sentence against every event pattern
func (e *ClaimExtractor) extractSentence(sectionID string, s parse.Sentence) []model.Claim {
	folded := lexicon.Fold(s.Text)

	var claims []model.Claim
	for _, ev := range e.events {
		loc := ev.Match.FindStringIndex(folded)
		if loc == nil {
			continue
		}

		base := model.Claim{
			Subject:   ev.Subject,
			Predicate: ev.Predicate,
			Object:    ev.InferObject(folded),
			Polarity:  !parse.IsNegated(folded, loc[0], loc[1], e.negationWindow),
			SectionID: sectionID,
			Start:     s.Start,
			End:       s.End,
			RawText:   s.Text,
		}

		fact := base
		fact.Kind = model.ClaimKindFact
		fact.TopicKey = ev.Topic
		if d, ok := parse.FirstDate(s.Text); ok {
			fact.Time = &model.ClaimTime{Date: d.ISO}
		}
		fact.ID = ClaimID(sectionID, s.Start, fact.TopicKey)
		claims = append(claims, fact)

		a, ok := parse.FirstAmount(s.Text)
		if !ok {
			continue
		}
		scope := lexicon.InferScope(folded)
		if scope == "" {
			scope = lexicon.DefaultScope
		}
		amount := base
		amount.Kind = model.ClaimKindAmount
		amount.TopicKey = ev.Topic + "__" + scope
		amount.Scope = scope
		amount.Amount = &model.ClaimAmount{Value: a.Value, Currency: a.Currency}
		amount.ID = ClaimID(sectionID, s.Start, amount.TopicKey)
		claims = append(claims, amount)
	}

	return claims
}

// ClaimID is a stable hash of section, offset and topic
func ClaimID(sectionID string, start int, topicKey string) string {
	sum := sha256.Sum256([]byte(sectionID + "|" + strconv.Itoa(start) + "|" + topicKey))
	return "clm_" + hex.EncodeToString(sum[:8])
}

// dedupeClaims removes duplicate claims, keeping the first occurrence
func dedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool)
	var unique []model.Claim

	for _, claim := range claims {
		if !seen[claim.ID] {
			seen[claim.ID] = true
			unique = append(unique, claim)
		}
	}

	return unique
}
