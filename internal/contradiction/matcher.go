package contradiction

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ppiankov/alegato/internal/lexicon"
	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/parse"
)

// Confidence assigned to each contradiction class
const (
	DirectConfidence         = 0.85
	TemporalConfidence       = 0.8 // gap of at least TemporalWideGapDays
	TemporalNarrowConfidence = 0.7
	NumericConfidence        = 0.75
	RoleConfidence           = 0.65

	TemporalWideGapDays = 7
)

// Procedural roles an act can be attributed to
const (
	roleNone       = ""
	roleClaimant   = "claimant"
	roleRespondent = "respondent"
)

// Match compares every unordered pair inside each group. A pair can yield
// more than one finding; direct, temporal and role compare fact claims and
// numeric compares amount claims.
func Match(groups []model.TopicGroup) []model.ContradictionFinding {
	var findings []model.ContradictionFinding

	for _, g := range groups {
		for i := 0; i < len(g.Items); i++ {
			for j := i + 1; j < len(g.Items); j++ {
				findings = append(findings, matchPair(g.TopicKey, g.Items[i], g.Items[j])...)
			}
		}
	}

	return findings
}

func matchPair(topic string, a, b model.Claim) []model.ContradictionFinding {
	var out []model.ContradictionFinding

	add := func(t model.ContradictionType, confidence float64) {
		out = append(out, model.ContradictionFinding{
			ID:         FindingID(t, a.ID, b.ID),
			Type:       t,
			Topic:      topic,
			Claims:     [2]model.Claim{a, b},
			Confidence: model.Clamp01(confidence),
		})
	}

	switch {
	case a.Kind == model.ClaimKindFact && b.Kind == model.ClaimKindFact:
		if a.Signature() != b.Signature() {
			return nil
		}
		if a.Polarity != b.Polarity {
			add(model.ContradictionDirect, DirectConfidence)
		}
		if c, ok := temporalConfidence(a, b); ok {
			add(model.ContradictionTemporal, c)
		}
		if ra, rb := roleOf(a.RawText), roleOf(b.RawText); ra != roleNone && rb != roleNone && ra != rb {
			add(model.ContradictionRole, RoleConfidence)
		}

	case a.Kind == model.ClaimKindAmount && b.Kind == model.ClaimKindAmount:
		if a.Subject != b.Subject || a.Scope != b.Scope || a.Amount == nil || b.Amount == nil {
			return nil
		}
		if !parse.AmountsClose(a.Amount.Value, a.Amount.Currency, b.Amount.Value, b.Amount.Currency) {
			add(model.ContradictionNumeric, NumericConfidence)
		}
	}

	return out
}

// temporalConfidence compares the dates of two affirmative mentions of one event
func temporalConfidence(a, b model.Claim) (float64, bool) {
	if a.Time == nil || b.Time == nil || !a.Polarity || !b.Polarity {
		return 0, false
	}
	days, ok := parse.DaysBetween(a.Time.Date, b.Time.Date)
	if !ok || days < 1 {
		return 0, false
	}
	if days >= TemporalWideGapDays {
		return TemporalConfidence, true
	}
	return TemporalNarrowConfidence, true
}

// roleOf reports which procedural side a sentence attributes the act to.
// Sentences naming both sides are ambiguous and count as neither.
func roleOf(raw string) string {
	folded := lexicon.Fold(raw)
	claimant := lexicon.ClaimantRole.Match(folded)
	respondent := lexicon.RespondentRole.Match(folded)
	switch {
	case claimant && !respondent:
		return roleClaimant
	case respondent && !claimant:
		return roleRespondent
	default:
		return roleNone
	}
}

// FindingID is a stable hash of the contradiction type and both claim ids
func FindingID(t model.ContradictionType, claimA, claimB string) string {
	sum := sha256.Sum256([]byte(string(t) + "|" + claimA + "|" + claimB))
	return "ctr_" + hex.EncodeToString(sum[:8])
}
