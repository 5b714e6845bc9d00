// Package critique reports missing argument elements and court-unfriendly style.
package critique

import (
	"github.com/ppiankov/alegato/internal/lexicon"
	"github.com/ppiankov/alegato/internal/model"
)

// Weakness codes
const (
	CodeNoPretension = "no_pretension"
	CodeNoNorm       = "no_norm_citation"
	CodeNoMotivation = "no_motivation"
	CodeNoCausalLink = "no_causal_link"
)

type check struct {
	terms    *lexicon.Terms
	weakness model.Weakness
}

// checks run in a fixed order so output is stable
var checks = []check{
	{lexicon.Pretension, model.Weakness{
		Code:       CodeNoPretension,
		Label:      "No se identifica una pretensión concreta",
		Severity:   model.SeverityHigh,
		Suggestion: "Formule con precisión qué se solicita al tribunal, con montos y alcances.",
	}},
	{lexicon.NormCitation, model.Weakness{
		Code:       CodeNoNorm,
		Label:      "No se cita ninguna norma",
		Severity:   model.SeverityHigh,
		Suggestion: "Indique los artículos y cuerpos normativos en que se funda la pretensión.",
	}},
	{lexicon.Motivation, model.Weakness{
		Code:       CodeNoMotivation,
		Label:      "Falta motivación explícita",
		Severity:   model.SeverityMedium,
		Suggestion: "Explique las razones que llevan de los hechos a la conclusión.",
	}},
	{lexicon.CausalLink, model.Weakness{
		Code:       CodeNoCausalLink,
		Label:      "No se explicita el nexo causal",
		Severity:   model.SeverityMedium,
		Suggestion: "Vincule expresamente la conducta atribuida con el daño reclamado.",
	}},
}

// DetectWeaknesses returns one weakness per absent element, in fixed order
func DetectWeaknesses(text string) []model.Weakness {
	folded := lexicon.Fold(text)
	out := []model.Weakness{}
	for _, c := range checks {
		if !c.terms.Match(folded) {
			out = append(out, c.weakness)
		}
	}
	return out
}
