package lexicon

import "regexp"

// ObjectRule maps a phrase in the sentence to the inferred event object
type ObjectRule struct {
	Terms  *Terms
	Object string
}

// EventPattern is one entry of the fixed event table
type EventPattern struct {
	Topic         string
	Subject       string
	Predicate     string
	Match         *regexp.Regexp // Applied to folded sentence text
	Objects       []ObjectRule   // First rule that matches wins
	DefaultObject string
}

// InferObject resolves the event object for a folded sentence
func (p EventPattern) InferObject(folded string) string {
	for _, rule := range p.Objects {
		if rule.Terms.Match(folded) {
			return rule.Object
		}
	}
	return p.DefaultObject
}

// Events is the fixed event table used by the claim extractor
var Events = []EventPattern{
	{
		Topic:     "contract_signed",
		Subject:   "parties",
		Predicate: "sign",
		Match: regexp.MustCompile(`\b(?:suscrib|firm|celebr)\w*\s+(?:\S+\s+){0,6}?contrato\b` +
			`|\bcontrato\s+(?:\S+\s+){0,6}?(?:suscript|suscrit|firmad|celebrad)\w*` +
			`|\bsign(?:ed)?\s+(?:\S+\s+){0,6}?(?:contract|agreement)\b`),
		DefaultObject: "contract",
	},
	{
		Topic:     "notice_served",
		Subject:   "court",
		Predicate: "notify",
		Match:     regexp.MustCompile(`\b(?:notific\w*|served\b|notice of\b)`),
		Objects: []ObjectRule{
			{Terms: NewTerms("judgment", `sentencia\w*`, `fallo\b`, `judgment\b`), Object: "judgment"},
			{Terms: NewTerms("order", `auto\b`, `providencia\w*`, `decreto\b`, `order\b`), Object: "order"},
			{Terms: NewTerms("ruling", `resolucion\w*`, `ruling\b`), Object: "ruling"},
		},
		DefaultObject: "act",
	},
	{
		Topic:     "employment_bond",
		Subject:   "parties",
		Predicate: "employ",
		Match: regexp.MustCompile(`\b(?:relacion laboral|vinculo laboral|contrato de trabajo` +
			`|relacion de dependencia|employment relationship|employed by)\b`),
		DefaultObject: "employment",
	},
	{
		Topic:         "payment_made",
		Subject:       "debtor",
		Predicate:     "pay",
		Match:         regexp.MustCompile(`\b(?:pago|pagaron|abono|abonaron|deposito|depositaron|transfirio|paid|deposited)\b`),
		DefaultObject: "payment",
	},
}

// ScopeRule maps a phrase to the concept an amount refers to
type ScopeRule struct {
	Terms *Terms
	Scope string
}

// DefaultScope is used when an amount carries no recognizable concept
const DefaultScope = "general"

// Scopes is ordered from most to least specific
var Scopes = []ScopeRule{
	{Terms: NewTerms("moral_damages", `dano moral\b`, `moral damages?\b`), Scope: "moral_damages"},
	{Terms: NewTerms("lost_profits", `lucro cesante\b`, `lost profits?\b`), Scope: "lost_profits"},
	{Terms: NewTerms("consequential_damages", `dano emergente\b`, `consequential damages?\b`), Scope: "consequential_damages"},
	{Terms: NewTerms("indemnity", `indemnizacion\w*`, `indemnity\b`), Scope: "indemnity"},
	{Terms: NewTerms("deadline", `plazo\w*`, `deadline\w*`), Scope: "deadline"},
}

// InferScope returns the first scope whose terms appear in folded
func InferScope(folded string) string {
	for _, rule := range Scopes {
		if rule.Terms.Match(folded) {
			return rule.Scope
		}
	}
	return ""
}

// SectionAliases normalizes section ids and headings to facts, grounds, petition
var SectionAliases = map[string]string{
	"hechos":                 "facts",
	"facts":                  "facts",
	"antecedentes":           "facts",
	"fundamentos":            "grounds",
	"fundamentos de derecho": "grounds",
	"derecho":                "grounds",
	"grounds":                "grounds",
	"law":                    "grounds",
	"petitorio":              "petition",
	"petition":               "petition",
	"solicitud":              "petition",
	"relief":                 "petition",
	"objeto":                 "object",
	"object":                 "object",
	"prueba":                 "evidence",
	"evidence":               "evidence",
}

// KeywordWeight is one weighted doc-type hint
type KeywordWeight struct {
	Terms  *Terms
	Weight int
}

// DocTypeKeywords scores candidate doc types; keys are the closed doc-type values
var DocTypeKeywords = map[string][]KeywordWeight{
	"claim": {
		{NewTerms("claim_strong", `promuev\w* demanda\b`, `interpon\w* demanda\b`, `inicia demanda\b`, `file[sd]? (?:a|this) complaint\b`), 3},
		{NewTerms("claim_medium", `complaint\b`, `reclam\w*`), 2},
		{NewTerms("claim_weak", `objeto\b`, `indemnizacion\w*`, `plaintiff\b`), 1},
	},
	"appeal": {
		{NewTerms("appeal_strong", `recurso de apelacion\b`, `expres\w* agravios\b`, `notice of appeal\b`), 3},
		{NewTerms("appeal_medium", `apelacion\b`, `apel\w*`, `agravios?\b`, `alzada\b`, `appeal\w*`), 2},
		{NewTerms("appeal_weak", `primera instancia\b`, `camara\b`, `revoque\b`), 1},
	},
	"answer": {
		{NewTerms("answer_strong", `contest\w* (?:la )?demanda\b`, `contestacion de demanda\b`), 3},
		{NewTerms("answer_medium", `contestacion\b`, `excepcion\w*`, `answer\b`), 2},
		{NewTerms("answer_weak", `niego\b`, `niega\b`, `desconozco\b`, `negativa\b`, `denies\b`, `deny\b`), 1},
	},
	"cassation": {
		{NewTerms("cassation_strong", `casacion\b`, `recurso extraordinario\b`, `cassation\b`), 3},
		{NewTerms("cassation_medium", `arbitrariedad\b`, `doctrina legal\b`, `corte suprema\b`, `certiorari\b`), 2},
		{NewTerms("cassation_weak", `tribunal superior\b`, `cuestion federal\b`), 1},
	},
}

// DocTypeCandidates is the fixed evaluation order for keyword scoring
var DocTypeCandidates = []string{"claim", "appeal", "answer", "cassation"}

// DocTypeAliases normalizes explicit doc types to the closed set
var DocTypeAliases = map[string]string{
	"claim":                   "claim",
	"demanda":                 "claim",
	"complaint":               "claim",
	"lawsuit":                 "claim",
	"appeal":                  "appeal",
	"apelacion":               "appeal",
	"recurso de apelacion":    "appeal",
	"expresion de agravios":   "appeal",
	"answer":                  "answer",
	"contestacion":            "answer",
	"contestacion de demanda": "answer",
	"reply":                   "answer",
	"cassation":               "cassation",
	"casacion":                "cassation",
	"recurso extraordinario":  "cassation",
	"default":                 "default",
	"other":                   "default",
	"otro":                    "default",
}
