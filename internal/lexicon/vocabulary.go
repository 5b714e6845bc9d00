package lexicon

import "regexp"

// Discourse connectors counted by the rhetoric engine
var Connectors = NewTerms("connectors",
	`por lo tanto\b`, `en consecuencia\b`, `por consiguiente\b`, `por ende\b`, `por ello\b`,
	`asimismo\b`, `ademas\b`, `sin embargo\b`, `no obstante\b`, `en efecto\b`, `de modo que\b`,
	`es decir\b`, `en suma\b`, `en primer lugar\b`, `en segundo lugar\b`, `finalmente\b`,
	`por otra parte\b`, `dado que\b`, `toda vez que\b`,
	`therefore\b`, `however\b`, `moreover\b`, `furthermore\b`, `consequently\b`, `in addition\b`,
)

// LogicalConnectors mark a sentence as drawing a conclusion
var LogicalConnectors = NewTerms("logical_connectors",
	`por lo tanto\b`, `en consecuencia\b`, `por consiguiente\b`, `por ende\b`, `por ello\b`,
	`de ello se sigue\b`, `de modo que\b`, `luego\b`,
	`therefore\b`, `consequently\b`, `thus\b`, `hence\b`,
)

// DecisionalVerbs mark a sentence as asking for or announcing a decision
var DecisionalVerbs = NewTerms("decisional_verbs",
	`corresponde\b`, `procede\b`, `se (?:condene|declare|revoque|rechace|admita|ordene|haga lugar)\b`,
	`hacer lugar\b`, `condenar\b`, `revocar\b`, `rechazar\b`, `declarar\b`,
	`solicito\b`, `solicitamos\b`, `pido\b`, `pedimos\b`,
	`must be (?:granted|dismissed|reversed)\b`, `is liable\b`,
)

// Support is evidentiary, documentary or normative vocabulary backing a conclusion
var Support = NewTerms("support",
	`prueba\w*`, `probad[oa]s?\b`, `acredit\w*`, `document\w*`, `constancia\w*`, `testig\w*`,
	`testimoni\w*`, `peric\w*`, `informe\w*`, `factura\w*`, `recibo\w*`, `acta\b`, `actas\b`,
	`expediente\w*`, `articulos?\b`, `art\.`, `ley\b`, `leyes\b`, `codigo\w*`, `decreto\w*`,
	`jurisprudencia\b`, `fallos?\b`,
	`evidence\b`, `exhibit\w*`, `witness\w*`, `statute\w*`,
)

// NormCitation matches an explicit citation of a legal norm
var NormCitation = NewTerms("norm_citation",
	`art(?:iculo)?s?\.?\s*\d+`,
	`ley\s+(?:n[°º.o]*\s*)?\d+`,
	`codigo\s+(?:civil|penal|procesal|de comercio|del trabajo)`,
	`decreto\s+(?:n[°º.o]*\s*)?\d+`,
	`section\s+\d+`,
)

// Application is subsumption language tying a norm to the facts of the case
var Application = NewTerms("application",
	`en (?:el|este) (?:presente )?caso\b`, `en autos\b`, `en la especie\b`,
	`aplica\w*`, `encuadr\w*`, `subsum\w*`, `se configura\w*`,
	`in (?:this|the present) case\b`, `appl(?:y|ies|ied) to\b`,
)

// Pretension is language formulating a concrete request to the court
var Pretension = NewTerms("pretension",
	`solicit\w*`, `pido\b`, `pide\b`, `pedimos\b`, `peticion\w*`, `petitorio\b`, `reclam\w*`,
	`se condene\b`, `se declare\b`, `hacer lugar\b`, `haga lugar\b`,
	`request\w*`, `we ask\b`, `pray\w*`,
)

// Motivation is language that gives reasons
var Motivation = NewTerms("motivation",
	`toda vez que\b`, `dado que\b`, `puesto que\b`, `ya que\b`, `en virtud de\b`, `habida cuenta\b`,
	`atento a\b`, `considerando\b`, `fundament\w*`, `motiv\w*`,
	`because\b`, `given that\b`, `in light of\b`,
)

// CausalLink is language connecting conduct with damage
var CausalLink = NewTerms("causal_link",
	`nexo causal\b`, `relacion de causalidad\b`, `causal\w*`, `como consecuencia de\b`,
	`a raiz de\b`, `debido a\b`, `causad[oa]s?\b`, `causo\b`, `causaron\b`, `provoc\w*`, `ocasion\w*`,
	`caused by\b`, `result of\b`, `due to\b`,
)

// Evidence is vocabulary referring to offered proof
var Evidence = NewTerms("evidence",
	`prueba\w*`, `document\w*`, `testig\w*`, `testimoni\w*`, `peric\w*`, `acredit\w*`,
	`constancia\w*`, `factura\w*`, `recibo\w*`,
	`evidence\b`, `exhibit\w*`, `witness\w*`,
)

// ValueJudgment marks a sentence as evaluative rather than descriptive
var ValueJudgment = NewTerms("value_judgment",
	`evidentemente\b`, `claramente\b`, `obviamente\b`, `manifiestamente\b`, `absurd\w*`,
	`arbitrari\w*`, `abusiv\w*`, `injust\w*`, `ilegitim\w*`, `temerari\w*`, `malicios\w*`,
	`escandalos\w*`, `inadmisible\w*`,
	`clearly\b`, `obviously\b`, `outrageous\b`, `unfair\b`,
)

// DocumentNoun is a document-type noun that anchors a factual statement
var DocumentNoun = NewTerms("document_noun",
	`contrato\w*`, `factura\w*`, `recibo\w*`, `carta documento\b`, `telegrama\w*`, `acta\b`,
	`nota\b`, `correo\w*`, `e-?mail\b`, `certificado\w*`, `escritura\w*`, `poliza\w*`,
	`expediente\w*`, `resolucion\w*`,
	`invoice\w*`, `receipt\w*`, `letter\b`, `contract\w*`,
)

// CurrencyMark matches a currency symbol or code
var CurrencyMark = regexp.MustCompile(`(?i)(?:US\$|U\$S|\$|€|£|\bUSD\b|\bEUR\b|\bGBP\b|\bARS\b|\bpesos\b)`)

// VagueTerms are imprecise expressions a court will not act on
var VagueTerms = NewTerms("vague_terms",
	`de alguna manera\b`, `de algun modo\b`, `en cierta medida\b`, `cosas\b`, `etcetera\b`, `etc\.`,
	`y demas\b`, `entre otros\b`, `somehow\b`, `stuff\b`, `and so on\b`,
)

// ConclusoryTerms assert a conclusion instead of demonstrating it
var ConclusoryTerms = NewTerms("conclusory_terms",
	`es evidente que\b`, `resulta obvio\b`, `es indudable\b`, `sin lugar a dudas\b`, `a todas luces\b`,
	`es de toda evidencia\b`, `nadie puede negar\b`,
	`it is clear that\b`, `undoubtedly\b`, `it goes without saying\b`,
)

// EvaluativeAdjectives are emotionally loaded qualifiers
var EvaluativeAdjectives = NewTerms("evaluative_adjectives",
	`gravisim[oa]s?\b`, `terribles?\b`, `absurd[oa]s?\b`, `escandalos[oa]s?\b`, `aberrantes?\b`,
	`indignantes?\b`, `inaudit[oa]s?\b`, `vergonzos[oa]s?\b`, `monstruos[oa]s?\b`, `brutal(?:es)?\b`,
	`flagrantes?\b`, `groser[oa]s?\b`,
	`outrageous\b`, `egregious\b`, `shameful\b`,
)

// BareDemonstrative matches a sentence that opens with a referent-less demonstrative
var BareDemonstrative = regexp.MustCompile(`^(?:esto|eso|ello|aquello|lo cual|this|that|it|(?:este|esta|ese|esa) (?:es|fue|era|implica|demuestra|significa|prueba|resulta))\b`)

// NegationCues are the words that flip a claim's polarity
var NegationCues = []string{"no", "nunca", "jamas", "tampoco", "ni", "sin", "not", "never"}

// NegationExceptions are fixed phrases whose cue word negates nothing
var NegationExceptions = NewTerms("negation_exceptions",
	`sin embargo\b`, `no obstante\b`, `sin perjuicio\b`, `no solo\b`, `no solamente\b`,
	`no unicamente\b`, `not only\b`,
)

// ClaimantRole frames an act on the submitting party's side
var ClaimantRole = NewTerms("claimant_role",
	`la actora\b`, `el actor\b`, `parte actora\b`, `demandante\b`, `mi mandante\b`,
	`mi representad[oa]\b`, `mi poderdante\b`, `mi cliente\b`,
	`the claimant\b`, `the plaintiff\b`, `my client\b`,
)

// RespondentRole frames an act on the opposing party's side
var RespondentRole = NewTerms("respondent_role",
	`la demandada\b`, `el demandado\b`, `parte demandada\b`, `contraparte\b`, `la accionada\b`,
	`el accionado\b`,
	`the defendant\b`, `the respondent\b`,
)
