package model

// ContradictionType classifies why two claims cannot both hold
type ContradictionType string

const (
	ContradictionDirect   ContradictionType = "direct"   // Same event asserted and denied
	ContradictionTemporal ContradictionType = "temporal" // Same event placed on different dates
	ContradictionNumeric  ContradictionType = "numeric"  // Same concept valued differently
	ContradictionRole     ContradictionType = "role"     // Same act attributed to opposing parties
)

// ContradictionTypes lists every contradiction class
var ContradictionTypes = []ContradictionType{
	ContradictionDirect, ContradictionTemporal, ContradictionNumeric, ContradictionRole,
}

// ContradictionFinding is a raw pairwise match before severity and narration
type ContradictionFinding struct {
	ID         string            `json:"id"`
	Type       ContradictionType `json:"type"`
	Topic      string            `json:"topic"`
	Claims     [2]Claim          `json:"claims"`
	Confidence float64           `json:"confidence"`
}

// ClaimRef is the display form of a claim inside a report entry
type ClaimRef struct {
	ID        string `json:"id"`
	SectionID string `json:"sectionId"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Text      string `json:"text"`
}

// ContradictionEntry is a narrated, severity-classified contradiction
type ContradictionEntry struct {
	ID                 string            `json:"id"`
	Type               ContradictionType `json:"type"`
	Topic              string            `json:"topic"`
	Severity           Severity          `json:"severity"`
	Confidence         float64           `json:"confidence"`
	Claims             [2]ClaimRef       `json:"claims"`
	WhyItMatters       string            `json:"whyItMatters"`
	FixSuggestion      string            `json:"fixSuggestion"`
	SemanticSimilarity *float64          `json:"semanticSimilarity,omitempty"` // Only when embeddings were requested
}

// ContradictionReport is the output of the contradiction pipeline
type ContradictionReport struct {
	Contradictions []ContradictionEntry `json:"contradictions"`
	Summary        SeveritySummary      `json:"summary"`
}

// CoherenceType classifies semantic-coherence gaps
type CoherenceType string

const (
	CoherenceInferentialGap        CoherenceType = "inferential_gap"
	CoherenceThesisDisconnect      CoherenceType = "thesis_disconnect"
	CoherenceNormativeMisalignment CoherenceType = "normative_misalignment"
	CoherenceFactValueMix          CoherenceType = "fact_value_mix"
)

// CoherenceEvidence points at the text that triggered a coherence finding
type CoherenceEvidence struct {
	Section string `json:"section"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Text    string `json:"text"`
}

// CoherenceFinding is a detected gap in the argumentative chain
type CoherenceFinding struct {
	ID            string              `json:"id"`
	Type          CoherenceType       `json:"type"`
	Severity      Severity            `json:"severity"`
	Confidence    float64             `json:"confidence"`
	Evidence      []CoherenceEvidence `json:"evidence"`
	WhyItMatters  string              `json:"whyItMatters"`
	FixSuggestion string              `json:"fixSuggestion"`
}

// CoherenceReport is the output of the semantic coherence engine
type CoherenceReport struct {
	Findings []CoherenceFinding `json:"findings"`
	Summary  SeveritySummary    `json:"summary"`
}

// Weakness is a missing structural element of the argument
type Weakness struct {
	Code       string   `json:"code"`
	Label      string   `json:"label"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion"`
}

// StyleFinding is a stylistic issue a court is likely to frown upon
type StyleFinding struct {
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Examples []string `json:"examples"`
}

// RhetoricFinding is a readability issue detected by the rhetoric engine
type RhetoricFinding struct {
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
	Value    float64  `json:"value"`     // Observed ratio or density
	Limit    float64  `json:"threshold"` // Threshold that was crossed
}

// RhetoricSummary holds the structural readability metrics
type RhetoricSummary struct {
	Score              float64 `json:"score"`       // 0-100
	RhythmIndex        float64 `json:"rhythmIndex"` // 0-100, penalizes long sentences
	ConnectorDensity   float64 `json:"connectorDensity"`
	StructureIndex     float64 `json:"structureIndex"` // 0-100, penalizes long paragraphs
	LongSentenceRatio  float64 `json:"longSentenceRatio"`
	LongParagraphRatio float64 `json:"longParagraphRatio"`
	Sentences          int     `json:"sentences"`
	Paragraphs         int     `json:"paragraphs"`
}

// RhetoricReport is the output of the rhetoric engine
type RhetoricReport struct {
	Findings []RhetoricFinding `json:"findings"`
	Summary  RhetoricSummary   `json:"summary"`
}
